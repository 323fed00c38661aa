package restapi

import (
	"github.com/labstack/echo/v4"

	"github.com/openeshop/eshop/internal/errs"
	"github.com/openeshop/eshop/internal/orders"
	"github.com/openeshop/eshop/internal/webserver"
	"github.com/openeshop/eshop/pkg/common"
)

func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPOST("/orders", createOrder)
	webserver.ApiPUT("/orders/:id", updateOrder)
	webserver.ApiDELETE("/orders/:id", deleteOrder)
	webserver.ApiGET("/orders/get/totalsales", totalSales)
	webserver.ApiGET("/orders/get/count", countOrders)
	webserver.ApiGET("/orders/get/userorders/:userid", listUserOrders)
}

type orderItemPayload struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type orderPayload struct {
	OrderItems       []orderItemPayload `json:"orderItems"`
	ShippingAddress1 string             `json:"shippingAddress1"`
	ShippingAddress2 string             `json:"shippingAddress2"`
	City             string             `json:"city"`
	Zip              string             `json:"zip"`
	Country          string             `json:"country"`
	Phone            string             `json:"phone"`
	Status           string             `json:"status"`
	User             string             `json:"user"`
}

func listOrders(c echo.Context) error {
	list, err := orderSvc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, list)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	order, err := orderSvc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, order)
}

func createOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return errs.Validation("Unable to parse order parameters")
	}
	userID, err := common.ParseHexID(payload.User)
	if err != nil {
		return errs.Validation("Invalid user ID")
	}
	lines := make([]orders.LineInput, 0, len(payload.OrderItems))
	for _, item := range payload.OrderItems {
		productID, err := common.ParseHexID(item.Product)
		if err != nil {
			return errs.Validation("Invalid product ID")
		}
		lines = append(lines, orders.LineInput{ProductID: productID, Quantity: item.Quantity})
	}
	order, err := orderSvc.Create(c.Request().Context(), orders.CreateInput{
		ShippingAddress1: payload.ShippingAddress1,
		ShippingAddress2: payload.ShippingAddress2,
		City:             payload.City,
		Zip:              payload.Zip,
		Country:          payload.Country,
		Phone:            payload.Phone,
		Status:           payload.Status,
		UserID:           userID,
		Lines:            lines,
	})
	if err != nil {
		return err
	}
	return created(c, order)
}

type orderStatusPayload struct {
	Status string `json:"status"`
}

func updateOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var payload orderStatusPayload
	if err := c.Bind(&payload); err != nil {
		return errs.Validation("Unable to parse order parameters")
	}
	order, err := orderSvc.UpdateStatus(c.Request().Context(), id, payload.Status)
	if err != nil {
		return err
	}
	return ok(c, order)
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := orderSvc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return ok(c, echo.Map{"success": true, "message": "Order deleted successfully"})
}

func totalSales(c echo.Context) error {
	total, err := orderSvc.TotalSales(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"totalsales": total})
}

func countOrders(c echo.Context) error {
	count, err := orderSvc.Count(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"orderCount": count})
}

func listUserOrders(c echo.Context) error {
	userID, err := parseIDParam(c, "userid")
	if err != nil {
		return err
	}
	list, err := orderSvc.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return ok(c, list)
}
