// Package restapi registers the HTTP handlers for the catalog, account and
// order endpoints on the web server.
package restapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/openeshop/eshop/internal/authgate"
	"github.com/openeshop/eshop/internal/errs"
	"github.com/openeshop/eshop/internal/orders"
	"github.com/openeshop/eshop/internal/webserver"
	"github.com/openeshop/eshop/pkg/common"
)

var (
	gate     *authgate.Gate
	orderSvc *orders.Service
)

// Init wires the handlers and registers every route. The gate is needed for
// token issuance on login; the order service runs the order workflow.
func Init(ctx webserver.AppContext, g *authgate.Gate) {
	gate = g
	orderSvc = orders.NewService(ctx.DB())

	registerCategoryRoutes()
	registerProductRoutes()
	registerUserRoutes()
	registerOrderRoutes()
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.DBContextKey).(*gorm.DB)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

// parseIDParam decodes a hex identifier path parameter.
func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := common.ParseHexID(c.Param(name))
	if err != nil {
		return 0, errs.Validation("Invalid ID")
	}
	return id, nil
}
