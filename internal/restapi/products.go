package restapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/openeshop/eshop/internal/domain"
	"github.com/openeshop/eshop/internal/errs"
	"github.com/openeshop/eshop/internal/webserver"
	"github.com/openeshop/eshop/pkg/common"
)

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
	webserver.ApiGET("/products/get/count", countProducts)
	webserver.ApiGET("/products/get/featured", listFeaturedProducts)
	webserver.ApiGET("/products/get/featured/:count", listFeaturedProductsLimit)
}

type productPayload struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	RichDescription string   `json:"richDescription"`
	Image           string   `json:"image"`
	Brand           string   `json:"brand"`
	Price           *float64 `json:"price"`
	Category        string   `json:"category"`
	CountInStock    *int     `json:"countInStock"`
	Rating          float64  `json:"rating"`
	NumReviews      int      `json:"numReviews"`
	IsFeatured      bool     `json:"isFeatured"`
}

func listProducts(c echo.Context) error {
	db := GetDB(c).Model(&domain.Product{})

	// ?categories=a,b filters by category ids
	if raw := strings.TrimSpace(c.QueryParam("categories")); raw != "" {
		var ids []int64
		for _, part := range strings.Split(raw, ",") {
			id, err := common.ParseHexID(strings.TrimSpace(part))
			if err != nil {
				return errs.Validation("Invalid category IDs provided")
			}
			ids = append(ids, id)
		}
		db = db.Where("category_id IN ?", ids)
	}

	var list []domain.Product
	if err := db.Preload("Category").Find(&list).Error; err != nil {
		return errs.Dependency("Failed to query products", err)
	}
	if len(list) == 0 {
		return errs.NotFound("No products found")
	}
	return ok(c, list)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var product domain.Product
	if err := GetDB(c).Preload("Category").First(&product, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("Product not found")
	} else if err != nil {
		return errs.Dependency("Failed to query product", err)
	}
	return ok(c, product)
}

// resolveCategory validates a referenced category id and returns it.
func resolveCategory(c echo.Context, raw string) (int64, error) {
	categoryID, err := common.ParseHexID(raw)
	if err != nil {
		return 0, errs.Validation("Invalid Category ID")
	}
	var count int64
	if err := GetDB(c).Model(&domain.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, errs.Dependency("Failed to verify category", err)
	}
	if count == 0 {
		return 0, errs.Validation("Invalid Category")
	}
	return categoryID, nil
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return errs.Validation("Unable to parse product parameters")
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return errs.Validation("Product name is required")
	}
	if strings.TrimSpace(payload.Image) == "" {
		return errs.Validation("Product image is required")
	}
	if payload.CountInStock == nil || *payload.CountInStock < 0 {
		return errs.Validation("countInStock is required and must be >= 0")
	}
	categoryID, err := resolveCategory(c, payload.Category)
	if err != nil {
		return err
	}

	now := time.Now()
	product := domain.Product{
		ID:              common.UUIDint64(),
		Name:            payload.Name,
		Description:     payload.Description,
		RichDescription: payload.RichDescription,
		Image:           strings.TrimSpace(payload.Image),
		Brand:           payload.Brand,
		Price:           payload.Price,
		CategoryID:      categoryID,
		CountInStock:    *payload.CountInStock,
		Rating:          payload.Rating,
		NumReviews:      payload.NumReviews,
		IsFeatured:      payload.IsFeatured,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := GetDB(c).Create(&product).Error; err != nil {
		return errs.Dependency("Failed to create product", err)
	}
	return created(c, product)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var product domain.Product
	if err := GetDB(c).First(&product, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("Product not found")
	} else if err != nil {
		return errs.Dependency("Failed to query product", err)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return errs.Validation("Unable to parse product parameters")
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return errs.Validation("Product name is required")
	}
	if payload.Category != "" {
		categoryID, err := resolveCategory(c, payload.Category)
		if err != nil {
			return err
		}
		product.CategoryID = categoryID
	}

	product.Name = payload.Name
	product.Description = payload.Description
	product.RichDescription = payload.RichDescription
	if strings.TrimSpace(payload.Image) != "" {
		product.Image = strings.TrimSpace(payload.Image)
	}
	product.Brand = payload.Brand
	if payload.Price != nil {
		product.Price = payload.Price
	}
	if payload.CountInStock != nil {
		if *payload.CountInStock < 0 {
			return errs.Validation("countInStock must be >= 0")
		}
		product.CountInStock = *payload.CountInStock
	}
	product.Rating = payload.Rating
	product.NumReviews = payload.NumReviews
	product.IsFeatured = payload.IsFeatured
	product.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&product).Error; err != nil {
		return errs.Dependency("Failed to update product", err)
	}
	if err := GetDB(c).Preload("Category").First(&product, id).Error; err != nil {
		return errs.Dependency("Failed to load updated product", err)
	}
	return ok(c, product)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var product domain.Product
	if err := GetDB(c).First(&product, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("Product not found")
	} else if err != nil {
		return errs.Dependency("Failed to query product", err)
	}
	if err := GetDB(c).Delete(&domain.Product{}, id).Error; err != nil {
		return errs.Dependency("Failed to delete product", err)
	}
	return ok(c, echo.Map{"success": true, "message": "Product deleted"})
}

func countProducts(c echo.Context) error {
	var count int64
	if err := GetDB(c).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return errs.Dependency("Failed to count products", err)
	}
	return ok(c, echo.Map{"productCount": count})
}

func listFeaturedProducts(c echo.Context) error {
	return featuredProducts(c, 0)
}

func listFeaturedProductsLimit(c echo.Context) error {
	limit, err := strconv.Atoi(c.Param("count"))
	if err != nil || limit <= 0 {
		return errs.Validation("Invalid count parameter. It must be a positive number")
	}
	return featuredProducts(c, limit)
}

func featuredProducts(c echo.Context, limit int) error {
	db := GetDB(c).Where("is_featured = ?", true)
	if limit > 0 {
		db = db.Limit(limit)
	}
	var list []domain.Product
	if err := db.Find(&list).Error; err != nil {
		return errs.Dependency("Failed to query featured products", err)
	}
	if len(list) == 0 {
		return errs.NotFound("No featured products found")
	}
	return ok(c, list)
}
