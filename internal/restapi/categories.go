package restapi

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/openeshop/eshop/internal/domain"
	"github.com/openeshop/eshop/internal/errs"
	"github.com/openeshop/eshop/internal/webserver"
	"github.com/openeshop/eshop/pkg/common"
)

func registerCategoryRoutes() {
	webserver.ApiGET("/categories", listCategories)
	webserver.ApiGET("/categories/:id", getCategory)
	webserver.ApiPOST("/categories", createCategory)
	webserver.ApiPUT("/categories/:id", updateCategory)
	webserver.ApiDELETE("/categories/:id", deleteCategory)
}

type categoryPayload struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func listCategories(c echo.Context) error {
	var list []domain.Category
	if err := GetDB(c).Order("name").Find(&list).Error; err != nil {
		return errs.Dependency("Failed to query categories", err)
	}
	return ok(c, list)
}

func getCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var category domain.Category
	if err := GetDB(c).First(&category, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("Category not found")
	} else if err != nil {
		return errs.Dependency("Failed to query category", err)
	}
	return ok(c, category)
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return errs.Validation("Unable to parse category parameters")
	}
	if strings.TrimSpace(payload.Name) == "" {
		return errs.Validation("Category name is required")
	}
	now := time.Now()
	category := domain.Category{
		ID:        common.UUIDint64(),
		Name:      strings.TrimSpace(payload.Name),
		Icon:      payload.Icon,
		Color:     payload.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&category).Error; err != nil {
		return errs.Dependency("Failed to create category", err)
	}
	return created(c, category)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var category domain.Category
	if err := GetDB(c).First(&category, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("Category not found")
	} else if err != nil {
		return errs.Dependency("Failed to query category", err)
	}
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return errs.Validation("Unable to parse category parameters")
	}
	if strings.TrimSpace(payload.Name) == "" {
		return errs.Validation("Category name is required")
	}
	category.Name = strings.TrimSpace(payload.Name)
	category.Icon = payload.Icon
	category.Color = payload.Color
	category.UpdatedAt = time.Now()
	if err := GetDB(c).Save(&category).Error; err != nil {
		return errs.Dependency("Failed to update category", err)
	}
	return ok(c, category)
}

func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var category domain.Category
	if err := GetDB(c).First(&category, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("Category not found")
	} else if err != nil {
		return errs.Dependency("Failed to query category", err)
	}
	if err := GetDB(c).Delete(&domain.Category{}, id).Error; err != nil {
		return errs.Dependency("Failed to delete category", err)
	}
	return ok(c, echo.Map{"success": true, "message": "The category is deleted!"})
}
