package restapi

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/openeshop/eshop/internal/domain"
	"github.com/openeshop/eshop/internal/errs"
	"github.com/openeshop/eshop/internal/webserver"
	"github.com/openeshop/eshop/pkg/common"
)

func registerUserRoutes() {
	webserver.ApiGET("/users", listUsers)
	webserver.ApiGET("/users/:id", getUser)
	webserver.ApiPOST("/users", createUser)
	webserver.ApiPUT("/users/:id", updateUser)
	webserver.ApiDELETE("/users/:id", deleteUser)
	webserver.ApiPOST("/users/login", loginUser)
	webserver.ApiPOST("/users/register", createUser)
	webserver.ApiGET("/users/get/count", countUsers)
}

type userPayload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	IsAdmin   bool   `json:"isAdmin"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

func listUsers(c echo.Context) error {
	var list []domain.User
	if err := GetDB(c).Order("id").Find(&list).Error; err != nil {
		return errs.Dependency("Failed to query users", err)
	}
	return ok(c, list)
}

func getUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var user domain.User
	if err := GetDB(c).First(&user, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("User not found")
	} else if err != nil {
		return errs.Dependency("Failed to query user", err)
	}
	return ok(c, user)
}

func createUser(c echo.Context) error {
	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return errs.Validation("Unable to parse user parameters")
	}
	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
	if payload.Email == "" {
		return errs.Validation("Email is required")
	}
	if payload.Password == "" {
		return errs.Validation("Password is required")
	}
	var dup int64
	if err := GetDB(c).Model(&domain.User{}).Where("email = ?", payload.Email).Count(&dup).Error; err != nil {
		return errs.Dependency("Failed to verify email", err)
	}
	if dup > 0 {
		return errs.Validation("A user with this email already exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return errs.Dependency("Failed to hash password", err)
	}
	now := time.Now()
	user := domain.User{
		ID:           common.UUIDint64(),
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: string(hash),
		Phone:        payload.Phone,
		IsAdmin:      payload.IsAdmin,
		Street:       payload.Street,
		Apartment:    payload.Apartment,
		Zip:          payload.Zip,
		City:         payload.City,
		Country:      payload.Country,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := GetDB(c).Create(&user).Error; err != nil {
		return errs.Dependency("Failed to create user", err)
	}
	return created(c, user)
}

func updateUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var user domain.User
	if err := GetDB(c).First(&user, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("User not found")
	} else if err != nil {
		return errs.Dependency("Failed to query user", err)
	}

	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return errs.Validation("Unable to parse user parameters")
	}
	if payload.Name != "" {
		user.Name = payload.Name
	}
	if payload.Email != "" {
		user.Email = strings.TrimSpace(strings.ToLower(payload.Email))
	}
	// a new password is rehashed, the old hash is kept otherwise
	if payload.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return errs.Dependency("Failed to hash password", err)
		}
		user.PasswordHash = string(hash)
	}
	user.Phone = payload.Phone
	user.IsAdmin = payload.IsAdmin
	user.Street = payload.Street
	user.Apartment = payload.Apartment
	user.Zip = payload.Zip
	user.City = payload.City
	user.Country = payload.Country
	user.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&user).Error; err != nil {
		return errs.Dependency("Failed to update user", err)
	}
	return ok(c, user)
}

func deleteUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var user domain.User
	if err := GetDB(c).First(&user, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("User not found")
	} else if err != nil {
		return errs.Dependency("Failed to query user", err)
	}
	if err := GetDB(c).Delete(&domain.User{}, id).Error; err != nil {
		return errs.Dependency("Failed to delete user", err)
	}
	return ok(c, echo.Map{"success": true, "message": "User deleted successfully"})
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginUser(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return errs.Validation("Unable to parse login parameters")
	}
	var user domain.User
	err := GetDB(c).Where("email = ?", strings.TrimSpace(strings.ToLower(payload.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("User not found")
	} else if err != nil {
		return errs.Dependency("Failed to query user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		return errs.Validation("Invalid password")
	}
	token, err := gate.IssueToken(user.ID, user.IsAdmin)
	if err != nil {
		return errs.Dependency("Failed to issue token", err)
	}
	return ok(c, echo.Map{"user": user.Email, "token": token})
}

func countUsers(c echo.Context) error {
	var count int64
	if err := GetDB(c).Model(&domain.User{}).Count(&count).Error; err != nil {
		return errs.Dependency("Failed to count users", err)
	}
	return ok(c, echo.Map{"userCount": count})
}
