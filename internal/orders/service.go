// Package orders implements the order placement and pricing workflow: line
// validation, order-item persistence, total price snapshotting, the status
// lifecycle, and the denormalized read paths.
package orders

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openeshop/eshop/internal/domain"
	"github.com/openeshop/eshop/internal/errs"
	"github.com/openeshop/eshop/pkg/common"
)

var (
	zipPattern   = regexp.MustCompile(`^\d{5}$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// Service runs the order workflow against the persistence gateway.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// LineInput is one submitted {product, quantity} pair.
type LineInput struct {
	ProductID int64
	Quantity  int
}

type CreateInput struct {
	ShippingAddress1 string
	ShippingAddress2 string
	City             string
	Zip              string
	Country          string
	Phone            string
	Status           string
	UserID           int64
	Lines            []LineInput
}

// Create places an order. Steps, in order: validate every line and the
// shipping fields before any write, persist one order-item per line, resolve
// the saved items' product prices into the total, persist the order.
//
// The sequence is a saga, not a transaction: if the final order write fails,
// the already-written order-items remain until the orphan sweep collects
// them, and no order is considered created.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	if len(in.Lines) == 0 {
		return nil, errs.Validation("Order must contain at least one item")
	}
	for _, line := range in.Lines {
		if line.Quantity < 1 {
			return nil, errs.Validation("Quantity must be at least 1")
		}
		var count int64
		err := s.db.WithContext(ctx).Model(&domain.Product{}).
			Where("id = ?", line.ProductID).Count(&count).Error
		if err != nil {
			return nil, errs.Dependency("Failed to verify product", err)
		}
		if count == 0 {
			return nil, errs.Validationf("Product %s not found", common.HexID(line.ProductID))
		}
	}
	if err := validateShipping(in); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	if !domain.ValidOrderStatus(status) {
		return nil, errs.Validationf("Invalid order status %q", in.Status)
	}

	var userCount int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", in.UserID).Count(&userCount).Error; err != nil {
		return nil, errs.Dependency("Failed to verify user", err)
	}
	if userCount == 0 {
		return nil, errs.Validationf("User %s not found", common.HexID(in.UserID))
	}

	now := time.Now()
	orderID := common.UUIDint64()

	itemIDs := make([]int64, 0, len(in.Lines))
	for _, line := range in.Lines {
		item := domain.OrderItem{
			ID:        common.UUIDint64(),
			OrderID:   orderID,
			Quantity:  line.Quantity,
			ProductID: line.ProductID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
			return nil, errs.Dependency("Failed to create order item", err)
		}
		itemIDs = append(itemIDs, item.ID)
	}

	// Total is computed from the persisted items, not the request payload,
	// so the stored snapshot matches what was actually written.
	var total float64
	for _, itemID := range itemIDs {
		var item domain.OrderItem
		err := s.db.WithContext(ctx).Preload("Product").First(&item, itemID).Error
		if err != nil {
			return nil, errs.Dependency("Failed to resolve order item", err)
		}
		if item.Product == nil || item.Product.Price == nil {
			return nil, errs.Validationf("Product %s has no price", common.HexID(item.ProductID))
		}
		total += *item.Product.Price * float64(item.Quantity)
	}

	order := domain.Order{
		ID:               orderID,
		ShippingAddress1: in.ShippingAddress1,
		ShippingAddress2: in.ShippingAddress2,
		City:             in.City,
		Zip:              in.Zip,
		Country:          in.Country,
		Phone:            in.Phone,
		Status:           status,
		TotalPrice:       total,
		UserID:           in.UserID,
		DateOrdered:      now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		zap.L().Error("order write failed, order items may be orphaned",
			zap.String("order_id", common.HexID(orderID)),
			zap.Int("items", len(itemIDs)),
			zap.Error(err))
		return nil, errs.Dependency("Failed to create order", err)
	}

	if err := s.db.WithContext(ctx).
		Preload("OrderItems", itemOrder).
		First(&order, orderID).Error; err != nil {
		return nil, errs.Dependency("Failed to load created order", err)
	}
	return &order, nil
}

func validateShipping(in CreateInput) error {
	if in.ShippingAddress1 == "" {
		return errs.Validation("Shipping address is required")
	}
	if in.City == "" {
		return errs.Validation("City is required")
	}
	if !zipPattern.MatchString(in.Zip) {
		return errs.Validation("Invalid ZIP code format")
	}
	if in.Country == "" {
		return errs.Validation("Country is required")
	}
	if !phonePattern.MatchString(in.Phone) {
		return errs.Validation("Invalid phone number")
	}
	return nil
}

func itemOrder(db *gorm.DB) *gorm.DB {
	// insertion order: snowflake ids are time ordered
	return db.Order("order_items.id")
}

func userNameOnly(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}

// Get returns one order fully denormalized: user display name, every item
// with its product and the product's category.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := s.db.WithContext(ctx).
		Preload("User", userNameOnly).
		Preload("OrderItems", itemOrder).
		Preload("OrderItems.Product").
		Preload("OrderItems.Product.Category").
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("Order not found")
	}
	if err != nil {
		return nil, errs.Dependency("Failed to query order", err)
	}
	return &order, nil
}

// List returns all orders with the user name resolved, most recent first.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	var list []domain.Order
	err := s.db.WithContext(ctx).
		Preload("User", userNameOnly).
		Order("date_ordered DESC").
		Find(&list).Error
	if err != nil {
		return nil, errs.Dependency("Failed to query orders", err)
	}
	return list, nil
}

// ListByUser returns one user's orders, denormalized like Get, most recent
// first.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var list []domain.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems", itemOrder).
		Preload("OrderItems.Product").
		Preload("OrderItems.Product.Category").
		Where("user_id = ?", userID).
		Order("date_ordered DESC").
		Find(&list).Error
	if err != nil {
		return nil, errs.Dependency("Failed to query user orders", err)
	}
	return list, nil
}

// UpdateStatus sets a new status. Membership in the status set is the only
// check: any status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, errs.Validationf("Invalid order status %q", status)
	}
	var order domain.Order
	err := s.db.WithContext(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("Order not found")
	}
	if err != nil {
		return nil, errs.Dependency("Failed to query order", err)
	}
	err = s.db.WithContext(ctx).Model(&order).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
	if err != nil {
		return nil, errs.Dependency("Failed to update order", err)
	}
	order.Status = status
	return &order, nil
}

// Delete removes the order's items first, then the order. Item deletes that
// already happened are not rolled back if a later step fails.
func (s *Service) Delete(ctx context.Context, id int64) error {
	var order domain.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("Order not found")
	}
	if err != nil {
		return errs.Dependency("Failed to query order", err)
	}
	for _, item := range order.OrderItems {
		if err := s.db.WithContext(ctx).Delete(&domain.OrderItem{}, item.ID).Error; err != nil {
			return errs.Dependency("Failed to delete order item", err)
		}
	}
	if err := s.db.WithContext(ctx).Delete(&domain.Order{}, id).Error; err != nil {
		return errs.Dependency("Failed to delete order", err)
	}
	return nil
}

// TotalSales sums every order's snapshot total. Zero orders is surfaced as
// "no data", not a numeric zero.
func (s *Service) TotalSales(ctx context.Context) (float64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Order{}).Count(&count).Error; err != nil {
		return 0, errs.Dependency("Failed to query orders", err)
	}
	if count == 0 {
		return 0, errs.NotFound("No sales data found")
	}
	var total float64
	err := s.db.WithContext(ctx).Model(&domain.Order{}).
		Select("COALESCE(SUM(total_price), 0)").Scan(&total).Error
	if err != nil {
		return 0, errs.Dependency("Failed to aggregate sales", err)
	}
	return total, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Order{}).Count(&count).Error; err != nil {
		return 0, errs.Dependency("Failed to count orders", err)
	}
	return count, nil
}
