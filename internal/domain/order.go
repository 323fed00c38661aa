package domain

import (
	"encoding/json"
	"time"

	"github.com/openeshop/eshop/pkg/common"
)

// Order status values. Transitions are deliberately unconstrained: any status
// may follow any other, only membership in this set is enforced.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// OrderItem is a line entry owned by exactly one order. It is immutable once
// created and is deleted together with its owning order.
type OrderItem struct {
	ID        int64     `gorm:"primaryKey" json:"_id,string"`
	OrderID   int64     `gorm:"index" json:"-"`
	Quantity  int       `json:"quantity"`
	ProductID int64     `gorm:"index" json:"-"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_items"
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	type alias OrderItem
	return json.Marshal(struct {
		alias
		HexID string `json:"id"`
	}{alias(i), common.HexID(i.ID)})
}

// Order aggregates line items with shipping data. TotalPrice is a snapshot of
// Σ quantity × product price taken at creation; later product price changes
// never alter it.
type Order struct {
	ID               int64       `gorm:"primaryKey" json:"_id,string"`
	OrderItems       []OrderItem `gorm:"foreignKey:OrderID" json:"orderItems,omitempty"`
	ShippingAddress1 string      `json:"shippingAddress1"`
	ShippingAddress2 string      `json:"shippingAddress2"`
	City             string      `json:"city"`
	Zip              string      `gorm:"size:16" json:"zip"`
	Country          string      `json:"country"`
	Phone            string      `gorm:"size:32" json:"phone"`
	Status           string      `gorm:"size:32;index" json:"status"`
	TotalPrice       float64     `json:"totalPrice"`
	UserID           int64       `gorm:"index" json:"-"`
	User             *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DateOrdered      time.Time   `gorm:"index" json:"dateOrdered"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return json.Marshal(struct {
		alias
		HexID string `json:"id"`
	}{alias(o), common.HexID(o.ID)})
}
