package domain

import (
	"encoding/json"
	"time"

	"github.com/openeshop/eshop/pkg/common"
)

// Product is a catalog item. Price is a pointer so a record persisted without
// one is detectable at order time instead of silently priced at zero.
type Product struct {
	ID              int64     `gorm:"primaryKey" json:"_id,string" form:"id"`
	Name            string    `gorm:"index" json:"name" form:"name"`
	Description     string    `json:"description" form:"description"`
	RichDescription string    `json:"richDescription" form:"richDescription"`
	Image           string    `gorm:"size:1024" json:"image" form:"image"`
	Brand           string    `json:"brand" form:"brand"`
	Price           *float64  `json:"price,omitempty" form:"price"`
	CategoryID      int64     `gorm:"index" json:"-"`
	Category        *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CountInStock    int       `json:"countInStock" form:"countInStock"`
	Rating          float64   `json:"rating" form:"rating"`
	NumReviews      int       `json:"numReviews" form:"numReviews"`
	IsFeatured      bool      `gorm:"index" json:"isFeatured" form:"isFeatured"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		HexID string `json:"id"`
	}{alias(p), common.HexID(p.ID)})
}
