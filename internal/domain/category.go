package domain

import (
	"encoding/json"
	"time"

	"github.com/openeshop/eshop/pkg/common"
)

type Category struct {
	ID        int64     `gorm:"primaryKey" json:"_id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Icon      string    `json:"icon" form:"icon"`
	Color     string    `json:"color" form:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "categories"
}

func (c Category) MarshalJSON() ([]byte, error) {
	type alias Category
	return json.Marshal(struct {
		alias
		HexID string `json:"id"`
	}{alias(c), common.HexID(c.ID)})
}
