package domain

import (
	"encoding/json"
	"time"

	"github.com/openeshop/eshop/pkg/common"
)

// User holds an account record. The credential is stored only as a salted
// bcrypt hash and is excluded from every serialized representation.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"_id,string" form:"id"`
	Name         string    `gorm:"index" json:"name" form:"name"`
	Email        string    `gorm:"uniqueIndex" json:"email" form:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `gorm:"size:32" json:"phone" form:"phone"`
	IsAdmin      bool      `json:"isAdmin" form:"isAdmin"`
	Street       string    `json:"street" form:"street"`
	Apartment    string    `json:"apartment" form:"apartment"`
	Zip          string    `gorm:"size:16" json:"zip" form:"zip"`
	City         string    `json:"city" form:"city"`
	Country      string    `json:"country" form:"country"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName Specify table name
func (User) TableName() string {
	return "users"
}

func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	return json.Marshal(struct {
		alias
		HexID string `json:"id"`
	}{alias(u), common.HexID(u.ID)})
}
