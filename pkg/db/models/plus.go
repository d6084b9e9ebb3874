package models

import (
	"time"

	"github.com/google/uuid"
)

// Plus is a marketing badge ("plus") attachable to products.
type Plus struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	Icon      string    `gorm:"column:icon;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the plural the storefront API has always used.
func (Plus) TableName() string {
	return "pluses"
}
