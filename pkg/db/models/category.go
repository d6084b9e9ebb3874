package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products in the storefront catalog.
type Category struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null;uniqueIndex"`
	Description   *string   `gorm:"column:description"`
	ImagePublicID *string   `gorm:"column:image_public_id"`
	ImageURL      *string   `gorm:"column:image_url"`
	SortOrder     int       `gorm:"column:sort_order;not null;default:0"`
	IsActive      bool      `gorm:"column:is_active;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
