package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a catalog listing.
//
// Wholesale tier columns hold the pre-resolved unit price per quantity
// band in minor currency units; all-zero means wholesale is not
// configured for the product.
type Product struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string         `gorm:"column:name;not null"`
	Description   *string        `gorm:"column:description"`
	CategoryID    uuid.UUID      `gorm:"column:category_id;type:uuid;not null"`
	Category      *Category      `gorm:"foreignKey:CategoryID"`
	Flavors       pq.StringArray `gorm:"column:flavors;type:text[];not null;default:ARRAY[]::text[]"`
	PriceCents    int            `gorm:"column:price_cents;not null"`
	Tier1Cents    int            `gorm:"column:wholesale_tier1_cents;not null;default:0"`
	Tier2Cents    int            `gorm:"column:wholesale_tier2_cents;not null;default:0"`
	Tier3Cents    int            `gorm:"column:wholesale_tier3_cents;not null;default:0"`
	Pluses        []Plus         `gorm:"many2many:product_pluses"`
	ImagePublicID *string        `gorm:"column:image_public_id"`
	ImageURL      *string        `gorm:"column:image_url"`
	IsFeatured    bool           `gorm:"column:is_featured;not null;default:false"`
	IsActive      bool           `gorm:"column:is_active;not null"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
