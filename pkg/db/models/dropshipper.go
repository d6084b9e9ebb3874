package models

import (
	"time"

	"github.com/google/uuid"
)

// Dropshipper is a referral reseller account. The storefront resolves
// the referral code client-side when composing the WhatsApp checkout
// message; no order entity exists server-side.
type Dropshipper struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Phone           string    `gorm:"column:phone;not null"`
	Code            string    `gorm:"column:code;not null;uniqueIndex"`
	DiscountPercent int       `gorm:"column:discount_percent;not null;default:0"`
	IsActive        bool      `gorm:"column:is_active;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
