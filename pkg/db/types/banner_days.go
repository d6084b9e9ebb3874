package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// BannerDay is one configured slot of the weekly promotional schedule.
// ImagePublicID and ImageURL are server-owned: data-only updates never
// touch them, only the dedicated image upload path does.
type BannerDay struct {
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	ProductID       *uuid.UUID `json:"product_id,omitempty"`
	DiscountPercent int        `json:"discount_percent"`
	ImagePublicID   string     `json:"image_public_id,omitempty"`
	ImageURL        string     `json:"image_url,omitempty"`
}

// BannerDays maps a day key (lunes..domingo) to its slot; nil means
// no promotion that day. Stored as a single JSONB column.
type BannerDays map[string]*BannerDay

func (d *BannerDays) Scan(src any) error {
	if src == nil {
		*d = BannerDays{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return d.parseJSON(v)
	case string:
		return d.parseJSON([]byte(v))
	default:
		return fmt.Errorf("BannerDays: unsupported Scan type %T", src)
	}
}

func (d BannerDays) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("BannerDays: marshal: %w", err)
	}
	return string(raw), nil
}

func (d *BannerDays) parseJSON(raw []byte) error {
	if len(raw) == 0 {
		*d = BannerDays{}
		return nil
	}
	out := BannerDays{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("BannerDays: unmarshal: %w", err)
	}
	*d = out
	return nil
}
