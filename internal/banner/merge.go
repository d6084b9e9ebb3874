// Package banner maintains the weekly promotional schedule: a singleton
// document with one independently nullable slot per day. All mutations
// funnel through a single merge contract so data-only updates can never
// drop a previously uploaded image.
package banner

import (
	"context"

	"github.com/google/uuid"

	dbtypes "github.com/vaporlab/vaporlab-backend/pkg/db/types"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
)

// Day keys of the persisted document. The Spanish names are part of
// the contract shared with the storefront and existing data.
const (
	DayLunes     = "lunes"
	DayMartes    = "martes"
	DayMiercoles = "miercoles"
	DayJueves    = "jueves"
	DayViernes   = "viernes"
	DaySabado    = "sabado"
	DayDomingo   = "domingo"
)

// DayKeys lists the seven slots in storefront order.
var DayKeys = []string{
	DayLunes,
	DayMartes,
	DayMiercoles,
	DayJueves,
	DayViernes,
	DaySabado,
	DayDomingo,
}

// IsDayKey reports whether value names one of the seven slots.
func IsDayKey(value string) bool {
	for _, key := range DayKeys {
		if key == value {
			return true
		}
	}
	return false
}

// DayPatch is a partial, data-only update to one slot. Image fields are
// deliberately absent: only the dedicated upload path mutates them.
// A nil pointer field leaves the current value untouched.
type DayPatch struct {
	CategoryID      *uuid.UUID `json:"category_id"`
	ProductID       *uuid.UUID `json:"product_id"`
	DiscountPercent *int       `json:"discount_percent" validate:"omitempty,gte=0,lte=100"`
}

// WeekPatch carries the incoming update. Decoding JSON into this map
// keeps the three per-day states apart: a key absent from the map means
// "leave the day untouched", a key mapped to nil means "clear the day",
// and a non-nil entry means "merge these fields".
type WeekPatch map[string]*DayPatch

// ImageDeleter removes a remote image by its public identifier.
type ImageDeleter interface {
	Delete(ctx context.Context, publicID string) error
}

// Normalize returns a copy of days with exactly the seven known slots;
// absent slots become nil and unknown keys are dropped.
func Normalize(days dbtypes.BannerDays) dbtypes.BannerDays {
	out := make(dbtypes.BannerDays, len(DayKeys))
	for _, key := range DayKeys {
		if day, ok := days[key]; ok && day != nil {
			copied := *day
			out[key] = &copied
		} else {
			out[key] = nil
		}
	}
	return out
}

// MergeWeek reconciles patch against the current document and returns
// the resulting week plus the public IDs of images dropped by cleared
// days. Nothing is deleted here; the caller fires the remote deletions
// only once the merged week has actually been persisted, so a failed
// save never leaves the stored document pointing at destroyed images.
func MergeWeek(current dbtypes.BannerDays, patch WeekPatch) (dbtypes.BannerDays, []string) {
	out := Normalize(current)
	var removed []string

	for _, key := range DayKeys {
		incoming, present := patch[key]
		if !present {
			continue
		}

		if incoming == nil {
			if existing := out[key]; existing != nil && existing.ImagePublicID != "" {
				removed = append(removed, existing.ImagePublicID)
			}
			out[key] = nil
			continue
		}

		merged := dbtypes.BannerDay{}
		if existing := out[key]; existing != nil {
			merged = *existing
		}
		if incoming.CategoryID != nil {
			merged.CategoryID = incoming.CategoryID
		}
		if incoming.ProductID != nil {
			merged.ProductID = incoming.ProductID
		}
		if incoming.DiscountPercent != nil {
			merged.DiscountPercent = *incoming.DiscountPercent
		}
		out[key] = &merged
	}

	return out, removed
}

func deleteImage(ctx context.Context, deleter ImageDeleter, logg *logger.Logger, publicID string) {
	if deleter == nil {
		return
	}
	if err := deleter.Delete(ctx, publicID); err != nil && logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"image_public_id": publicID,
			"error":           err.Error(),
		}), "banner image deletion failed")
	}
}
