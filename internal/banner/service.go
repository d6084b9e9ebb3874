package banner

import (
	"context"

	"github.com/google/uuid"

	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
	dbtypes "github.com/vaporlab/vaporlab-backend/pkg/db/types"
	apperrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
	"github.com/vaporlab/vaporlab-backend/pkg/imagestore"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
)

// Service exposes the weekly schedule. Concurrent admin writes follow
// last-write-wins at the whole-document level; the admin panel has a
// handful of users, so no row versioning is layered on top.
type Service interface {
	GetWeek(ctx context.Context) (dbtypes.BannerDays, error)
	MergeWeek(ctx context.Context, patch WeekPatch) (dbtypes.BannerDays, error)
	PatchDay(ctx context.Context, day string, patch *DayPatch) (dbtypes.BannerDays, error)
	SetDayImage(ctx context.Context, day string, asset imagestore.Asset) (dbtypes.BannerDays, error)
}

type service struct {
	repository Repository
	deleter    ImageDeleter
	logg       *logger.Logger
}

// NewService wires the banner service. The deleter may be nil, in which
// case remote images of cleared days are simply orphaned.
func NewService(repository Repository, deleter ImageDeleter, logg *logger.Logger) (Service, error) {
	if repository == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "banner: repository is required")
	}
	if logg == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "banner: logger is required")
	}
	return &service{repository: repository, deleter: deleter, logg: logg}, nil
}

// GetWeek returns the current schedule with all seven slots present,
// empty slots as nulls. A missing row reads as an empty week.
func (s *service) GetWeek(ctx context.Context) (dbtypes.BannerDays, error) {
	week, err := s.repository.FindWeek(ctx)
	if err != nil {
		return nil, err
	}
	if week == nil {
		return Normalize(nil), nil
	}
	return Normalize(week.Days), nil
}

// MergeWeek applies a multi-day patch and persists the result. Days
// absent from the patch keep their stored state, including images.
func (s *service) MergeWeek(ctx context.Context, patch WeekPatch) (dbtypes.BannerDays, error) {
	for key, day := range patch {
		if !IsDayKey(key) {
			return nil, apperrors.New(apperrors.CodeValidation, "unknown banner day").
				WithDetails(map[string]any{"day": key})
		}
		if day != nil && day.DiscountPercent != nil {
			if pct := *day.DiscountPercent; pct < 0 || pct > 100 {
				return nil, apperrors.New(apperrors.CodeValidation, "discount percent out of range").
					WithDetails(map[string]any{"day": key})
			}
		}
	}

	week, err := s.loadOrInit(ctx)
	if err != nil {
		return nil, err
	}

	merged, removed := MergeWeek(week.Days, patch)
	week.Days = merged
	if err := s.repository.SaveWeek(ctx, week); err != nil {
		return nil, err
	}

	// Remote cleanup happens only after the save went through. Best
	// effort: a failed deletion is logged and orphans the asset.
	for _, publicID := range removed {
		deleteImage(ctx, s.deleter, s.logg, publicID)
	}
	return week.Days, nil
}

// PatchDay updates a single slot. A nil patch clears the slot and
// deletes its remote image. Internally this is a one-key week merge so
// both admin paths share the same semantics.
func (s *service) PatchDay(ctx context.Context, day string, patch *DayPatch) (dbtypes.BannerDays, error) {
	if !IsDayKey(day) {
		return nil, apperrors.New(apperrors.CodeValidation, "unknown banner day").
			WithDetails(map[string]any{"day": day})
	}
	return s.MergeWeek(ctx, WeekPatch{day: patch})
}

// SetDayImage attaches a freshly uploaded image to a slot, deleting the
// slot's previous image first. Data fields of the slot are untouched;
// an empty slot is created so the image is not lost.
func (s *service) SetDayImage(ctx context.Context, day string, asset imagestore.Asset) (dbtypes.BannerDays, error) {
	if !IsDayKey(day) {
		return nil, apperrors.New(apperrors.CodeValidation, "unknown banner day").
			WithDetails(map[string]any{"day": day})
	}
	if asset.PublicID == "" || asset.URL == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "banner image asset is incomplete")
	}

	week, err := s.loadOrInit(ctx)
	if err != nil {
		return nil, err
	}

	days := Normalize(week.Days)
	slot := days[day]
	if slot == nil {
		slot = &dbtypes.BannerDay{}
	}
	replaced := ""
	if slot.ImagePublicID != "" && slot.ImagePublicID != asset.PublicID {
		replaced = slot.ImagePublicID
	}
	slot.ImagePublicID = asset.PublicID
	slot.ImageURL = asset.URL
	days[day] = slot

	week.Days = days
	if err := s.repository.SaveWeek(ctx, week); err != nil {
		return nil, err
	}
	if replaced != "" {
		deleteImage(ctx, s.deleter, s.logg, replaced)
	}
	return week.Days, nil
}

func (s *service) loadOrInit(ctx context.Context) (*models.BannerWeek, error) {
	week, err := s.repository.FindWeek(ctx)
	if err != nil {
		return nil, err
	}
	if week == nil {
		week = &models.BannerWeek{
			ID:   uuid.New(),
			Days: Normalize(nil),
		}
	}
	return week, nil
}
