package banner

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vaporlab/vaporlab-backend/internal/repo"
	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
	apperrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
)

// Repository persists the singleton weekly schedule.
type Repository interface {
	FindWeek(ctx context.Context) (*models.BannerWeek, error)
	SaveWeek(ctx context.Context, week *models.BannerWeek) error
}

type gormRepository struct {
	repo.Base
}

// NewRepository constructs the GORM-backed banner repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{Base: repo.NewBase(db)}
}

// FindWeek returns the schedule row, or nil when none has been created yet.
func (r *gormRepository) FindWeek(ctx context.Context) (*models.BannerWeek, error) {
	var week models.BannerWeek
	err := r.DB(ctx).Order("created_at ASC").First(&week).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "loading banner week")
	}
	return &week, nil
}

// SaveWeek creates the row on first write and updates it afterwards.
func (r *gormRepository) SaveWeek(ctx context.Context, week *models.BannerWeek) error {
	if err := r.DB(ctx).Save(week).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "saving banner week")
	}
	return nil
}
