package categories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
	"github.com/vaporlab/vaporlab-backend/pkg/imagestore"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
)

// CategoryDTO is the category payload returned to clients.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateInput holds the validated payload to create a category.
type CreateInput struct {
	Name        string
	Description *string
	SortOrder   int
	IsActive    bool
}

// UpdateInput holds optional mutation values; nil leaves a field as is.
type UpdateInput struct {
	Name        *string
	Description *string
	SortOrder   *int
	IsActive    *bool
}

// Service exposes category management and browsing.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CategoryDTO, error)
	Update(ctx context.Context, categoryID uuid.UUID, input UpdateInput) (*CategoryDTO, error)
	Delete(ctx context.Context, categoryID uuid.UUID) error
	Get(ctx context.Context, categoryID uuid.UUID) (*CategoryDTO, error)
	List(ctx context.Context, includeInactive bool) ([]CategoryDTO, error)
	SetImage(ctx context.Context, categoryID uuid.UUID, asset imagestore.Asset) (*CategoryDTO, error)
}

type service struct {
	repo    *Repository
	deleter imagestore.Deleter
	logg    *logger.Logger
}

// NewService constructs a category service instance.
func NewService(repo *Repository, deleter imagestore.Deleter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "category repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{repo: repo, deleter: deleter, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	row := &models.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
		SortOrder:   input.SortOrder,
		IsActive:    input.IsActive,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return newDTO(row), nil
}

func (s *service) Update(ctx context.Context, categoryID uuid.UUID, input UpdateInput) (*CategoryDTO, error) {
	row, err := s.load(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		row.Name = name
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.SortOrder != nil {
		row.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if _, err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	return newDTO(row), nil
}

// Delete refuses to remove a category that still owns products.
func (s *service) Delete(ctx context.Context, categoryID uuid.UUID) error {
	row, err := s.load(ctx, categoryID)
	if err != nil {
		return err
	}

	count, err := s.repo.CountProducts(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products").
			WithDetails(map[string]any{"product_count": count})
	}

	if err := s.repo.Delete(ctx, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}

	if row.ImagePublicID != nil {
		s.deleteImage(ctx, *row.ImagePublicID)
	}
	return nil
}

func (s *service) Get(ctx context.Context, categoryID uuid.UUID) (*CategoryDTO, error) {
	row, err := s.load(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return newDTO(row), nil
}

func (s *service) List(ctx context.Context, includeInactive bool) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}

	dtos := make([]CategoryDTO, len(rows))
	for i := range rows {
		dtos[i] = *newDTO(&rows[i])
	}
	return dtos, nil
}

func (s *service) SetImage(ctx context.Context, categoryID uuid.UUID, asset imagestore.Asset) (*CategoryDTO, error) {
	if asset.PublicID == "" || asset.URL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image asset is incomplete")
	}

	row, err := s.load(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if row.ImagePublicID != nil && *row.ImagePublicID != asset.PublicID {
		s.deleteImage(ctx, *row.ImagePublicID)
	}
	row.ImagePublicID = &asset.PublicID
	row.ImageURL = &asset.URL

	if _, err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category image")
	}
	return newDTO(row), nil
}

func (s *service) load(ctx context.Context, categoryID uuid.UUID) (*models.Category, error) {
	row, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return row, nil
}

func (s *service) deleteImage(ctx context.Context, publicID string) {
	if s.deleter == nil {
		return
	}
	if err := s.deleter.Delete(ctx, publicID); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"image_public_id": publicID,
			"error":           err.Error(),
		}), "category image deletion failed")
	}
}

func newDTO(row *models.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		ImageURL:    row.ImageURL,
		SortOrder:   row.SortOrder,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
