// Package pluses manages the marketing badges ("pluses") attachable to
// catalog products.
package pluses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vaporlab/vaporlab-backend/internal/repo"
	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
)

// PlusDTO is the badge payload returned to clients.
type PlusDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input is the payload for both create and full update.
type Input struct {
	Name string
	Icon string
}

// Repository handles badge persistence.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByID loads a single badge.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Plus, error) {
	var row models.Plus
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDs loads the badges for the given ids, in name order.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Plus, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Plus
	if err := r.DB(ctx).Where("id IN ?", ids).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns all badges in name order.
func (r *Repository) List(ctx context.Context) ([]models.Plus, error) {
	var rows []models.Plus
	if err := r.DB(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a badge row.
func (r *Repository) Create(ctx context.Context, row *models.Plus) (*models.Plus, error) {
	if err := r.DB(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves an existing badge row.
func (r *Repository) Update(ctx context.Context, row *models.Plus) (*models.Plus, error) {
	if err := r.DB(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes the badge and its product attachments.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.DB(ctx)
	if err := tx.Exec("DELETE FROM product_pluses WHERE plus_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.Plus{}).Error
}

// Service exposes badge management.
type Service interface {
	Create(ctx context.Context, input Input) (*PlusDTO, error)
	Update(ctx context.Context, plusID uuid.UUID, input Input) (*PlusDTO, error)
	Delete(ctx context.Context, plusID uuid.UUID) error
	List(ctx context.Context) ([]PlusDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a badge service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "plus repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*PlusDTO, error) {
	name, icon, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	row := &models.Plus{ID: uuid.New(), Name: name, Icon: icon}
	if _, err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert plus")
	}
	return newDTO(row), nil
}

func (s *service) Update(ctx context.Context, plusID uuid.UUID, input Input) (*PlusDTO, error) {
	name, icon, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, plusID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plus not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plus")
	}

	row.Name = name
	row.Icon = icon
	if _, err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update plus")
	}
	return newDTO(row), nil
}

func (s *service) Delete(ctx context.Context, plusID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, plusID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "plus not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plus")
	}
	if err := s.repo.Delete(ctx, plusID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete plus")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]PlusDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pluses")
	}
	dtos := make([]PlusDTO, len(rows))
	for i := range rows {
		dtos[i] = *newDTO(&rows[i])
	}
	return dtos, nil
}

func normalizeInput(input Input) (string, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	icon := strings.TrimSpace(input.Icon)
	if icon == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "icon is required")
	}
	return name, icon, nil
}

func newDTO(row *models.Plus) *PlusDTO {
	return &PlusDTO{
		ID:        row.ID,
		Name:      row.Name,
		Icon:      row.Icon,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
