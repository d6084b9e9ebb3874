// Package dropshippers manages referral reseller accounts. The public
// surface resolves a referral code to its discount; management is an
// admin concern.
package dropshippers

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

// DropshipperDTO is the reseller payload returned to the admin panel.
type DropshipperDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discount_percent"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ReferralDTO is the slim public payload of a code lookup.
type ReferralDTO struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	DiscountPercent int    `json:"discount_percent"`
}

// CreateInput holds the validated payload to create a reseller.
type CreateInput struct {
	Name            string
	Phone           string
	Code            string
	DiscountPercent int
	IsActive        bool
}

// UpdateInput holds optional mutation values; nil leaves a field as is.
// The referral code itself is immutable once issued.
type UpdateInput struct {
	Name            *string
	Phone           *string
	DiscountPercent *int
	IsActive        *bool
}

// Repository handles reseller persistence.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByID loads a single reseller.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Dropshipper, error) {
	var row models.Dropshipper
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByCode loads a reseller by its referral code, case-insensitive.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Dropshipper, error) {
	var row models.Dropshipper
	if err := r.DB(ctx).First(&row, "LOWER(code) = LOWER(?)", code).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all resellers, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Dropshipper, error) {
	var rows []models.Dropshipper
	if err := r.DB(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a reseller row.
func (r *Repository) Create(ctx context.Context, row *models.Dropshipper) (*models.Dropshipper, error) {
	if err := r.DB(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves an existing reseller row.
func (r *Repository) Update(ctx context.Context, row *models.Dropshipper) (*models.Dropshipper, error) {
	if err := r.DB(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes a reseller by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Dropshipper{}).Error
}

// Service exposes reseller management plus the public code lookup.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*DropshipperDTO, error)
	Update(ctx context.Context, dropshipperID uuid.UUID, input UpdateInput) (*DropshipperDTO, error)
	Delete(ctx context.Context, dropshipperID uuid.UUID) error
	List(ctx context.Context) ([]DropshipperDTO, error)
	ResolveCode(ctx context.Context, code string) (*ReferralDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a reseller service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "dropshipper repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*DropshipperDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	code, err := normalizeCode(input.Code)
	if err != nil {
		return nil, err
	}
	if err := validateDiscount(input.DiscountPercent); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "referral code already in use").
			WithDetails(map[string]any{"code": code})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check referral code")
	}

	row := &models.Dropshipper{
		ID:              uuid.New(),
		Name:            name,
		Phone:           phone,
		Code:            code,
		DiscountPercent: input.DiscountPercent,
		IsActive:        input.IsActive,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert dropshipper")
	}
	return newDTO(row), nil
}

func (s *service) Update(ctx context.Context, dropshipperID uuid.UUID, input UpdateInput) (*DropshipperDTO, error) {
	row, err := s.load(ctx, dropshipperID)
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
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone cannot be empty")
		}
		row.Phone = phone
	}
	if input.DiscountPercent != nil {
		if err := validateDiscount(*input.DiscountPercent); err != nil {
			return nil, err
		}
		row.DiscountPercent = *input.DiscountPercent
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if _, err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update dropshipper")
	}
	return newDTO(row), nil
}

func (s *service) Delete(ctx context.Context, dropshipperID uuid.UUID) error {
	if _, err := s.load(ctx, dropshipperID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, dropshipperID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete dropshipper")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]DropshipperDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dropshippers")
	}
	dtos := make([]DropshipperDTO, len(rows))
	for i := range rows {
		dtos[i] = *newDTO(&rows[i])
	}
	return dtos, nil
}

// ResolveCode returns the referral payload for an active reseller.
// Unknown and deactivated codes are indistinguishable to callers.
func (s *service) ResolveCode(ctx context.Context, code string) (*ReferralDTO, error) {
	normalized, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "referral code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve referral code")
	}
	if !row.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "referral code not found")
	}

	return &ReferralDTO{
		Code:            row.Code,
		Name:            row.Name,
		DiscountPercent: row.DiscountPercent,
	}, nil
}

func (s *service) load(ctx context.Context, dropshipperID uuid.UUID) (*models.Dropshipper, error) {
	row, err := s.repo.FindByID(ctx, dropshipperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dropshipper not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dropshipper")
	}
	return row, nil
}

func normalizeCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	for _, r := range normalized {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "code may only contain letters, digits and dashes")
		}
	}
	return normalized, nil
}

func validateDiscount(percent int) error {
	if percent < 0 || percent > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount_percent must be between 0 and 100")
	}
	return nil
}

func newDTO(row *models.Dropshipper) *DropshipperDTO {
	return &DropshipperDTO{
		ID:              row.ID,
		Name:            row.Name,
		Phone:           row.Phone,
		Code:            row.Code,
		DiscountPercent: row.DiscountPercent,
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
