package product

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vaporlab/vaporlab-backend/internal/pricing"
	"github.com/vaporlab/vaporlab-backend/pkg/db"
	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
	"github.com/vaporlab/vaporlab-backend/pkg/imagestore"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
)

// Service exposes catalog management and browsing.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, productID uuid.UUID, input UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, productID uuid.UUID) error
	Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	SetImage(ctx context.Context, productID uuid.UUID, asset imagestore.Asset) (*ProductDTO, error)
}

// CreateInput holds the validated payload to create a product.
type CreateInput struct {
	Name           string
	Description    *string
	CategoryID     uuid.UUID
	Flavors        []string
	PriceCents     int
	WholesaleRates *pricing.RateTable
	PlusIDs        []uuid.UUID
	IsFeatured     bool
	IsActive       bool
}

// UpdateInput holds optional mutation values; nil leaves a field as is.
type UpdateInput struct {
	Name           *string
	Description    *string
	CategoryID     *uuid.UUID
	Flavors        *[]string
	PriceCents     *int
	WholesaleRates *pricing.RateTable
	PlusIDs        *[]uuid.UUID
	IsFeatured     *bool
	IsActive       *bool
}

type categoryReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type plusReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Plus, error)
}

type service struct {
	repo       *Repository
	dbClient   *db.Client
	categories categoryReader
	pluses     plusReader
	deleter    imagestore.Deleter
	logg       *logger.Logger
}

// NewService constructs a product service instance. The deleter may be
// nil; replaced or orphaned images are then left at the media host.
func NewService(repo *Repository, dbClient *db.Client, categories categoryReader, pluses plusReader, deleter imagestore.Deleter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repository required")
	}
	if dbClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db client required")
	}
	if categories == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "category reader required")
	}
	if pluses == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "plus reader required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		repo:       repo,
		dbClient:   dbClient,
		categories: categories,
		pluses:     pluses,
		deleter:    deleter,
		logg:       logg,
	}, nil
}

// Create inserts the product and its badge set in one transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validatePrices(input.PriceCents, input.WholesaleRates); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	badges, err := s.resolvePluses(ctx, input.PlusIDs)
	if err != nil {
		return nil, err
	}

	row := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Flavors:     append([]string{}, input.Flavors...),
		PriceCents:  input.PriceCents,
		IsFeatured:  input.IsFeatured,
		IsActive:    input.IsActive,
	}
	applyRates(row, input.WholesaleRates)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Create(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		if len(badges) > 0 {
			if err := txRepo.ReplacePluses(ctx, row.ID, badges); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: attach pluses")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	return s.loadDTO(ctx, row.ID)
}

// Update mutates the provided fields and replaces the badge set when
// PlusIDs is present.
func (s *service) Update(ctx context.Context, productID uuid.UUID, input UpdateInput) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	price := row.PriceCents
	if input.PriceCents != nil {
		price = *input.PriceCents
	}
	if err := validatePrices(price, input.WholesaleRates); err != nil {
		return nil, err
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	var badges []models.Plus
	if input.PlusIDs != nil {
		badges, err = s.resolvePluses(ctx, *input.PlusIDs)
		if err != nil {
			return nil, err
		}
	}

	applyUpdate(row, input)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Update(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		if input.PlusIDs != nil {
			if err := txRepo.ReplacePluses(ctx, row.ID, badges); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace pluses")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.loadDTO(ctx, row.ID)
}

// Delete removes the product and then its remote image, best effort.
func (s *service) Delete(ctx context.Context, productID uuid.UUID) error {
	row, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}

	if row.ImagePublicID != nil {
		s.deleteImage(ctx, *row.ImagePublicID)
	}
	return nil
}

// Get returns the full product detail.
func (s *service) Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	return s.loadDTO(ctx, productID)
}

// List returns one cursor page of the catalog.
func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	result, err := s.repo.ListSummaries(ctx, listQuery{
		Pagination:      input.Pagination,
		Filters:         input.Filters,
		IncludeInactive: input.IncludeInactive,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

// SetImage attaches a freshly uploaded image, deleting the previous one.
func (s *service) SetImage(ctx context.Context, productID uuid.UUID, asset imagestore.Asset) (*ProductDTO, error) {
	if asset.PublicID == "" || asset.URL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image asset is incomplete")
	}

	row, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if row.ImagePublicID != nil && *row.ImagePublicID != asset.PublicID {
		s.deleteImage(ctx, *row.ImagePublicID)
	}
	row.ImagePublicID = &asset.PublicID
	row.ImageURL = &asset.URL

	if _, err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product image")
	}
	return s.loadDTO(ctx, row.ID)
}

func (s *service) loadDTO(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	row, err := s.repo.GetDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(row), nil
}

func (s *service) ensureCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return nil
}

func (s *service) resolvePluses(ctx context.Context, ids []uuid.UUID) ([]models.Plus, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate plus ids")
		}
		seen[id] = struct{}{}
	}

	badges, err := s.pluses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pluses")
	}
	if len(badges) != len(ids) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plus not found")
	}
	return badges, nil
}

func (s *service) deleteImage(ctx context.Context, publicID string) {
	if s.deleter == nil {
		return
	}
	if err := s.deleter.Delete(ctx, publicID); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"image_public_id": publicID,
			"error":           err.Error(),
		}), "product image deletion failed")
	}
}

func validatePrices(priceCents int, rates *pricing.RateTable) error {
	if priceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be non-negative")
	}
	if rates != nil && (rates.Tier1 < 0 || rates.Tier2 < 0 || rates.Tier3 < 0) {
		return pkgerrors.New(pkgerrors.CodeValidation, "wholesale rates must be non-negative")
	}
	return nil
}

func applyRates(row *models.Product, rates *pricing.RateTable) {
	if rates == nil {
		return
	}
	row.Tier1Cents = rates.Tier1
	row.Tier2Cents = rates.Tier2
	row.Tier3Cents = rates.Tier3
}

func applyUpdate(row *models.Product, input UpdateInput) {
	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.CategoryID != nil {
		row.CategoryID = *input.CategoryID
	}
	if input.Flavors != nil {
		row.Flavors = append([]string(nil), *input.Flavors...)
	}
	if input.PriceCents != nil {
		row.PriceCents = *input.PriceCents
	}
	applyRates(row, input.WholesaleRates)
	if input.IsFeatured != nil {
		row.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
}
