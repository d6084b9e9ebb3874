package product

import (
	"testing"

	"github.com/google/uuid"

	"github.com/vaporlab/vaporlab-backend/internal/pricing"
	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
)

func stringPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func TestValidatePrices(t *testing.T) {
	if err := validatePrices(0, nil); err != nil {
		t.Fatalf("zero price should be valid, got %v", err)
	}
	if err := validatePrices(1500, &pricing.RateTable{Tier1: 1400, Tier2: 1300, Tier3: 1200}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	err := validatePrices(-1, nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	err = validatePrices(100, &pricing.RateTable{Tier1: -5})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative rate, got %v", err)
	}
}

func TestApplyUpdateTrimsAndCopies(t *testing.T) {
	categoryID := uuid.New()
	row := &models.Product{
		Name:       "old name",
		PriceCents: 1000,
		Tier1Cents: 900,
	}

	flavors := []string{"mango", "menta"}
	input := UpdateInput{
		Name:           stringPtr("  Nuevo Nombre "),
		CategoryID:     &categoryID,
		Flavors:        &flavors,
		PriceCents:     intPtr(1200),
		WholesaleRates: &pricing.RateTable{Tier1: 1100, Tier2: 1000, Tier3: 950},
		IsFeatured:     boolPtr(true),
	}

	applyUpdate(row, input)

	if row.Name != "Nuevo Nombre" {
		t.Fatalf("expected trimmed name, got %q", row.Name)
	}
	if row.CategoryID != categoryID {
		t.Fatalf("category not applied")
	}
	if row.PriceCents != 1200 || row.Tier1Cents != 1100 || row.Tier2Cents != 1000 || row.Tier3Cents != 950 {
		t.Fatalf("prices not applied: %+v", row)
	}
	if !row.IsFeatured {
		t.Fatalf("is_featured not applied")
	}

	flavors[0] = "mutated"
	if row.Flavors[0] != "mango" {
		t.Fatalf("flavors must be copied, got %v", row.Flavors)
	}
}

func TestApplyUpdateLeavesAbsentFieldsAlone(t *testing.T) {
	row := &models.Product{
		Name:       "keep",
		PriceCents: 500,
		Tier1Cents: 450,
		IsActive:   true,
	}

	applyUpdate(row, UpdateInput{Description: stringPtr("desc")})

	if row.Name != "keep" || row.PriceCents != 500 || row.Tier1Cents != 450 || !row.IsActive {
		t.Fatalf("unrelated fields mutated: %+v", row)
	}
	if row.Description == nil || *row.Description != "desc" {
		t.Fatalf("description not applied")
	}
}

func TestNewProductDTOOmitsUnconfiguredRates(t *testing.T) {
	row := &models.Product{
		ID:         uuid.New(),
		Name:       "Pod Desechable",
		PriceCents: 2500,
		Category:   &models.Category{Name: "Desechables"},
		Pluses:     []models.Plus{{ID: uuid.New(), Name: "Nuevo", Icon: "sparkle"}},
	}

	dto := NewProductDTO(row)
	if dto.WholesaleRates != nil {
		t.Fatalf("all-zero rates must not surface, got %+v", dto.WholesaleRates)
	}
	if dto.CategoryName != "Desechables" {
		t.Fatalf("category name not mapped, got %q", dto.CategoryName)
	}
	if len(dto.Pluses) != 1 || dto.Pluses[0].Name != "Nuevo" {
		t.Fatalf("pluses not mapped: %+v", dto.Pluses)
	}

	row.Tier2Cents = 2200
	dto = NewProductDTO(row)
	if dto.WholesaleRates == nil || dto.WholesaleRates.Tier2 != 2200 {
		t.Fatalf("configured rates must surface, got %+v", dto.WholesaleRates)
	}
}
