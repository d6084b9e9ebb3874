package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/vaporlab/vaporlab-backend/internal/pricing"
	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
)

// ProductDTO is the catalog payload returned to clients.
type ProductDTO struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Description    *string            `json:"description,omitempty"`
	CategoryID     uuid.UUID          `json:"category_id"`
	CategoryName   string             `json:"category_name,omitempty"`
	Flavors        []string           `json:"flavors"`
	PriceCents     int                `json:"price_cents"`
	WholesaleRates *pricing.RateTable `json:"wholesale_rates,omitempty"`
	Pluses         []PlusDTO          `json:"pluses"`
	ImageURL       *string            `json:"image_url,omitempty"`
	IsFeatured     bool               `json:"is_featured"`
	IsActive       bool               `json:"is_active"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// PlusDTO is a marketing badge attached to a product.
type PlusDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Icon string    `json:"icon"`
}

// ProductSummary is the slim row of the browse endpoint.
type ProductSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	PriceCents   int       `json:"price_cents"`
	HasWholesale bool      `json:"has_wholesale"`
	ImageURL     *string   `json:"image_url,omitempty"`
	IsFeatured   bool      `json:"is_featured"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListResult is one page of product summaries plus the next cursor.
type ListResult struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(row *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		CategoryID:  row.CategoryID,
		Flavors:     append([]string{}, row.Flavors...),
		PriceCents:  row.PriceCents,
		ImageURL:    row.ImageURL,
		IsFeatured:  row.IsFeatured,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}

	if row.Category != nil {
		dto.CategoryName = row.Category.Name
	}

	rates := &pricing.RateTable{
		Tier1: row.Tier1Cents,
		Tier2: row.Tier2Cents,
		Tier3: row.Tier3Cents,
	}
	if rates.IsConfigured() {
		dto.WholesaleRates = rates
	}

	dto.Pluses = make([]PlusDTO, len(row.Pluses))
	for i, plus := range row.Pluses {
		dto.Pluses[i] = PlusDTO{ID: plus.ID, Name: plus.Name, Icon: plus.Icon}
	}

	return dto
}
