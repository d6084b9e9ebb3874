// Package cart prices a shopping cart server-side. No order entity is
// persisted; checkout is a WhatsApp handoff composed by the client, so
// a quote is the only cart operation the backend offers.
package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vaporlab/vaporlab-backend/internal/pricing"
	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
)

// LineInput is one requested cart line.
type LineInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=0"`
	Wholesale bool      `json:"wholesale"`
}

// QuoteInput is the full quote request.
type QuoteInput struct {
	Lines []LineInput `json:"lines" validate:"required,min=1,dive"`
}

// LineQuote is one priced cart line. Quantity reflects the clamp: a
// wholesale line below the minimum is raised to it before pricing.
type LineQuote struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Quantity       int       `json:"quantity"`
	Wholesale      bool      `json:"wholesale"`
	UnitPriceCents int       `json:"unit_price_cents"`
	TotalCents     int       `json:"total_cents"`
}

// Quote is the priced cart.
type Quote struct {
	Lines      []LineQuote `json:"lines"`
	TotalCents int         `json:"total_cents"`
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service prices carts.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*Quote, error)
}

type service struct {
	products productReader
}

// NewService constructs a cart quote service.
func NewService(products productReader) (Service, error) {
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product reader required")
	}
	return &service{products: products}, nil
}

// Quote prices each line and sums the cart. Wholesale lines clamp the
// quantity up to the minimum before resolution; the resolver itself
// applies the submitted quantity literally.
func (s *service) Quote(ctx context.Context, input QuoteInput) (*Quote, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}

	quote := &Quote{Lines: make([]LineQuote, 0, len(input.Lines))}
	for _, line := range input.Lines {
		if line.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}

		row, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "product not found").
					WithDetails(map[string]any{"product_id": line.ProductID})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if !row.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}

		quantity := line.Quantity
		if line.Wholesale {
			quantity = ClampWholesaleQuantity(quantity)
		}

		rates := &pricing.RateTable{
			Tier1: row.Tier1Cents,
			Tier2: row.Tier2Cents,
			Tier3: row.Tier3Cents,
		}
		unit := pricing.ResolveUnitPrice(row.PriceCents, rates, quantity)

		priced := LineQuote{
			ProductID:      row.ID,
			Name:           row.Name,
			Quantity:       quantity,
			Wholesale:      line.Wholesale,
			UnitPriceCents: unit,
			TotalCents:     unit * quantity,
		}
		quote.Lines = append(quote.Lines, priced)
		quote.TotalCents += priced.TotalCents
	}

	return quote, nil
}

// ClampWholesaleQuantity raises a wholesale quantity to the minimum.
// This is cart-add policy; the pricing resolver never clamps.
func ClampWholesaleQuantity(quantity int) int {
	if quantity < pricing.MinWholesaleQty {
		return pricing.MinWholesaleQty
	}
	return quantity
}
