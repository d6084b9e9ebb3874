package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
)

type stubProducts struct {
	rows map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func newQuoteService(t *testing.T, rows ...*models.Product) Service {
	t.Helper()

	reader := &stubProducts{rows: map[uuid.UUID]*models.Product{}}
	for _, row := range rows {
		reader.rows[row.ID] = row
	}
	svc, err := NewService(reader)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func wholesaleProduct() *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		Name:       "Pod Mango Ice",
		PriceCents: 10000,
		Tier1Cents: 9000,
		Tier2Cents: 8500,
		Tier3Cents: 8000,
		IsActive:   true,
	}
}

func TestQuoteWholesaleLineClampsUpToMinimum(t *testing.T) {
	row := wholesaleProduct()
	svc := newQuoteService(t, row)

	quote, err := svc.Quote(context.Background(), QuoteInput{
		Lines: []LineInput{{ProductID: row.ID, Quantity: 5, Wholesale: true}},
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	line := quote.Lines[0]
	if line.Quantity != 10 {
		t.Fatalf("wholesale quantity 5 must clamp to 10, got %d", line.Quantity)
	}
	if line.UnitPriceCents != 9000 {
		t.Fatalf("clamped quantity must price at tier1, got %d", line.UnitPriceCents)
	}
	if line.TotalCents != 90000 || quote.TotalCents != 90000 {
		t.Fatalf("unexpected totals: line=%d cart=%d", line.TotalCents, quote.TotalCents)
	}
}

func TestQuoteRetailLineDoesNotClamp(t *testing.T) {
	row := wholesaleProduct()
	svc := newQuoteService(t, row)

	quote, err := svc.Quote(context.Background(), QuoteInput{
		Lines: []LineInput{{ProductID: row.ID, Quantity: 5}},
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	line := quote.Lines[0]
	if line.Quantity != 5 {
		t.Fatalf("retail quantity must pass through, got %d", line.Quantity)
	}
	if line.UnitPriceCents != 10000 {
		t.Fatalf("below-minimum quantity must price at base, got %d", line.UnitPriceCents)
	}
	if line.TotalCents != 50000 {
		t.Fatalf("unexpected line total %d", line.TotalCents)
	}
}

func TestQuoteMixedCartSumsBands(t *testing.T) {
	first := wholesaleProduct()
	second := &models.Product{
		ID:         uuid.New(),
		Name:       "Liquido Fresa",
		PriceCents: 2500,
		IsActive:   true,
	}
	svc := newQuoteService(t, first, second)

	quote, err := svc.Quote(context.Background(), QuoteInput{
		Lines: []LineInput{
			{ProductID: first.ID, Quantity: 45, Wholesale: true},
			{ProductID: second.ID, Quantity: 100, Wholesale: true},
			{ProductID: second.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	// tier2 for 45, unconfigured rates fall back to base, retail passthrough.
	wantUnits := []int{8500, 2500, 2500}
	wantTotal := 8500*45 + 2500*100 + 2500*2
	for i, want := range wantUnits {
		if quote.Lines[i].UnitPriceCents != want {
			t.Fatalf("line %d unit price = %d, want %d", i, quote.Lines[i].UnitPriceCents, want)
		}
	}
	if quote.TotalCents != wantTotal {
		t.Fatalf("cart total = %d, want %d", quote.TotalCents, wantTotal)
	}
}

func TestQuoteRejectsBadLines(t *testing.T) {
	row := wholesaleProduct()
	inactive := &models.Product{ID: uuid.New(), Name: "Retirado", PriceCents: 100}
	svc := newQuoteService(t, row, inactive)
	ctx := context.Background()

	cases := []QuoteInput{
		{},
		{Lines: []LineInput{{ProductID: uuid.New(), Quantity: 1}}},
		{Lines: []LineInput{{ProductID: row.ID, Quantity: -3}}},
		{Lines: []LineInput{{ProductID: inactive.ID, Quantity: 1}}},
	}
	for i, input := range cases {
		_, err := svc.Quote(ctx, input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestClampWholesaleQuantity(t *testing.T) {
	cases := map[int]int{0: 10, 5: 10, 9: 10, 10: 10, 11: 11, 500: 500}
	for in, want := range cases {
		if got := ClampWholesaleQuantity(in); got != want {
			t.Fatalf("ClampWholesaleQuantity(%d) = %d, want %d", in, got, want)
		}
	}
}
