package product

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
	"github.com/vaporlab/vaporlab-backend/pkg/pagination"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetDetail fetches a product with its category and badges preloaded.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Pluses", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		First(&row, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, row *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Pluses").Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves an existing product row.
func (r *Repository) Update(ctx context.Context, row *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Pluses").Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes a product by ID; join rows go with it via FK cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// ReplacePluses swaps the full badge set of the product.
func (r *Repository) ReplacePluses(ctx context.Context, productID uuid.UUID, pluses []models.Plus) error {
	row := models.Product{ID: productID}
	return r.db.WithContext(ctx).Model(&row).Association("Pluses").Replace(pluses)
}

type listQuery struct {
	Pagination      pagination.Params
	Filters         ListFilters
	IncludeInactive bool
}

// ListSummaries returns one cursor page of the catalog.
func (r *Repository) ListSummaries(ctx context.Context, query listQuery) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	wholesaleClause := "(p.wholesale_tier1_cents > 0 OR p.wholesale_tier2_cents > 0 OR p.wholesale_tier3_cents > 0)"

	qb := r.db.WithContext(ctx).
		Table("products p").
		Select(strings.Join([]string{
			"p.id",
			"p.name",
			"p.category_id",
			"c.name AS category_name",
			"p.price_cents",
			wholesaleClause + " AS has_wholesale",
			"p.image_url",
			"p.is_featured",
			"p.created_at",
			"p.updated_at",
		}, ", ")).
		Joins("JOIN categories c ON c.id = p.category_id")

	filter := query.Filters
	if filter.CategoryID != nil {
		qb = qb.Where("p.category_id = ?", *filter.CategoryID)
	}
	if filter.PlusID != nil {
		qb = qb.Where("EXISTS (SELECT 1 FROM product_pluses pp WHERE pp.product_id = p.id AND pp.plus_id = ?)", *filter.PlusID)
	}
	if filter.IsFeatured != nil {
		qb = qb.Where("p.is_featured = ?", *filter.IsFeatured)
	}
	if flavor := strings.TrimSpace(filter.Flavor); flavor != "" {
		qb = qb.Where("? = ANY(p.flavors)", flavor)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("LOWER(p.name) LIKE ?", pattern)
	}
	if !query.IncludeInactive {
		qb = qb.Where("p.is_active = ?", true)
	}

	if cursor != nil {
		qb = qb.Where("(p.created_at < ?) OR (p.created_at = ? AND p.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("p.created_at DESC").Order("p.id DESC").Limit(limitWithBuffer)

	var records []summaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]ProductSummary, 0, len(resultRows))
	for _, record := range resultRows {
		summaries = append(summaries, record.toSummary())
	}

	return &ListResult{
		Products:   summaries,
		NextCursor: nextCursor,
	}, nil
}

type summaryRecord struct {
	ID           uuid.UUID
	Name         string
	CategoryID   uuid.UUID
	CategoryName string
	PriceCents   int
	HasWholesale bool
	ImageURL     sql.NullString
	IsFeatured   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r summaryRecord) toSummary() ProductSummary {
	return ProductSummary{
		ID:           r.ID,
		Name:         r.Name,
		CategoryID:   r.CategoryID,
		CategoryName: r.CategoryName,
		PriceCents:   r.PriceCents,
		HasWholesale: r.HasWholesale,
		ImageURL:     nullStringPtr(r.ImageURL),
		IsFeatured:   r.IsFeatured,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}
