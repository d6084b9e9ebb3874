package product

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
	"github.com/vaporlab/vaporlab-backend/pkg/pagination"
)

func setupProductTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  image_public_id TEXT,
  image_url TEXT,
  sort_order INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  category_id TEXT NOT NULL,
  flavors TEXT NOT NULL DEFAULT '{}',
  price_cents INTEGER NOT NULL,
  wholesale_tier1_cents INTEGER NOT NULL DEFAULT 0,
  wholesale_tier2_cents INTEGER NOT NULL DEFAULT 0,
  wholesale_tier3_cents INTEGER NOT NULL DEFAULT 0,
  image_public_id TEXT,
  image_url TEXT,
  is_featured INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS pluses (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  icon TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_pluses (
  product_id TEXT NOT NULL,
  plus_id TEXT NOT NULL,
  PRIMARY KEY (product_id, plus_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	row := &models.Category{ID: uuid.New(), Name: name, IsActive: true}
	require.NoError(t, db.Create(row).Error)
	return row
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, name string, createdAt time.Time, mutate func(*models.Product)) *models.Product {
	t.Helper()

	row := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		CategoryID: categoryID,
		Flavors:    []string{},
		PriceCents: 2500,
		IsActive:   true,
		CreatedAt:  createdAt,
	}
	if mutate != nil {
		mutate(row)
	}
	require.NoError(t, db.Omit("Pluses", "Category").Create(row).Error)
	return row
}

func TestRepositoryCreateAndDetail(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Desechables")
	badge := &models.Plus{ID: uuid.New(), Name: "Nuevo", Icon: "sparkle"}
	require.NoError(t, db.Create(badge).Error)

	row, err := repo.Create(ctx, &models.Product{
		ID:         uuid.New(),
		Name:       "Pod Mango Ice",
		CategoryID: category.ID,
		Flavors:    []string{"mango", "menta"},
		PriceCents: 3000,
		Tier1Cents: 2700,
		IsActive:   true,
	})
	require.NoError(t, err)
	require.NoError(t, repo.ReplacePluses(ctx, row.ID, []models.Plus{*badge}))

	detail, err := repo.GetDetail(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pod Mango Ice", detail.Name)
	assert.Equal(t, []string{"mango", "menta"}, []string(detail.Flavors))
	require.NotNil(t, detail.Category)
	assert.Equal(t, "Desechables", detail.Category.Name)
	require.Len(t, detail.Pluses, 1)
	assert.Equal(t, "Nuevo", detail.Pluses[0].Name)
}

func TestRepositoryReplacePlusesSwapsSet(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Liquidos")
	row := seedProduct(t, db, category.ID, "Liquido Fresa", time.Now().UTC(), nil)

	first := models.Plus{ID: uuid.New(), Name: "Nuevo", Icon: "sparkle"}
	second := models.Plus{ID: uuid.New(), Name: "Top Ventas", Icon: "flame"}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	require.NoError(t, repo.ReplacePluses(ctx, row.ID, []models.Plus{first}))
	require.NoError(t, repo.ReplacePluses(ctx, row.ID, []models.Plus{second}))

	detail, err := repo.GetDetail(ctx, row.ID)
	require.NoError(t, err)
	require.Len(t, detail.Pluses, 1)
	assert.Equal(t, "Top Ventas", detail.Pluses[0].Name)
}

func TestListSummariesPaginatesWithCursor(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Desechables")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedProduct(t, db, category.ID, "Producto", base.Add(time.Duration(i)*time.Minute), nil)
	}

	first, err := repo.ListSummaries(ctx, listQuery{Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, first.Products, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.ListSummaries(ctx, listQuery{
		Pagination: pagination.Params{Limit: 2, Cursor: first.NextCursor},
	})
	require.NoError(t, err)
	require.Len(t, second.Products, 2)

	seen := map[uuid.UUID]struct{}{}
	for _, s := range append(first.Products, second.Products...) {
		if _, dup := seen[s.ID]; dup {
			t.Fatalf("product %s returned twice across pages", s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	// Newest first.
	assert.True(t, first.Products[0].CreatedAt.After(first.Products[1].CreatedAt))
}

func TestListSummariesFilters(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	desechables := seedCategory(t, db, "Desechables")
	liquidos := seedCategory(t, db, "Liquidos")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	featured := seedProduct(t, db, desechables.ID, "Pod Mango Ice", now, func(p *models.Product) {
		p.IsFeatured = true
		p.Tier1Cents = 2700
	})
	seedProduct(t, db, liquidos.ID, "Liquido Fresa", now.Add(time.Minute), nil)
	seedProduct(t, db, desechables.ID, "Pod Inactivo", now.Add(2*time.Minute), func(p *models.Product) {
		p.IsActive = false
	})

	byCategory, err := repo.ListSummaries(ctx, listQuery{
		Filters: ListFilters{CategoryID: &desechables.ID},
	})
	require.NoError(t, err)
	require.Len(t, byCategory.Products, 1, "inactive products stay hidden from the storefront")
	assert.Equal(t, featured.ID, byCategory.Products[0].ID)
	assert.True(t, byCategory.Products[0].HasWholesale)
	assert.Equal(t, "Desechables", byCategory.Products[0].CategoryName)

	withInactive, err := repo.ListSummaries(ctx, listQuery{
		Filters:         ListFilters{CategoryID: &desechables.ID},
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, withInactive.Products, 2)

	byQuery, err := repo.ListSummaries(ctx, listQuery{
		Filters: ListFilters{Query: "fresa"},
	})
	require.NoError(t, err)
	require.Len(t, byQuery.Products, 1)
	assert.Equal(t, "Liquido Fresa", byQuery.Products[0].Name)
	assert.False(t, byQuery.Products[0].HasWholesale)

	isFeatured := true
	byFeatured, err := repo.ListSummaries(ctx, listQuery{
		Filters: ListFilters{IsFeatured: &isFeatured},
	})
	require.NoError(t, err)
	require.Len(t, byFeatured.Products, 1)
	assert.Equal(t, featured.ID, byFeatured.Products[0].ID)
}

func TestListSummariesFiltersByPlus(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Desechables")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tagged := seedProduct(t, db, category.ID, "Pod Mango Ice", now, nil)
	seedProduct(t, db, category.ID, "Pod Uva", now.Add(time.Minute), nil)

	badge := models.Plus{ID: uuid.New(), Name: "Nuevo", Icon: "sparkle"}
	require.NoError(t, db.Create(&badge).Error)
	require.NoError(t, repo.ReplacePluses(ctx, tagged.ID, []models.Plus{badge}))

	result, err := repo.ListSummaries(ctx, listQuery{
		Filters: ListFilters{PlusID: &badge.ID},
	})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, tagged.ID, result.Products[0].ID)
}
