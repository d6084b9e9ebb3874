package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
	"github.com/vaporlab/vaporlab-backend/pkg/imagestore"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
)

type recordingDeleter struct {
	calls []string
}

func (d *recordingDeleter) Delete(_ context.Context, publicID string) error {
	d.calls = append(d.calls, publicID)
	return nil
}

func setupCategoryTestDB(t *testing.T) *gorm.DB {
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
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newCategoryService(t *testing.T, db *gorm.DB, deleter imagestore.Deleter) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "categories-test"})
	svc, err := NewService(NewRepository(db), deleter, logg)
	require.NoError(t, err)
	return svc
}

func TestServiceCreateTrimsName(t *testing.T) {
	svc := newCategoryService(t, setupCategoryTestDB(t), nil)

	dto, err := svc.Create(context.Background(), CreateInput{Name: "  Desechables ", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "Desechables", dto.Name)
	assert.True(t, dto.IsActive)

	_, err = svc.Create(context.Background(), CreateInput{Name: "   "})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceListHidesInactiveFromStorefront(t *testing.T) {
	db := setupCategoryTestDB(t)
	svc := newCategoryService(t, db, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "Liquidos", SortOrder: 2, IsActive: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "Desechables", SortOrder: 1, IsActive: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "Descontinuados", SortOrder: 3, IsActive: false})
	require.NoError(t, err)

	storefront, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, storefront, 2)
	assert.Equal(t, "Desechables", storefront[0].Name, "sort_order must drive ordering")
	assert.Equal(t, "Liquidos", storefront[1].Name)

	admin, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, admin, 3)
}

func TestServiceDeleteRefusesWhenProductsRemain(t *testing.T) {
	db := setupCategoryTestDB(t)
	svc := newCategoryService(t, db, nil)
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateInput{Name: "Desechables", IsActive: true})
	require.NoError(t, err)

	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Pod Mango Ice",
		CategoryID: dto.ID,
		Flavors:    []string{},
		PriceCents: 2500,
		IsActive:   true,
	}
	require.NoError(t, db.Omit("Pluses", "Category").Create(product).Error)

	err = svc.Delete(ctx, dto.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	require.NoError(t, db.Delete(product).Error)
	require.NoError(t, svc.Delete(ctx, dto.ID))

	_, err = svc.Get(ctx, dto.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceSetImageReplacesAndDeletesOld(t *testing.T) {
	deleter := &recordingDeleter{}
	svc := newCategoryService(t, setupCategoryTestDB(t), deleter)
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateInput{Name: "Desechables", IsActive: true})
	require.NoError(t, err)

	updated, err := svc.SetImage(ctx, dto.ID, imagestore.Asset{PublicID: "catA", URL: "https://img/catA"})
	require.NoError(t, err)
	require.NotNil(t, updated.ImageURL)
	assert.Equal(t, "https://img/catA", *updated.ImageURL)
	assert.Empty(t, deleter.calls)

	_, err = svc.SetImage(ctx, dto.ID, imagestore.Asset{PublicID: "catB", URL: "https://img/catB"})
	require.NoError(t, err)
	assert.Equal(t, []string{"catA"}, deleter.calls)
}

func TestServiceDeleteRemovesImage(t *testing.T) {
	deleter := &recordingDeleter{}
	svc := newCategoryService(t, setupCategoryTestDB(t), deleter)
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateInput{Name: "Liquidos", IsActive: true})
	require.NoError(t, err)
	_, err = svc.SetImage(ctx, dto.ID, imagestore.Asset{PublicID: "catC", URL: "https://img/catC"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, dto.ID))
	assert.Equal(t, []string{"catC"}, deleter.calls)
}
