package banner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
	apperrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
	"github.com/vaporlab/vaporlab-backend/pkg/imagestore"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
)

func setupBannerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS banner_weeks (
  id TEXT PRIMARY KEY,
  days TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newTestService(t *testing.T, db *gorm.DB, deleter ImageDeleter) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "banner-test"})
	svc, err := NewService(NewRepository(db), deleter, logg)
	require.NoError(t, err)
	return svc
}

func TestServiceGetWeekBeforeFirstWrite(t *testing.T) {
	svc := newTestService(t, setupBannerTestDB(t), nil)

	days, err := svc.GetWeek(context.Background())
	require.NoError(t, err)

	assert.Len(t, days, 7)
	for _, key := range DayKeys {
		day, present := days[key]
		assert.True(t, present, "slot %s missing", key)
		assert.Nil(t, day, "slot %s should be empty", key)
	}
}

func TestServiceMergeWeekCreatesAndUpdatesSingleton(t *testing.T) {
	db := setupBannerTestDB(t)
	svc := newTestService(t, db, nil)
	ctx := context.Background()

	_, err := svc.MergeWeek(ctx, WeekPatch{DayLunes: {DiscountPercent: intPtr(15)}})
	require.NoError(t, err)

	_, err = svc.MergeWeek(ctx, WeekPatch{DayMartes: {DiscountPercent: intPtr(20)}})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.BannerWeek{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "schedule must stay a single row")

	days, err := svc.GetWeek(ctx)
	require.NoError(t, err)
	require.NotNil(t, days[DayLunes])
	assert.Equal(t, 15, days[DayLunes].DiscountPercent)
	require.NotNil(t, days[DayMartes])
	assert.Equal(t, 20, days[DayMartes].DiscountPercent)
}

func TestServiceMergeWeekRejectsUnknownDay(t *testing.T) {
	svc := newTestService(t, setupBannerTestDB(t), nil)

	_, err := svc.MergeWeek(context.Background(), WeekPatch{"feriado": nil})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
}

func TestServiceMergeWeekRejectsDiscountOutOfRange(t *testing.T) {
	svc := newTestService(t, setupBannerTestDB(t), nil)

	over := 120
	_, err := svc.MergeWeek(context.Background(), WeekPatch{DayLunes: {DiscountPercent: &over}})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())

	negative := -1
	_, err = svc.PatchDay(context.Background(), DayMartes, &DayPatch{DiscountPercent: &negative})
	require.Error(t, err)
}

func TestServicePatchDayClearsAndDeletesImage(t *testing.T) {
	svc := newTestService(t, setupBannerTestDB(t), nil)
	ctx := context.Background()

	_, err := svc.SetDayImage(ctx, DayViernes, imagestore.Asset{PublicID: "imgB", URL: "https://img/imgB"})
	require.NoError(t, err)

	deleter := &stubDeleter{}
	svcWithDeleter := newTestServiceSameDB(t, svc, deleter)

	days, err := svcWithDeleter.PatchDay(ctx, DayViernes, nil)
	require.NoError(t, err)
	assert.Nil(t, days[DayViernes])
	assert.Equal(t, []string{"imgB"}, deleter.calls)
}

// newTestServiceSameDB rebuilds a service over the repository already
// inside svc so a different deleter can observe the same rows.
func newTestServiceSameDB(t *testing.T, svc Service, deleter ImageDeleter) Service {
	t.Helper()

	impl, ok := svc.(*service)
	require.True(t, ok)
	logg := logger.New(logger.Options{ServiceName: "banner-test"})
	next, err := NewService(impl.repository, deleter, logg)
	require.NoError(t, err)
	return next
}

func TestServiceSetDayImageReplacesPreviousImage(t *testing.T) {
	deleter := &stubDeleter{}
	svc := newTestService(t, setupBannerTestDB(t), deleter)
	ctx := context.Background()

	_, err := svc.MergeWeek(ctx, WeekPatch{DayDomingo: {DiscountPercent: intPtr(30)}})
	require.NoError(t, err)

	_, err = svc.SetDayImage(ctx, DayDomingo, imagestore.Asset{PublicID: "imgA", URL: "https://img/imgA"})
	require.NoError(t, err)
	assert.Empty(t, deleter.calls, "first upload has nothing to replace")

	days, err := svc.SetDayImage(ctx, DayDomingo, imagestore.Asset{PublicID: "imgC", URL: "https://img/imgC"})
	require.NoError(t, err)
	assert.Equal(t, []string{"imgA"}, deleter.calls)

	domingo := days[DayDomingo]
	require.NotNil(t, domingo)
	assert.Equal(t, "imgC", domingo.ImagePublicID)
	assert.Equal(t, "https://img/imgC", domingo.ImageURL)
	assert.Equal(t, 30, domingo.DiscountPercent, "image upload must not touch data fields")
}

func TestServiceSetDayImageOnEmptySlot(t *testing.T) {
	svc := newTestService(t, setupBannerTestDB(t), nil)

	days, err := svc.SetDayImage(context.Background(), DayMiercoles, imagestore.Asset{
		PublicID: "imgD",
		URL:      "https://img/imgD",
	})
	require.NoError(t, err)
	require.NotNil(t, days[DayMiercoles])
	assert.Equal(t, "imgD", days[DayMiercoles].ImagePublicID)
}

func TestServiceSetDayImageValidatesInput(t *testing.T) {
	svc := newTestService(t, setupBannerTestDB(t), nil)
	ctx := context.Background()

	_, err := svc.SetDayImage(ctx, "feriado", imagestore.Asset{PublicID: "x", URL: "y"})
	require.Error(t, err)

	_, err = svc.SetDayImage(ctx, DayLunes, imagestore.Asset{})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
}

func TestServiceMergeWeekPersistsWhenImageDeletionFails(t *testing.T) {
	deleter := &stubDeleter{err: errors.New("remote host down")}
	svc := newTestService(t, setupBannerTestDB(t), deleter)
	ctx := context.Background()

	_, err := svc.SetDayImage(ctx, DaySabado, imagestore.Asset{PublicID: "imgE", URL: "https://img/imgE"})
	require.NoError(t, err)

	days, err := svc.MergeWeek(ctx, WeekPatch{DaySabado: nil})
	require.NoError(t, err)
	assert.Nil(t, days[DaySabado])

	reloaded, err := svc.GetWeek(ctx)
	require.NoError(t, err)
	assert.Nil(t, reloaded[DaySabado], "cleared slot must persist despite deletion failure")
}

// failingSaveRepository serves reads from the wrapped repository but
// refuses every write.
type failingSaveRepository struct {
	Repository
}

func (r *failingSaveRepository) SaveWeek(context.Context, *models.BannerWeek) error {
	return apperrors.New(apperrors.CodeDependency, "saving banner week")
}

func TestServiceMergeWeekKeepsImagesWhenSaveFails(t *testing.T) {
	db := setupBannerTestDB(t)
	svc := newTestService(t, db, nil)
	ctx := context.Background()

	_, err := svc.SetDayImage(ctx, DayJueves, imagestore.Asset{PublicID: "imgF", URL: "https://img/imgF"})
	require.NoError(t, err)

	deleter := &stubDeleter{}
	logg := logger.New(logger.Options{ServiceName: "banner-test"})
	broken, err := NewService(&failingSaveRepository{Repository: NewRepository(db)}, deleter, logg)
	require.NoError(t, err)

	_, err = broken.MergeWeek(ctx, WeekPatch{DayJueves: nil})
	require.Error(t, err)
	assert.Empty(t, deleter.calls, "a failed save must not destroy the stored image")

	reloaded, err := svc.GetWeek(ctx)
	require.NoError(t, err)
	require.NotNil(t, reloaded[DayJueves])
	assert.Equal(t, "imgF", reloaded[DayJueves].ImagePublicID)
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "banner-test"})

	if _, err := NewService(nil, nil, logg); err == nil {
		t.Fatalf("expected error for missing repository")
	}
	if _, err := NewService(NewRepository(setupBannerTestDB(t)), nil, nil); err == nil {
		t.Fatalf("expected error for missing logger")
	}
}
