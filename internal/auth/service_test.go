package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgauth "github.com/vaporlab/vaporlab-backend/pkg/auth"
	"github.com/vaporlab/vaporlab-backend/pkg/config"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
)

func testPasswordConfig() config.PasswordConfig {
	// Tiny parameters keep the argon2 hashing fast in tests.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "vaporlab-test",
		ExpirationMinutes: 15,
	}
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'staff',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newAuthService(t *testing.T, db *gorm.DB, env string, limiter loginLimiter) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Users:       NewUserRepository(db),
		Limiter:     limiter,
		AppConfig:   config.AppConfig{Env: env},
		JWTConfig:   testJWTConfig(),
		PasswordCfg: testPasswordConfig(),
	})
	require.NoError(t, err)
	return svc
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(context.Context, string, string) error {
	return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
}

func TestRegisterAndLoginRoundtrip(t *testing.T) {
	svc := newAuthService(t, setupAuthTestDB(t), config.AppEnvDev, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Email:    " Admin@VaporLab.MX ",
		Password: "super-secret-pw",
		Name:     "Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@vaporlab.mx", user.Email)
	assert.Equal(t, "admin", user.Role)

	resp, err := svc.Login(ctx, LoginRequest{Email: "admin@vaporlab.mx", Password: "super-secret-pw"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, 15*60, resp.ExpiresIn)
	require.NotNil(t, resp.User.LastLoginAt)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "admin@vaporlab.mx", claims.Email)
	assert.Equal(t, "admin", claims.Role.String())
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	svc := newAuthService(t, setupAuthTestDB(t), config.AppEnvDev, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Email: "admin@vaporlab.mx", Password: "super-secret-pw", Name: "Admin",
	})
	require.NoError(t, err)

	_, errWrongPassword := svc.Login(ctx, LoginRequest{Email: "admin@vaporlab.mx", Password: "nope"})
	_, errUnknownEmail := svc.Login(ctx, LoginRequest{Email: "nadie@vaporlab.mx", Password: "nope"})

	for _, err := range []error{errWrongPassword, errUnknownEmail} {
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	}
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(t, db, config.AppEnvDev, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Email: "admin@vaporlab.mx", Password: "super-secret-pw", Name: "Admin",
	})
	require.NoError(t, err)
	require.NoError(t, db.Table("users").Where("id = ?", user.ID).Update("is_active", false).Error)

	_, err = svc.Login(ctx, LoginRequest{Email: "admin@vaporlab.mx", Password: "super-secret-pw"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginHonorsRateLimiter(t *testing.T) {
	svc := newAuthService(t, setupAuthTestDB(t), config.AppEnvDev, denyAllLimiter{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email: "admin@vaporlab.mx", Password: "super-secret-pw", SourceIP: "10.0.0.1",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeRateLimit, typed.Code())
}

func TestRegisterOutsideDevOnlyBootstraps(t *testing.T) {
	svc := newAuthService(t, setupAuthTestDB(t), config.AppEnvProd, nil)
	ctx := context.Background()

	// First account is allowed even in prod so a fresh deploy can boot.
	_, err := svc.Register(ctx, RegisterRequest{
		Email: "admin@vaporlab.mx", Password: "super-secret-pw", Name: "Admin",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{
		Email: "otro@vaporlab.mx", Password: "super-secret-pw", Name: "Otro",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestRegisterRejectsDuplicateEmailAndShortPassword(t *testing.T) {
	svc := newAuthService(t, setupAuthTestDB(t), config.AppEnvDev, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Email: "admin@vaporlab.mx", Password: "super-secret-pw", Name: "Admin",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{
		Email: "ADMIN@vaporlab.mx", Password: "super-secret-pw", Name: "Admin",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	_, err = svc.Register(ctx, RegisterRequest{
		Email: "corto@vaporlab.mx", Password: "corta", Name: "Corto",
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
