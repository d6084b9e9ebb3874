package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vaporlab/vaporlab-backend/pkg/config"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
)

type fakeLimiterStore struct {
	counts map[string]int64
	err    error
}

func newFakeLimiterStore() *fakeLimiterStore {
	return &fakeLimiterStore{counts: map[string]int64{}}
}

func (s *fakeLimiterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.counts[key]++
	return s.counts[key], nil
}

func (s *fakeLimiterStore) RateLimitKey(scope string) string {
	return "vl:rl:" + scope
}

func limiterConfig() config.AuthRateLimitConfig {
	return config.AuthRateLimitConfig{
		LoginWindow:     time.Minute,
		LoginEmailLimit: 3,
		LoginIPLimit:    5,
	}
}

func TestLoginLimiterBlocksAfterEmailLimit(t *testing.T) {
	store := newFakeLimiterStore()
	limiter := NewLoginLimiter(store, limiterConfig(), logger.New(logger.Options{ServiceName: "test"}))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := limiter.Allow(ctx, "Admin@VaporLab.mx", "10.0.0.1"); err != nil {
			t.Fatalf("attempt %d should pass: %v", i+1, err)
		}
	}

	err := limiter.Allow(ctx, "admin@vaporlab.mx", "10.0.0.1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeRateLimit {
		t.Fatalf("expected rate limit error, got %v", err)
	}

	// Email casing must not reset the window.
	if store.counts["vl:rl:login:email:admin@vaporlab.mx"] != 4 {
		t.Fatalf("email window miscounted: %v", store.counts)
	}
}

func TestLoginLimiterBlocksPerIPAcrossEmails(t *testing.T) {
	store := newFakeLimiterStore()
	limiter := NewLoginLimiter(store, limiterConfig(), nil)
	ctx := context.Background()

	emails := []string{"a@x.mx", "b@x.mx", "c@x.mx", "d@x.mx", "e@x.mx"}
	for _, email := range emails {
		if err := limiter.Allow(ctx, email, "10.0.0.9"); err != nil {
			t.Fatalf("email %s should pass: %v", email, err)
		}
	}

	err := limiter.Allow(ctx, "f@x.mx", "10.0.0.9")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeRateLimit {
		t.Fatalf("expected rate limit error on sixth ip attempt, got %v", err)
	}
}

func TestLoginLimiterFailsOpenOnStoreError(t *testing.T) {
	store := newFakeLimiterStore()
	store.err = errors.New("redis down")
	limiter := NewLoginLimiter(store, limiterConfig(), logger.New(logger.Options{ServiceName: "test"}))

	if err := limiter.Allow(context.Background(), "admin@vaporlab.mx", "10.0.0.1"); err != nil {
		t.Fatalf("limiter must fail open, got %v", err)
	}
}

func TestLoginLimiterDisabledWithoutStore(t *testing.T) {
	limiter := NewLoginLimiter(nil, limiterConfig(), nil)
	if err := limiter.Allow(context.Background(), "admin@vaporlab.mx", ""); err != nil {
		t.Fatalf("nil store must disable the limiter, got %v", err)
	}
}
