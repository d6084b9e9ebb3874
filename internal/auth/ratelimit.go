package auth

import (
	"context"
	"strings"
	"time"

	"github.com/vaporlab/vaporlab-backend/pkg/config"
	pkgerrors "github.com/vaporlab/vaporlab-backend/pkg/errors"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
)

// LimiterStore is the slice of the Redis client the limiter needs.
type LimiterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// LoginLimiter throttles login attempts per email and per source IP
// with fixed windows in Redis. A Redis outage fails open: login keeps
// working without the throttle rather than locking everyone out.
type LoginLimiter struct {
	store LimiterStore
	cfg   config.AuthRateLimitConfig
	logg  *logger.Logger
}

// NewLoginLimiter wires the limiter. Store may be nil, disabling it.
func NewLoginLimiter(store LimiterStore, cfg config.AuthRateLimitConfig, logg *logger.Logger) *LoginLimiter {
	return &LoginLimiter{store: store, cfg: cfg, logg: logg}
}

// Allow checks both windows and returns a rate limit error once either
// is exhausted. Counting happens before credential verification so
// failed and successful attempts weigh the same.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) error {
	if l == nil || l.store == nil {
		return nil
	}

	if err := l.check(ctx, "login:email:"+strings.ToLower(strings.TrimSpace(email)), l.cfg.LoginEmailLimit); err != nil {
		return err
	}
	if ip = strings.TrimSpace(ip); ip != "" {
		if err := l.check(ctx, "login:ip:"+ip, l.cfg.LoginIPLimit); err != nil {
			return err
		}
	}
	return nil
}

func (l *LoginLimiter) check(ctx context.Context, scope string, limit int) error {
	if limit <= 0 {
		return nil
	}

	count, err := l.store.IncrWithTTL(ctx, l.store.RateLimitKey(scope), l.cfg.LoginWindow)
	if err != nil {
		if l.logg != nil {
			l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "login rate limit check failed")
		}
		return nil
	}
	if count > int64(limit) {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
	}
	return nil
}
