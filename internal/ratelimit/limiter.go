package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/openpolitica/politician-indexer/internal/adapter"
	"github.com/openpolitica/politician-indexer/internal/config"
)

// Limiter throttles outbound calls per external source. It never blocks:
// callers receive the duration they must wait and decide whether to sleep
// or abort.
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit.go -package=mocks -mock_names=Limiter=MockLimiter
type Limiter interface {
	// WaitIfNeeded reserves a slot for the source and returns how long the
	// caller must wait before using it. Unconfigured sources wait zero.
	WaitIfNeeded(source string) time.Duration
}

type limiter struct {
	sources map[string]*rate.Limiter
}

// New creates a per-run limiter from per-source configurations. A source
// with a non-positive period or request count is treated as unlimited
// rather than dividing by zero.
func New(cfgs map[string]config.RateLimitConfig) Limiter {
	sources := make(map[string]*rate.Limiter, len(cfgs))
	for name, cfg := range cfgs {
		if cfg.RequestsPerPeriod <= 0 || cfg.Period <= 0 {
			sources[name] = rate.NewLimiter(rate.Inf, 1)
			continue
		}

		burst := cfg.Burst
		if burst <= 0 {
			burst = cfg.RequestsPerPeriod
		}

		limit := rate.Limit(float64(cfg.RequestsPerPeriod) / cfg.Period.Seconds())
		sources[name] = rate.NewLimiter(limit, burst)
	}
	return &limiter{sources: sources}
}

// WaitIfNeeded reserves a slot for the source and returns the required wait.
// rate.Limiter is internally synchronized, so reservations are atomic under
// concurrent callers.
func (l *limiter) WaitIfNeeded(source string) time.Duration {
	rl, ok := l.sources[source]
	if !ok {
		return 0
	}

	r := rl.Reserve()
	if !r.OK() {
		// Cannot happen with burst >= 1, but never return a negative wait
		return time.Second
	}
	return r.Delay()
}

// Do wraps an outbound call with the source's rate limit. The imposed sleep
// is interruptible: context cancellation aborts the wait and the call.
func Do[T any](ctx context.Context, l Limiter, clock adapter.Clock, source string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if l != nil {
		if d := l.WaitIfNeeded(source); d > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-clock.After(d):
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	return fn(ctx)
}
