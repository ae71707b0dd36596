package errors

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig controls how a call against a persistence backend is retried.
type RetryConfig struct {
	// MaxAttempts counts the first try. Values below 1 mean a single try.
	MaxAttempts int

	// InitialBackoff is the wait after the first failure.
	InitialBackoff time.Duration

	// MaxBackoff caps the wait. Zero means no cap.
	MaxBackoff time.Duration

	// BackoffFactor multiplies the wait after each failure. Values below 1
	// keep the wait constant.
	BackoffFactor float64

	// Jitter spreads each wait by up to this fraction either way (0.0-1.0).
	Jitter float64

	// RetryableFunc replaces IsRetryable when set.
	RetryableFunc func(error) bool

	// OnRetry, when set, is called before sleeping between attempts.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultRetry is the retry policy for saving a graph. An editor save is
// interactive, so the whole budget stays under a few seconds.
var DefaultRetry = RetryConfig{
	MaxAttempts:    3,
	InitialBackoff: 200 * time.Millisecond,
	MaxBackoff:     2 * time.Second,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// RetryResult is the outcome of WithRetryContext.
type RetryResult[T any] struct {
	// Value is set when an attempt succeeded.
	Value T

	// Err is a *CategorizedError wrapping the last failure, or nil.
	Err error

	// Attempts is how many times fn ran.
	Attempts int

	// Duration is the wall time including backoff.
	Duration time.Duration
}

// Backoff returns the wait after the nth failed attempt, before jitter.
// The first failure is n == 1.
func (c RetryConfig) Backoff(n int) time.Duration {
	if n < 1 || c.InitialBackoff <= 0 {
		return 0
	}
	factor := math.Max(c.BackoffFactor, 1)
	wait := float64(c.InitialBackoff) * math.Pow(factor, float64(n-1))
	if c.MaxBackoff > 0 && wait > float64(c.MaxBackoff) {
		return c.MaxBackoff
	}
	if wait >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(wait)
}

func (c RetryConfig) retryable(err error) bool {
	if c.RetryableFunc != nil {
		return c.RetryableFunc(err)
	}
	return IsRetryable(err)
}

// WithRetryContext runs fn until it succeeds, fails with an error that is
// not retryable, runs out of attempts or ctx ends. A failed result always
// carries a *CategorizedError whose Retries equals Attempts.
func WithRetryContext[T any](
	ctx context.Context,
	cfg RetryConfig,
	fn func(context.Context) (T, error),
) RetryResult[T] {
	start := time.Now()
	var res RetryResult[T]
	fail := func(err error, category Category, note string) RetryResult[T] {
		res.Err = &CategorizedError{Err: err, Category: category, Retries: res.Attempts, Context: note}
		res.Duration = time.Since(start)
		return res
	}

	limit := max(cfg.MaxAttempts, 1)
	for {
		if err := ctx.Err(); err != nil {
			return fail(err, CategoryPermanent, "context cancelled")
		}

		value, err := fn(ctx)
		res.Attempts++
		switch {
		case err == nil:
			res.Value = value
			res.Duration = time.Since(start)
			return res
		case !cfg.retryable(err):
			return fail(err, Categorize(err), "")
		case res.Attempts >= limit:
			return fail(err, Categorize(err), "max retries exceeded")
		}

		wait := spread(cfg.Backoff(res.Attempts), cfg.Jitter)
		if cfg.OnRetry != nil {
			cfg.OnRetry(res.Attempts, err, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return fail(err, CategoryPermanent, "context cancelled during backoff")
		}
	}
}

// spread moves d by a random amount within ±jitter of itself.
func spread(d time.Duration, jitter float64) time.Duration {
	if jitter <= 0 || d <= 0 {
		return d
	}
	return d + time.Duration(float64(d)*jitter*(rand.Float64()*2-1))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryOption configures a RetryConfig built by NewRetryConfig.
type RetryOption func(*RetryConfig)

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(n int) RetryOption {
	return func(cfg *RetryConfig) { cfg.MaxAttempts = n }
}

// WithInitialBackoff sets the wait after the first failure.
func WithInitialBackoff(d time.Duration) RetryOption {
	return func(cfg *RetryConfig) { cfg.InitialBackoff = d }
}

// WithMaxBackoff caps the wait between attempts.
func WithMaxBackoff(d time.Duration) RetryOption {
	return func(cfg *RetryConfig) { cfg.MaxBackoff = d }
}

// WithBackoffFactor sets the backoff multiplier.
func WithBackoffFactor(f float64) RetryOption {
	return func(cfg *RetryConfig) { cfg.BackoffFactor = f }
}

// WithJitter sets the jitter fraction.
func WithJitter(j float64) RetryOption {
	return func(cfg *RetryConfig) { cfg.Jitter = j }
}

// WithRetryableFunc replaces the retryability check.
func WithRetryableFunc(fn func(error) bool) RetryOption {
	return func(cfg *RetryConfig) { cfg.RetryableFunc = fn }
}

// WithOnRetry sets a callback invoked before each backoff sleep.
func WithOnRetry(fn func(attempt int, err error, wait time.Duration)) RetryOption {
	return func(cfg *RetryConfig) { cfg.OnRetry = fn }
}

// NewRetryConfig starts from DefaultRetry and applies opts.
func NewRetryConfig(opts ...RetryOption) RetryConfig {
	cfg := DefaultRetry
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
