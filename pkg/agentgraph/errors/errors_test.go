package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"
)

func TestCategoryString(t *testing.T) {
	tests := []struct {
		category Category
		expected string
	}{
		{CategoryTransient, "transient"},
		{CategoryPermanent, "permanent"},
		{CategoryConflict, "conflict"},
		{Category(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.category.String(); got != tt.expected {
				t.Errorf("Category(%d).String() = %s, want %s", tt.category, got, tt.expected)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Category
	}{
		{"nil error", nil, CategoryPermanent},
		{"HTTP 429", &HTTPError{StatusCode: 429}, CategoryTransient},
		{"HTTP 408", &HTTPError{StatusCode: 408}, CategoryTransient},
		{"HTTP 502", &HTTPError{StatusCode: 502}, CategoryTransient},
		{"HTTP 503", &HTTPError{StatusCode: 503}, CategoryTransient},
		{"HTTP 500", &HTTPError{StatusCode: 500}, CategoryTransient},
		{"HTTP 409", &HTTPError{StatusCode: 409}, CategoryConflict},
		{"HTTP 412", &HTTPError{StatusCode: 412}, CategoryConflict},
		{"HTTP 400", &HTTPError{StatusCode: 400}, CategoryPermanent},
		{"HTTP 401", &HTTPError{StatusCode: 401}, CategoryPermanent},
		{"HTTP 404", &HTTPError{StatusCode: 404}, CategoryPermanent},
		{"wrapped HTTP", fmt.Errorf("save: %w", &HTTPError{StatusCode: 503}), CategoryTransient},
		{"Timeout error", &TimeoutError{Operation: "save", Duration: "5s"}, CategoryTransient},
		{"deadline exceeded", fmt.Errorf("save: %w", context.DeadlineExceeded), CategoryTransient},
		{"canceled", context.Canceled, CategoryPermanent},
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, CategoryTransient},
		{"Categorized error", &CategorizedError{Category: CategoryTransient}, CategoryTransient},
		{"Unknown error", errors.New("unknown"), CategoryPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.err); got != tt.expected {
				t.Errorf("Categorize() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestCategorizedError(t *testing.T) {
	t.Run("error message with context", func(t *testing.T) {
		err := NewCategorized(errors.New("failed"), CategoryTransient, "save graph")
		expected := "save graph: failed (category: transient, attempts: 0)"
		if got := err.Error(); got != expected {
			t.Errorf("Error() = %q, want %q", got, expected)
		}
	})

	t.Run("error message without context", func(t *testing.T) {
		err := Permanent(errors.New("failed"), "")
		expected := "failed (category: permanent, attempts: 0)"
		if got := err.Error(); got != expected {
			t.Errorf("Error() = %q, want %q", got, expected)
		}
	})

	t.Run("unwrap", func(t *testing.T) {
		inner := errors.New("inner")
		err := Transient(inner, "load")
		if !errors.Is(err, inner) {
			t.Error("errors.Is should find the wrapped error")
		}
		if err.Category != CategoryTransient {
			t.Errorf("Category = %s, want transient", err.Category)
		}
	})
}

func TestHTTPError(t *testing.T) {
	tests := []struct {
		name     string
		err      *HTTPError
		expected string
	}{
		{"with method and endpoint", &HTTPError{StatusCode: 500, Message: "internal error", Method: "PUT", Endpoint: "/graphs/x"},
			"HTTP 500 at PUT /graphs/x: internal error"},
		{"with endpoint", &HTTPError{StatusCode: 500, Message: "internal error", Endpoint: "/graphs/x"},
			"HTTP 500 at /graphs/x: internal error"},
		{"without endpoint", &HTTPError{StatusCode: 404, Message: "not found"}, "HTTP 404: not found"},
		{"status text fallback", &HTTPError{StatusCode: 503}, "HTTP 503: Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHelperFunctions(t *testing.T) {
	if !IsRetryable(&HTTPError{StatusCode: 429}) {
		t.Error("429 should be retryable")
	}
	if IsRetryable(&HTTPError{StatusCode: 404}) {
		t.Error("404 should not be retryable")
	}
	if !IsConflict(&HTTPError{StatusCode: 409}) {
		t.Error("409 should be a conflict")
	}
	if IsConflict(&HTTPError{StatusCode: 500}) {
		t.Error("500 should not be a conflict")
	}
}

func TestWithRetryContext_Attempts(t *testing.T) {
	ctx := context.Background()

	t.Run("success on first try", func(t *testing.T) {
		calls := 0
		cfg := NewRetryConfig(WithMaxAttempts(3))
		result := WithRetryContext(ctx, cfg, func(context.Context) (string, error) {
			calls++
			return "saved", nil
		})

		if result.Err != nil {
			t.Errorf("Unexpected error: %v", result.Err)
		}
		if result.Value != "saved" {
			t.Errorf("Value = %q, want %q", result.Value, "saved")
		}
		if result.Attempts != 1 || calls != 1 {
			t.Errorf("Attempts = %d, calls = %d, want 1 and 1", result.Attempts, calls)
		}
	})

	t.Run("success on retry", func(t *testing.T) {
		calls := 0
		var retried []int
		cfg := NewRetryConfig(
			WithMaxAttempts(3),
			WithInitialBackoff(time.Millisecond),
			WithOnRetry(func(attempt int, _ error, _ time.Duration) { retried = append(retried, attempt) }),
		)
		result := WithRetryContext(ctx, cfg, func(context.Context) (string, error) {
			calls++
			if calls < 2 {
				return "", &HTTPError{StatusCode: 503}
			}
			return "saved", nil
		})

		if result.Err != nil {
			t.Errorf("Unexpected error: %v", result.Err)
		}
		if result.Attempts != 2 {
			t.Errorf("Attempts = %d, want 2", result.Attempts)
		}
		if len(retried) != 1 || retried[0] != 1 {
			t.Errorf("OnRetry calls = %v, want [1]", retried)
		}
	})

	t.Run("max attempts exceeded", func(t *testing.T) {
		cfg := NewRetryConfig(
			WithMaxAttempts(3),
			WithInitialBackoff(time.Millisecond),
		)
		result := WithRetryContext(ctx, cfg, func(context.Context) (string, error) {
			return "", &HTTPError{StatusCode: 503}
		})

		if result.Err == nil {
			t.Fatal("Expected error after max attempts")
		}
		if result.Attempts != 3 {
			t.Errorf("Attempts = %d, want 3", result.Attempts)
		}
		var httpErr *HTTPError
		if !errors.As(result.Err, &httpErr) || httpErr.StatusCode != 503 {
			t.Errorf("final error should wrap the last HTTP error, got %v", result.Err)
		}
		if !IsRetryable(result.Err) {
			t.Error("exhausted transient error should stay transient")
		}
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		calls := 0
		cfg := NewRetryConfig(WithMaxAttempts(3))
		result := WithRetryContext(ctx, cfg, func(context.Context) (string, error) {
			calls++
			return "", &HTTPError{StatusCode: 400}
		})

		if result.Err == nil {
			t.Error("Expected error")
		}
		if calls != 1 {
			t.Errorf("Calls = %d, want 1 (should not retry permanent error)", calls)
		}
	})

	t.Run("conflict is not retried", func(t *testing.T) {
		calls := 0
		result := WithRetryContext(ctx, NewRetryConfig(WithInitialBackoff(time.Millisecond)), func(context.Context) (int, error) {
			calls++
			return 0, &HTTPError{StatusCode: 409}
		})
		if calls != 1 || !IsConflict(result.Err) {
			t.Errorf("calls = %d, err = %v; want a single conflict", calls, result.Err)
		}
	})

	t.Run("custom retryable func", func(t *testing.T) {
		calls := 0
		cfg := NewRetryConfig(
			WithMaxAttempts(3),
			WithInitialBackoff(time.Millisecond),
			WithRetryableFunc(func(_ error) bool { return true }),
		)
		result := WithRetryContext(ctx, cfg, func(context.Context) (string, error) {
			calls++
			return "", &HTTPError{StatusCode: 404}
		})

		if calls != 3 {
			t.Errorf("Calls = %d, want 3 (custom func should retry)", calls)
		}
		if result.Attempts != 3 {
			t.Errorf("Attempts = %d, want 3", result.Attempts)
		}
	})

	t.Run("zero attempts still runs once", func(t *testing.T) {
		calls := 0
		result := WithRetryContext(ctx, RetryConfig{}, func(context.Context) (int, error) {
			calls++
			return 7, nil
		})
		if calls != 1 || result.Value != 7 {
			t.Errorf("calls = %d, value = %d; want 1 and 7", calls, result.Value)
		}
	})
}

func TestWithRetryContext(t *testing.T) {
	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		cfg := NewRetryConfig(WithMaxAttempts(3))
		result := WithRetryContext(ctx, cfg, func(_ context.Context) (string, error) {
			return "never reached", nil
		})

		if result.Err == nil {
			t.Error("Expected error from cancelled context")
		}
		if result.Attempts != 0 {
			t.Errorf("Attempts = %d, want 0", result.Attempts)
		}
	})

	t.Run("cancellation during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0

		cfg := NewRetryConfig(
			WithMaxAttempts(5),
			WithInitialBackoff(100*time.Millisecond),
		)

		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		result := WithRetryContext(ctx, cfg, func(_ context.Context) (string, error) {
			calls++
			return "", &HTTPError{StatusCode: 503}
		})

		if result.Err == nil {
			t.Error("Expected error from cancelled context")
		}
		if calls > 2 {
			t.Errorf("Calls = %d, expected <= 2 (should cancel during backoff)", calls)
		}
	})
}

func TestNewRetryConfig(t *testing.T) {
	cfg := NewRetryConfig(
		WithMaxAttempts(5),
		WithInitialBackoff(2*time.Second),
		WithMaxBackoff(60*time.Second),
		WithBackoffFactor(3.0),
		WithJitter(0.2),
	)

	if cfg.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff != 2*time.Second {
		t.Errorf("InitialBackoff = %v, want 2s", cfg.InitialBackoff)
	}
	if cfg.MaxBackoff != 60*time.Second {
		t.Errorf("MaxBackoff = %v, want 60s", cfg.MaxBackoff)
	}
	if cfg.BackoffFactor != 3.0 {
		t.Errorf("BackoffFactor = %f, want 3.0", cfg.BackoffFactor)
	}
	if cfg.Jitter != 0.2 {
		t.Errorf("Jitter = %f, want 0.2", cfg.Jitter)
	}
}

func TestRetryConfig_Backoff(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, BackoffFactor: 2}
	tests := []struct {
		n    int
		want time.Duration
	}{
		{0, 0},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second},
		{60, time.Second},
	}
	for _, tt := range tests {
		if got := cfg.Backoff(tt.n); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}

	flat := RetryConfig{InitialBackoff: 50 * time.Millisecond}
	if got := flat.Backoff(4); got != 50*time.Millisecond {
		t.Errorf("factor below 1 should keep the wait constant, got %v", got)
	}
	uncapped := RetryConfig{InitialBackoff: time.Second, BackoffFactor: 10}
	if got := uncapped.Backoff(200); got <= 0 {
		t.Errorf("uncapped backoff overflowed to %v", got)
	}
}

func TestOnRetry_ReceivesBackoffSchedule(t *testing.T) {
	var waits []time.Duration
	cfg := NewRetryConfig(
		WithMaxAttempts(4),
		WithInitialBackoff(time.Millisecond),
		WithBackoffFactor(2),
		WithMaxBackoff(3*time.Millisecond),
		WithJitter(0),
		WithOnRetry(func(_ int, _ error, wait time.Duration) { waits = append(waits, wait) }),
	)
	result := WithRetryContext(context.Background(), cfg, func(context.Context) (int, error) {
		return 0, &HTTPError{StatusCode: 503}
	})

	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}
	if fmt.Sprint(waits) != fmt.Sprint(want) {
		t.Errorf("waits = %v, want %v", waits, want)
	}
	var catErr *CategorizedError
	if !errors.As(result.Err, &catErr) || catErr.Retries != result.Attempts || result.Attempts != 4 {
		t.Errorf("result = %+v, want 4 attempts recorded on the error", result)
	}
}

func TestSpread(t *testing.T) {
	base := 100 * time.Millisecond
	for i := 0; i < 1000; i++ {
		got := spread(base, 0.1)
		if got < 90*time.Millisecond || got > 110*time.Millisecond {
			t.Fatalf("backoff %v outside 10%% jitter window", got)
		}
	}
	if got := spread(base, 0); got != base {
		t.Errorf("no jitter: got %v, want %v", got, base)
	}
}
