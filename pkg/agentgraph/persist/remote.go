package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"

	agerr "github.com/randalmurphal/agentgraph/pkg/agentgraph/errors"
)

// maxErrorBody caps how much of an error response is kept in HTTPError.
const maxErrorBody = 512

// RemoteStore talks to an agentgraphd server over HTTP. Calls run through
// a circuit breaker so a struggling server is not hammered by retries.
type RemoteStore struct {
	base    *url.URL
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
	closed  atomic.Bool
}

// BreakerConfig tunes the circuit breaker in front of a RemoteStore.
type BreakerConfig struct {
	// MaxRequests is how many calls pass while half-open.
	MaxRequests uint32
	// Interval resets the failure counts while closed. Zero never resets.
	Interval time.Duration
	// Timeout is how long the breaker stays open before trying again.
	Timeout time.Duration
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig trips after five straight transient failures and
// probes again after thirty seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// RemoteOption configures a RemoteStore.
type RemoteOption func(*remoteConfig)

type remoteConfig struct {
	client  *http.Client
	breaker BreakerConfig
	logger  *slog.Logger
}

// WithHTTPClient sets the HTTP client. The default has a 10s timeout.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(cfg *remoteConfig) {
		if c != nil {
			cfg.client = c
		}
	}
}

// WithBreaker sets the circuit breaker policy.
func WithBreaker(b BreakerConfig) RemoteOption {
	return func(cfg *remoteConfig) {
		cfg.breaker = b
	}
}

// WithRemoteLogger logs breaker state changes.
func WithRemoteLogger(logger *slog.Logger) RemoteOption {
	return func(cfg *remoteConfig) {
		cfg.logger = logger
	}
}

// NewRemoteStore creates a store backed by the server at baseURL.
func NewRemoteStore(baseURL string, opts ...RemoteOption) (*RemoteStore, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	cfg := remoteConfig{
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: DefaultBreakerConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &RemoteStore{base: base, client: cfg.client, logger: cfg.logger}
	threshold := max(cfg.breaker.ConsecutiveFailures, 1)
	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "agentgraph-remote:" + base.Host,
		MaxRequests: cfg.breaker.MaxRequests,
		Interval:    cfg.breaker.Interval,
		Timeout:     cfg.breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if r.logger != nil {
				r.logger.Warn("circuit breaker state changed",
					slog.String("breaker", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()),
				)
			}
		},
		// Only server-side trouble counts against the breaker; a 404 or a
		// rejected document says nothing about the server's health.
		IsSuccessful: func(err error) bool {
			return err == nil || !agerr.IsRetryable(err)
		},
	})
	return r, nil
}

// State reports the circuit breaker state.
func (r *RemoteStore) State() gobreaker.State {
	return r.breaker.State()
}

// Save implements Store.
func (r *RemoteStore) Save(ctx context.Context, graphID string, data []byte) (Info, error) {
	var info Info
	err := r.call(ctx, http.MethodPut, r.graphPath(graphID), data, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&info)
	})
	if err != nil {
		return Info{}, err
	}
	return info, nil
}

// Load implements Store.
func (r *RemoteStore) Load(ctx context.Context, graphID string) ([]byte, error) {
	var data []byte
	err := r.call(ctx, http.MethodGet, r.graphPath(graphID), nil, func(body io.Reader) error {
		var err error
		data, err = io.ReadAll(body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// List implements Store.
func (r *RemoteStore) List(ctx context.Context) ([]Info, error) {
	infos := []Info{}
	err := r.call(ctx, http.MethodGet, "/graphs", nil, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&infos)
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// Delete implements Store. A graph the server does not have is not an
// error.
func (r *RemoteStore) Delete(ctx context.Context, graphID string) error {
	err := r.call(ctx, http.MethodDelete, r.graphPath(graphID), nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Close implements Store.
func (r *RemoteStore) Close() error {
	r.closed.Store(true)
	r.client.CloseIdleConnections()
	return nil
}

func (r *RemoteStore) graphPath(graphID string) string {
	return "/graphs/" + url.PathEscape(graphID)
}

// call performs one request through the breaker. decode reads a 2xx body.
func (r *RemoteStore) call(ctx context.Context, method, path string, payload []byte, decode func(io.Reader) error) error {
	if r.closed.Load() {
		return ErrStoreClosed
	}

	_, err := r.breaker.Execute(func() (any, error) {
		return nil, r.do(ctx, method, path, payload, decode)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return agerr.Transient(err, method+" "+path)
	default:
		return err
	}
}

func (r *RemoteStore) do(ctx context.Context, method, path string, payload []byte, decode func(io.Reader) error) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		httpErr := &agerr.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
			Method:     method,
			Endpoint:   path,
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", ErrNotFound, httpErr)
		}
		return httpErr
	}

	if decode == nil {
		return nil
	}
	if err := decode(resp.Body); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
