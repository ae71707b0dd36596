package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrBusClosed is returned when publishing to a closed bus.
var ErrBusClosed = errors.New("event bus is closed")

// Handler receives an event. A returned error is reported through
// BusConfig.OnError and Publish; it never stops delivery to later subscribers.
type Handler func(ctx context.Context, evt Event) error

// Subscription represents an active subscription.
type Subscription interface {
	// Unsubscribe removes the subscription.
	Unsubscribe()

	// Pause temporarily stops delivery.
	Pause()

	// Resume continues delivery after pause.
	Resume()

	// IsPaused returns true if the subscription is paused.
	IsPaused() bool
}

// BusConfig configures bus behavior.
type BusConfig struct {
	// MaxSubscribers limits total subscriptions.
	// Default: 0 (unlimited)
	MaxSubscribers int

	// OnError is called when a handler returns an error.
	OnError func(evt Event, subscriberID string, err error)
}

// Bus delivers events synchronously, in subscription order, on the
// publishing goroutine. Handlers must not publish to the same bus.
type Bus struct {
	config BusConfig

	mu   sync.RWMutex
	subs []*subscription

	nextID atomic.Int64
	closed atomic.Bool
}

// NewBus creates a new synchronous event bus.
func NewBus(config BusConfig) *Bus {
	return &Bus{config: config}
}

type subscription struct {
	id      string
	types   map[string]struct{} // empty = all types
	handler Handler
	paused  atomic.Bool
	bus     *Bus
}

func (s *subscription) matches(eventType string) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// Publish delivers evt to every matching, unpaused subscriber. Handler
// errors are joined into the returned error.
func (b *Bus) Publish(ctx context.Context, evt Event) error {
	if b == nil {
		return nil
	}
	if b.closed.Load() {
		return fmt.Errorf("publish %s: %w", evt.Type, ErrBusClosed)
	}

	b.mu.RLock()
	subs := make([]*subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.matches(evt.Type) {
			subs = append(subs, sub)
		}
	}
	b.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if sub.paused.Load() {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := sub.handler(ctx, evt.clone()); err != nil {
			if b.config.OnError != nil {
				b.config.OnError(evt, sub.id, err)
			}
			errs = append(errs, fmt.Errorf("subscriber %s: %w", sub.id, err))
		}
	}
	return errors.Join(errs...)
}

// Subscribe creates a subscription for specific event types. It returns
// nil when the bus is closed or the subscriber limit is reached.
func (b *Bus) Subscribe(types []string, handler Handler) Subscription {
	sub := b.subscribe(types, handler)
	if sub == nil {
		return nil
	}
	return sub
}

// SubscribeAll subscribes to all events.
func (b *Bus) SubscribeAll(handler Handler) Subscription {
	return b.Subscribe(nil, handler)
}

func (b *Bus) subscribe(types []string, handler Handler) *subscription {
	if b.closed.Load() || handler == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.config.MaxSubscribers > 0 && len(b.subs) >= b.config.MaxSubscribers {
		return nil
	}

	sub := &subscription{
		id:      fmt.Sprintf("sub-%d", b.nextID.Add(1)),
		types:   make(map[string]struct{}, len(types)),
		handler: handler,
		bus:     b,
	}
	for _, t := range types {
		sub.types[t] = struct{}{}
	}
	b.subs = append(b.subs, sub)
	return sub
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close shuts down the bus and drops all subscriptions.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	b.mu.Lock()
	b.subs = nil
	b.mu.Unlock()
	return nil
}

// Unsubscribe removes the subscription.
func (s *subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	for i, sub := range s.bus.subs {
		if sub == s {
			s.bus.subs = append(s.bus.subs[:i], s.bus.subs[i+1:]...)
			return
		}
	}
}

// Pause temporarily stops delivery.
func (s *subscription) Pause() {
	s.paused.Store(true)
}

// Resume continues delivery after pause.
func (s *subscription) Resume() {
	s.paused.Store(false)
}

// IsPaused returns true if the subscription is paused.
func (s *subscription) IsPaused() bool {
	return s.paused.Load()
}
