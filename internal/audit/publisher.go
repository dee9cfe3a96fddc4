package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Publisher routes audit events into a store, either synchronously or through
// a buffered worker. Audit publishing is best-effort by design: a full buffer
// or failed append is logged, never surfaced to the caller.
type Publisher struct {
	store  Store
	logger *slog.Logger

	buffer chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to a buffered background worker with
// the given capacity.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.buffer = make(chan Event, size)
	}
}

// NewPublisher constructs a publisher. Without options every Emit appends
// synchronously.
func NewPublisher(store Store, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an audit event. Missing IDs and timestamps are filled in.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if p.buffer == nil {
		if err := p.store.Append(ctx, event); err != nil {
			p.logger.WarnContext(ctx, "audit append failed",
				"action", event.Action,
				"subject", event.Subject,
				"error", err,
			)
		}
		return
	}

	select {
	case p.buffer <- event:
	default:
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
			"subject", event.Subject,
		)
	}
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.buffer {
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Warn("audit append failed",
				"action", event.Action,
				"subject", event.Subject,
				"error", err,
			)
		}
	}
}

// Close flushes buffered events and stops the worker. Safe to call on a
// synchronous publisher and safe to call twice.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.buffer != nil {
			close(p.buffer)
			p.wg.Wait()
		}
	})
}
