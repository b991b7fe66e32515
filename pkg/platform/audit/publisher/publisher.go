// Package publisher decouples domain logic from audit persistence. In sync
// mode every Emit appends directly to the store; with an async buffer, events
// are queued and drained by a background worker so lifecycle operations never
// block on a slow sink.
package publisher

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	id "geostake/pkg/domain"
	audit "geostake/pkg/platform/audit"
)

// drainTimeout bounds how long Close waits for queued events to flush.
const drainTimeout = 5 * time.Second

type Publisher struct {
	store audit.Store

	inbox  chan audit.Event
	done   chan struct{}
	closed sync.Once
	wg     sync.WaitGroup
}

type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous emission with the given queue size.
// A full queue falls back to a synchronous append rather than dropping.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.inbox = make(chan audit.Event, size)
		}
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, done: make(chan struct{})}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an event, stamping id and timestamp when unset.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.CategoryFor(event.Action)
	}
	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		// Queue full; degrade to a synchronous append.
		return p.store.Append(ctx, event)
	}
}

// List reads back events for an identity. Only meaningful for store-backed
// sinks; broker sinks return what their store mirror holds.
func (p *Publisher) List(ctx context.Context, identity id.Identity) ([]audit.Event, error) {
	return p.store.ListByIdentity(ctx, identity)
}

// Close flushes queued events and stops the worker.
func (p *Publisher) Close() {
	p.closed.Do(func() {
		close(p.done)
		p.wg.Wait()
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	ctx := context.Background()
	for {
		select {
		case event := <-p.inbox:
			// Best effort: the audit trail must not wedge the worker.
			_ = p.store.Append(ctx, event)
		case <-p.done:
			deadline := time.After(drainTimeout)
			for {
				select {
				case event := <-p.inbox:
					_ = p.store.Append(ctx, event)
				case <-deadline:
					return
				default:
					return
				}
			}
		}
	}
}
