// Package events delivers entity notifications to listeners in dispatch order.
package events

import (
	"context"
	"errors"
	"io"
	"sync"

	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
)

const defaultQueueSize = 256

// Dispatcher implements ports.EventSink with a buffered queue drained by a single goroutine.
// Dispatch returns as soon as the event is queued; listeners see events in dispatch order.
type Dispatcher struct {
	enabled   bool
	log       ports.Logger
	listeners []ports.EventListener

	mu     sync.RWMutex
	closed bool
	queue  chan domain.Event
	done   chan struct{}
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithQueueSize sets the queue capacity. Dispatch blocks while the queue is full.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan domain.Event, n)
		}
	}
}

// WithListeners registers listeners in delivery order.
func WithListeners(listeners ...ports.EventListener) Option {
	return func(d *Dispatcher) {
		d.listeners = append(d.listeners, listeners...)
	}
}

// Disabled makes the dispatcher report Enabled() == false. Callers then skip dispatching.
func Disabled() Option {
	return func(d *Dispatcher) {
		d.enabled = false
	}
}

// NewDispatcher creates and starts a dispatcher.
func NewDispatcher(log ports.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		enabled: true,
		log:     log,
		queue:   make(chan domain.Event, defaultQueueSize),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	go d.run()
	return d
}

// Enabled reports whether events should be dispatched.
func (d *Dispatcher) Enabled() bool {
	return d.enabled
}

// Dispatch queues the event. Events dispatched after Close, or while ctx is cancelled and the
// queue is full, are dropped with a warning.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("event dropped, dispatcher closed", "event_id", event.ID, "kind", event.Kind)
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
		d.log.Warn("event dropped", "event_id", event.ID, "kind", event.Kind, "error", ctx.Err())
	}
}

// Close stops accepting events, waits until every queued event was delivered and then closes
// the listeners that hold resources.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done

	var errs []error
	for _, l := range d.listeners {
		if c, ok := l.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for event := range d.queue {
		for _, l := range d.listeners {
			if err := l.Handle(context.Background(), event); err != nil {
				d.log.Error(err, "event_id", event.ID, "kind", event.Kind, "entity_id", event.EntityID)
			}
		}
	}
}
