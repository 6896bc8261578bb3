package ports

import (
	"context"

	"go.trai.ch/flow/internal/core/domain"
)

// EventSink receives entity notifications.
//
//go:generate go run go.uber.org/mock/mockgen -source=events.go -destination=mocks/mock_events.go -package=mocks
type EventSink interface {
	// Enabled reports whether events should be dispatched at all.
	Enabled() bool

	// Dispatch hands the event over without waiting for delivery.
	// Events are delivered in the order Dispatch was called.
	Dispatch(ctx context.Context, event domain.Event)
}

// EventListener consumes delivered events.
type EventListener interface {
	Handle(ctx context.Context, event domain.Event) error
}
