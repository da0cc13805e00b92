package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/supplychain/backend/internal/domain/shared"
)

// MockEventHandler captures domain events. Services publish into it directly
// and it can also be subscribed to an event bus.
type MockEventHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
}

// NewMockEventHandler subscribes to eventTypes when registered on a bus
func NewMockEventHandler(eventTypes ...string) *MockEventHandler {
	return &MockEventHandler{types: eventTypes}
}

func (h *MockEventHandler) EventTypes() []string { return h.types }

func (h *MockEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

// Publish records events in order and stops at the configured error
func (h *MockEventHandler) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		if err := h.Handle(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Handled returns a copy of the captured events
func (h *MockEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.events)
}

// HandledTypes lists the captured event types in publish order
func (h *MockEventHandler) HandledTypes() []string {
	var types []string
	for _, e := range h.Handled() {
		types = append(types, e.EventType())
	}
	return types
}

func (h *MockEventHandler) HandledCount() int { return len(h.Handled()) }

// SetError makes subsequent Handle and Publish calls fail with err
func (h *MockEventHandler) SetError(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
}

// Reset forgets captured events and any configured error
func (h *MockEventHandler) Reset() {
	h.mu.Lock()
	h.events, h.err = nil, nil
	h.mu.Unlock()
}
