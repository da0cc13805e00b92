package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/billing"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/trade"
	"github.com/supplychain/backend/tests/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func orderEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, trade.AggregateTypeOrder, uuid.New(), uuid.New())
	return &e
}

func TestInMemoryEventBus_Routing(t *testing.T) {
	tests := []struct {
		name      string
		subscribe []string // nil subscribes to everything
		publish   []string
		want      []string
	}{
		{
			name:      "matching type",
			subscribe: []string{trade.EventTypeOrderPlaced},
			publish:   []string{trade.EventTypeOrderPlaced, trade.EventTypeOrderPlaced},
			want:      []string{trade.EventTypeOrderPlaced, trade.EventTypeOrderPlaced},
		},
		{
			name:      "other types are skipped",
			subscribe: []string{billing.EventTypeInvoicePaid},
			publish:   []string{trade.EventTypeOrderPlaced, billing.EventTypeInvoicePaid},
			want:      []string{billing.EventTypeInvoicePaid},
		},
		{
			name:    "wildcard sees every event",
			publish: []string{logistics.EventTypeShipmentCreated, trade.EventTypeOrderStatusChanged},
			want:    []string{logistics.EventTypeShipmentCreated, trade.EventTypeOrderStatusChanged},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewInMemoryEventBus(zap.NewNop())
			h := testutil.NewMockEventHandler(tt.subscribe...)
			bus.Subscribe(h)

			var events []shared.DomainEvent
			for _, typ := range tt.publish {
				events = append(events, orderEvent(typ))
			}
			require.NoError(t, bus.Publish(context.Background(), events...))
			assert.Equal(t, tt.want, h.HandledTypes())
		})
	}
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := testutil.NewMockEventHandler(trade.EventTypeOrderPlaced)
	bus.Subscribe(h, billing.EventTypeInvoiceIssued)

	assert.Zero(t, bus.HandlerCount(trade.EventTypeOrderPlaced))
	assert.Equal(t, 1, bus.HandlerCount(billing.EventTypeInvoiceIssued))
}

func TestInMemoryEventBus_FailingHandlerDoesNotStopOthers(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := testutil.NewMockEventHandler(trade.EventTypeOrderPlaced)
	failing.SetError(assert.AnError)
	healthy := testutil.NewMockEventHandler(trade.EventTypeOrderPlaced)
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), orderEvent(trade.EventTypeOrderPlaced)))

	assert.Equal(t, 1, failing.HandledCount())
	assert.Equal(t, 1, healthy.HandledCount())
	assert.Equal(t, 1, logs.FilterMessage("handler failed to process event").Len())
}

type panickingHandler struct{}

func (panickingHandler) Handle(context.Context, shared.DomainEvent) error { panic("boom") }
func (panickingHandler) EventTypes() []string                               { return nil }

func TestInMemoryEventBus_RecoversHandlerPanic(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	after := testutil.NewMockEventHandler(trade.EventTypeOrderPlaced)
	bus.Subscribe(panickingHandler{}, trade.EventTypeOrderPlaced)
	bus.Subscribe(after)

	require.NoError(t, bus.Publish(context.Background(), orderEvent(trade.EventTypeOrderPlaced)))

	assert.Equal(t, 1, after.HandledCount())
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].ContextMap()["error"], "handler panicked")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := testutil.NewMockEventHandler(trade.EventTypeOrderPlaced, billing.EventTypeInvoicePaid)
	wildcard := testutil.NewMockEventHandler()
	bus.Subscribe(h)
	bus.Subscribe(wildcard)
	assert.Equal(t, 2, bus.HandlerCount(trade.EventTypeOrderPlaced))

	bus.Unsubscribe(h)
	assert.Equal(t, 1, bus.HandlerCount(trade.EventTypeOrderPlaced))
	assert.Equal(t, 1, bus.HandlerCount(billing.EventTypeInvoicePaid))

	require.NoError(t, bus.Publish(context.Background(), orderEvent(trade.EventTypeOrderPlaced)))
	assert.Zero(t, h.HandledCount())
	assert.Equal(t, 1, wildcard.HandledCount())
}

func TestInMemoryEventBus_Lifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	assert.False(t, bus.IsRunning())

	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.IsRunning())

	require.NoError(t, bus.Stop(context.Background()))
	assert.False(t, bus.IsRunning())
}
