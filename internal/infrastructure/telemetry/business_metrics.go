package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/billing"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics turns domain events into counters. It subscribes to the
// event bus like any other handler.
type BusinessMetrics struct {
	ordersPlaced      *Counter
	orderValue        *FloatCounter
	orderTransitions  *Counter
	invoices          *Counter
	invoiceValue      *FloatCounter
	shipmentsByStatus *Counter
}

// NewBusinessMetrics creates the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var err error
	if m.ordersPlaced, err = NewCounter(meter, "orders.placed", "Orders placed by retailers", "{order}"); err != nil {
		return nil, err
	}
	if m.orderValue, err = NewFloatCounter(meter, "orders.placed.amount", "Total amount of placed orders", "{currency}"); err != nil {
		return nil, err
	}
	if m.orderTransitions, err = NewCounter(meter, "orders.status_transitions", "Order status transitions", "{transition}"); err != nil {
		return nil, err
	}
	if m.invoices, err = NewCounter(meter, "invoices.events", "Invoices issued, paid and marked overdue", "{invoice}"); err != nil {
		return nil, err
	}
	if m.invoiceValue, err = NewFloatCounter(meter, "invoices.amount", "Grand total of invoices by event", "{currency}"); err != nil {
		return nil, err
	}
	if m.shipmentsByStatus, err = NewCounter(meter, "shipments.status", "Shipments entering a status", "{shipment}"); err != nil {
		return nil, err
	}
	return m, nil
}

// EventTypes lists the events that feed the counters
func (m *BusinessMetrics) EventTypes() []string {
	return []string{
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderStatusChanged,
		billing.EventTypeInvoiceIssued,
		billing.EventTypeInvoicePaid,
		billing.EventTypeInvoiceOverdue,
		logistics.EventTypeShipmentCreated,
		logistics.EventTypeShipmentStatusChanged,
	}
}

// Handle records the event. Unknown events are ignored.
func (m *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	company := AttrCompanyID.String(event.CompanyID().String())
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		m.ordersPlaced.Inc(ctx, company)
		m.orderValue.Add(ctx, amount(e.TotalAmount), company)
	case *trade.OrderStatusChangedEvent:
		m.orderTransitions.Inc(ctx, company,
			AttrStatusFrom.String(string(e.From)), AttrStatusTo.String(string(e.To)))
	case *billing.InvoiceEvent:
		attrs := []attribute.KeyValue{
			company,
			attribute.String("event_type", e.EventType()),
			AttrPaymentStatus.String(string(e.PaymentStatus)),
		}
		m.invoices.Inc(ctx, attrs...)
		m.invoiceValue.Add(ctx, amount(e.GrandTotal), attrs...)
	case *logistics.ShipmentEvent:
		m.shipmentsByStatus.Inc(ctx, company, AttrStatusTo.String(string(e.To)))
	}
	return nil
}

func amount(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	if f < 0 {
		return 0
	}
	return f
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
