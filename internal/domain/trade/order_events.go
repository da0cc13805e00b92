package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
)

// AggregateTypeOrder is the aggregate type name of orders
const AggregateTypeOrder = "Order"

const (
	EventTypeOrderPlaced        = "trade.order.placed"
	EventTypeOrderStatusChanged = "trade.order.status_changed"
)

// OrderPlacedEvent is published when a retailer places an order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	RetailerID  uuid.UUID       `json:"retailer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// NewOrderPlacedEvent creates an OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID, o.CompanyID),
		RetailerID:      o.RetailerID,
		TotalAmount:     o.TotalAmount,
		ItemCount:       len(o.Items),
	}
}

// OrderStatusChangedEvent is published on every status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	RetailerID uuid.UUID   `json:"retailer_id"`
	From       OrderStatus `json:"from"`
	To         OrderStatus `json:"to"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID, o.CompanyID),
		RetailerID:      o.RetailerID,
		From:            from,
		To:              o.Status,
	}
}
