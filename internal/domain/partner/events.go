package partner

import (
	"github.com/supplychain/backend/internal/domain/shared"
)

// AggregateTypeRetailer is the aggregate type name of retailers
const AggregateTypeRetailer = "Retailer"

const (
	EventTypeRetailerAdded   = "partner.retailer.added"
	EventTypeRetailerRemoved = "partner.retailer.removed"
)

// RetailerEvent is published when a retailer joins or leaves a company
type RetailerEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewRetailerEvent creates a RetailerEvent of the given type
func NewRetailerEvent(eventType string, r *Retailer) *RetailerEvent {
	return &RetailerEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeRetailer, r.ID, r.CompanyID),
		Name:            r.Name,
	}
}
