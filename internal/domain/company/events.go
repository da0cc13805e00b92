package company

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

const (
	AggregateTypeCompany    = "Company"
	AggregateTypeConnection = "CompanyRetailerConnection"
)

const (
	EventTypeCompanyCreated      = "company.created"
	EventTypeConnectionRequested = "company.connection.requested"
	EventTypeConnectionApproved  = "company.connection.approved"
	EventTypeConnectionRejected  = "company.connection.rejected"
)

// CompanyCreatedEvent is published when a company is registered
type CompanyCreatedEvent struct {
	shared.BaseDomainEvent
	Name    string    `json:"name"`
	OwnerID uuid.UUID `json:"owner_id"`
}

// NewCompanyCreatedEvent creates a CompanyCreatedEvent
func NewCompanyCreatedEvent(c *Company) *CompanyCreatedEvent {
	return &CompanyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyCreated, AggregateTypeCompany, c.ID, c.ID),
		Name:            c.Name,
		OwnerID:         c.OwnerID,
	}
}

// ConnectionEvent carries connection state changes
type ConnectionEvent struct {
	shared.BaseDomainEvent
	RetailerProfileID uuid.UUID        `json:"retailer_profile_id"`
	Status            ConnectionStatus `json:"status"`
}

// NewConnectionEvent creates a ConnectionEvent of the given type
func NewConnectionEvent(eventType string, c *Connection) *ConnectionEvent {
	return &ConnectionEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(eventType, AggregateTypeConnection, c.ID, c.CompanyID),
		RetailerProfileID: c.RetailerProfileID,
		Status:            c.Status,
	}
}
