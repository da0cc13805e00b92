package company

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
)

// ConnectionStatus is the state of a retailer's request to trade with a company
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionApproved ConnectionStatus = "approved"
	ConnectionRejected ConnectionStatus = "rejected"
)

// IsValid reports whether the status is known
func (s ConnectionStatus) IsValid() bool {
	switch s {
	case ConnectionPending, ConnectionApproved, ConnectionRejected:
		return true
	}
	return false
}

// IsOpen reports whether the connection blocks a new request
func (s ConnectionStatus) IsOpen() bool {
	return s == ConnectionPending || s == ConnectionApproved
}

// Connection links a retailer profile to a company it buys from
type Connection struct {
	shared.BaseAggregateRoot
	CompanyID         uuid.UUID
	RetailerProfileID uuid.UUID
	Status            ConnectionStatus
	RequestMessage    string
	CreditLimit       decimal.Decimal
	PaymentTerms      string
	ApprovedAt        *time.Time
	ApprovedBy        *uuid.UUID
}

// NewConnectionRequest opens a pending connection
func NewConnectionRequest(companyID, profileID uuid.UUID, message string) (*Connection, error) {
	if companyID == uuid.Nil || profileID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONNECTION", "Company and retailer profile are required")
	}
	message = strings.TrimSpace(message)
	if len(message) > 1000 {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Request message cannot exceed 1000 characters")
	}
	c := &Connection{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyID:         companyID,
		RetailerProfileID: profileID,
		Status:            ConnectionPending,
		RequestMessage:    message,
		CreditLimit:       decimal.Zero,
	}
	c.AddDomainEvent(NewConnectionEvent(EventTypeConnectionRequested, c))
	return c, nil
}

// Approve accepts the request with trading terms
func (c *Connection) Approve(approver uuid.UUID, creditLimit decimal.Decimal, paymentTerms string) error {
	if c.Status != ConnectionPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending requests can be approved")
	}
	if creditLimit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	now := time.Now()
	c.Status = ConnectionApproved
	c.CreditLimit = creditLimit
	c.PaymentTerms = strings.TrimSpace(paymentTerms)
	c.ApprovedAt = &now
	c.ApprovedBy = &approver
	c.Touch()
	c.AddDomainEvent(NewConnectionEvent(EventTypeConnectionApproved, c))
	return nil
}

// Reject declines the request
func (c *Connection) Reject() error {
	if c.Status != ConnectionPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending requests can be rejected")
	}
	c.Status = ConnectionRejected
	c.Touch()
	c.AddDomainEvent(NewConnectionEvent(EventTypeConnectionRejected, c))
	return nil
}
