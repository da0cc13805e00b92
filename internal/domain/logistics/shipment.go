package logistics

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/trade"
)

// ShipmentStatus represents the delivery state of a shipment
type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusAllocated ShipmentStatus = "allocated"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusCancelled ShipmentStatus = "cancelled"
)

// ParseShipmentStatus parses a status name, case-insensitively
func ParseShipmentStatus(s string) (ShipmentStatus, error) {
	status := ShipmentStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown shipment status: %s", s))
	}
	return status, nil
}

// IsValid reports whether the status is known
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentStatusPending, ShipmentStatusAllocated, ShipmentStatusInTransit,
		ShipmentStatusDelivered, ShipmentStatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the shipment still occupies an employee
func (s ShipmentStatus) IsActive() bool {
	return s == ShipmentStatusAllocated || s == ShipmentStatusInTransit
}

// CanTransitionTo checks if the status can move to the target status
func (s ShipmentStatus) CanTransitionTo(target ShipmentStatus) bool {
	switch s {
	case ShipmentStatusPending:
		return target == ShipmentStatusAllocated || target == ShipmentStatusCancelled
	case ShipmentStatusAllocated:
		return target == ShipmentStatusInTransit || target == ShipmentStatusCancelled
	case ShipmentStatusInTransit:
		return target == ShipmentStatusDelivered
	}
	return false
}

// OrderStatus returns the order status a shipment status drives the order to,
// or false when the order is unaffected
func (s ShipmentStatus) OrderStatus() (trade.OrderStatus, bool) {
	switch s {
	case ShipmentStatusInTransit:
		return trade.OrderStatusShipped, true
	case ShipmentStatusDelivered:
		return trade.OrderStatusDelivered, true
	case ShipmentStatusCancelled:
		return trade.OrderStatusCancelled, true
	}
	return "", false
}

// Shipment is the delivery of one order
type Shipment struct {
	shared.CompanyAggregateRoot
	OrderID      uuid.UUID
	EmployeeID   *uuid.UUID
	TruckID      *uuid.UUID
	Status       ShipmentStatus
	ShipmentDate time.Time
	DeliveredAt  *time.Time
	QRCodeKey    string
}

// NewShipment creates a pending shipment for an approved order
func NewShipment(companyID, orderID uuid.UUID) (*Shipment, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company is required")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order is required")
	}
	s := &Shipment{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		OrderID:              orderID,
		Status:               ShipmentStatusPending,
		ShipmentDate:         time.Now(),
	}
	s.AddDomainEvent(NewShipmentEvent(EventTypeShipmentCreated, s, ""))
	return s, nil
}

// Allocate assigns an employee and optionally a truck.
// A shipment can be reallocated until it leaves the warehouse.
func (s *Shipment) Allocate(employeeID uuid.UUID, truckID *uuid.UUID) error {
	if employeeID == uuid.Nil {
		return shared.NewDomainError("INVALID_EMPLOYEE", "Employee is required")
	}
	if s.Status != ShipmentStatusPending && s.Status != ShipmentStatusAllocated {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot allocate shipment in %s status", s.Status))
	}
	if s.Status == ShipmentStatusAllocated && s.EmployeeID != nil && *s.EmployeeID == employeeID && sameID(s.TruckID, truckID) {
		return nil
	}
	from := s.Status
	s.EmployeeID = &employeeID
	s.TruckID = truckID
	s.Status = ShipmentStatusAllocated
	s.Touch()
	s.AddDomainEvent(NewShipmentEvent(EventTypeShipmentAllocated, s, from))
	return nil
}

// ChangeStatus moves the shipment to target. Requesting the current status is a
// no-op and reports changed=false.
func (s *Shipment) ChangeStatus(target ShipmentStatus) (changed bool, err error) {
	if !target.IsValid() {
		return false, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown shipment status: %s", target))
	}
	if s.Status == target {
		return false, nil
	}
	if target == ShipmentStatusAllocated {
		return false, shared.NewDomainError("INVALID_STATE", "Use allocation to assign an employee")
	}
	if !s.Status.CanTransitionTo(target) {
		return false, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change shipment from %s to %s", s.Status, target))
	}
	from := s.Status
	s.Status = target
	if target == ShipmentStatusDelivered {
		now := time.Now()
		s.DeliveredAt = &now
	}
	s.Touch()
	s.AddDomainEvent(NewShipmentEvent(EventTypeShipmentStatusChanged, s, from))
	return true, nil
}

// AttachQRCode records the object key of the shipment's QR payload
func (s *Shipment) AttachQRCode(key string) {
	if s.QRCodeKey == key {
		return
	}
	s.QRCodeKey = key
	s.Touch()
}

// IsAssignedTo reports whether the shipment is allocated to the employee
func (s *Shipment) IsAssignedTo(employeeID uuid.UUID) bool {
	return s.EmployeeID != nil && *s.EmployeeID == employeeID
}
