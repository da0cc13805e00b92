package logistics

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// AggregateTypeShipment is the aggregate type name of shipments
const AggregateTypeShipment = "Shipment"

const (
	EventTypeShipmentCreated       = "logistics.shipment.created"
	EventTypeShipmentAllocated     = "logistics.shipment.allocated"
	EventTypeShipmentStatusChanged = "logistics.shipment.status_changed"
)

// ShipmentEvent is published when a shipment is created, allocated or moves status
type ShipmentEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID      `json:"order_id"`
	EmployeeID *uuid.UUID     `json:"employee_id,omitempty"`
	From       ShipmentStatus `json:"from,omitempty"`
	To         ShipmentStatus `json:"to"`
}

// NewShipmentEvent creates a ShipmentEvent of the given type
func NewShipmentEvent(eventType string, s *Shipment, from ShipmentStatus) *ShipmentEvent {
	return &ShipmentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeShipment, s.ID, s.CompanyID),
		OrderID:         s.OrderID,
		EmployeeID:      s.EmployeeID,
		From:            from,
		To:              s.Status,
	}
}

// AggregateTypeEmployee is the aggregate type name of employees
const AggregateTypeEmployee = "Employee"

const (
	EventTypeEmployeeAdded   = "logistics.employee.added"
	EventTypeEmployeeRemoved = "logistics.employee.removed"
)

// EmployeeEvent is published when an employee joins or leaves a company
type EmployeeEvent struct {
	shared.BaseDomainEvent
	UserID *uuid.UUID `json:"user_id,omitempty"`
}

// NewEmployeeEvent creates an EmployeeEvent of the given type
func NewEmployeeEvent(eventType string, e *Employee) *EmployeeEvent {
	return &EmployeeEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeEmployee, e.ID, e.CompanyID),
		UserID:          e.UserID,
	}
}

// AggregateTypeTruck is the aggregate type name of trucks
const AggregateTypeTruck = "Truck"

const (
	EventTypeTruckAdded   = "logistics.truck.added"
	EventTypeTruckRemoved = "logistics.truck.removed"
)

// TruckEvent is published when a truck joins or leaves a fleet
type TruckEvent struct {
	shared.BaseDomainEvent
	LicensePlate string `json:"license_plate"`
}

// NewTruckEvent creates a TruckEvent of the given type
func NewTruckEvent(eventType string, t *Truck) *TruckEvent {
	return &TruckEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeTruck, t.ID, t.CompanyID),
		LicensePlate:    t.LicensePlate,
	}
}
