package logistics

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// EmployeeRepository defines persistence for employees
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Employee, error)
	// FindAll lists employees; the "company_id" filter is supported
	FindAll(ctx context.Context, filter shared.Filter) ([]Employee, error)
	Save(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// CountAvailable counts employees of a company without an active shipment
	CountAvailable(ctx context.Context, companyID *uuid.UUID) (int64, error)
}

// TruckRepository defines persistence for trucks
type TruckRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Truck, error)
	// FindAll lists trucks; filters "company_id" and "is_available" are supported
	FindAll(ctx context.Context, filter shared.Filter) ([]Truck, error)
	Save(ctx context.Context, truck *Truck) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByLicensePlate(ctx context.Context, companyID uuid.UUID, plate string) (bool, error)
}

// ShipmentRepository defines persistence for shipments
type ShipmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Shipment, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*Shipment, error)
	// FindAll lists shipments; filters "company_id", "employee_id" and "status" are supported
	FindAll(ctx context.Context, filter shared.Filter) ([]Shipment, error)
	Save(ctx context.Context, shipment *Shipment) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
