package logistics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// QRCodePrefix is the object key prefix of stored QR payloads
const QRCodePrefix = "qrcodes/"

// OrderLifecycle applies order status transitions with their stock effects
type OrderLifecycle interface {
	ApplyStatus(ctx context.Context, order *trade.Order, target trade.OrderStatus) (bool, error)
	PublishEvents(ctx context.Context, order *trade.Order)
}

// ObjectStorage stores QR payloads and hands out download links
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// ShipmentService handles order approval, allocation and delivery tracking
type ShipmentService struct {
	shipments logistics.ShipmentRepository
	employees logistics.EmployeeRepository
	trucks    logistics.TruckRepository
	orders    trade.OrderRepository
	lifecycle OrderLifecycle
	storage   ObjectStorage
	guard     *access.Guard
	tx        shared.TxManager
	events    shared.EventPublisher
	logger    *zap.Logger
}

// ShipmentServiceDeps groups the collaborators of ShipmentService
type ShipmentServiceDeps struct {
	Shipments logistics.ShipmentRepository
	Employees logistics.EmployeeRepository
	Trucks    logistics.TruckRepository
	Orders    trade.OrderRepository
	Lifecycle OrderLifecycle
	Storage   ObjectStorage
	Guard     *access.Guard
	Tx        shared.TxManager
	Events    shared.EventPublisher
	Logger    *zap.Logger
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(deps ShipmentServiceDeps) *ShipmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShipmentService{
		shipments: deps.Shipments,
		employees: deps.Employees,
		trucks:    deps.Trucks,
		orders:    deps.Orders,
		lifecycle: deps.Lifecycle,
		storage:   deps.Storage,
		guard:     deps.Guard,
		tx:        deps.Tx,
		events:    deps.Events,
		logger:    logger,
	}
}

// ApproveOrder confirms a pending order and opens a pending shipment for it.
// Approving an order that already has a shipment returns that shipment.
func (s *ShipmentService) ApproveOrder(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*ShipmentResponse, error) {
	if isEmployeeOnly(actor) {
		return nil, shared.ErrForbidden
	}
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.AuthorizeCompany(ctx, actor, order.CompanyID); err != nil {
		return nil, err
	}

	existing, err := s.shipments.FindByOrderID(ctx, order.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		resp := ToShipmentResponse(existing)
		return &resp, nil
	}
	if order.Status != trade.OrderStatusPending && order.Status != trade.OrderStatusConfirmed {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot approve an order in %s status", order.Status))
	}

	shipment, err := logistics.NewShipment(order.CompanyID, order.ID)
	if err != nil {
		return nil, err
	}
	shipment.SetCreatedBy(actor.UserID)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.lifecycle.ApplyStatus(ctx, order, trade.OrderStatusConfirmed); err != nil {
			return err
		}
		return s.shipments.Save(ctx, shipment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order approved",
		zap.String("order_id", order.ID.String()),
		zap.String("shipment_id", shipment.ID.String()),
	)
	s.lifecycle.PublishEvents(ctx, order)
	s.publish(ctx, shipment)
	resp := ToShipmentResponse(shipment)
	return &resp, nil
}

// Allocate assigns an employee and the employee's truck to a shipment. The
// truck is marked unavailable; a truck released by reallocation is freed.
func (s *ShipmentService) Allocate(ctx context.Context, actor identity.Actor, shipmentID, employeeID uuid.UUID) (*ShipmentResponse, error) {
	if isEmployeeOnly(actor) {
		return nil, shared.ErrForbidden
	}
	shipment, err := s.load(ctx, actor, shipmentID)
	if err != nil {
		return nil, err
	}
	employee, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Employee")
		}
		return nil, err
	}
	if !employee.BelongsTo(shipment.CompanyID) {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee belongs to another company")
	}
	if err := s.ensureIdle(ctx, employee.ID, shipment.ID); err != nil {
		return nil, err
	}

	var truck *logistics.Truck
	if employee.TruckID != nil {
		truck, err = s.trucks.FindByID(ctx, *employee.TruckID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_TRUCK", "Employee's truck no longer exists")
			}
			return nil, err
		}
		keeps := shipment.TruckID != nil && *shipment.TruckID == truck.ID
		if !truck.IsAvailable && !keeps {
			return nil, shared.NewDomainError("TRUCK_UNAVAILABLE",
				fmt.Sprintf("Truck %s is already out on a delivery", truck.LicensePlate))
		}
	}

	previousTruck := shipment.TruckID
	if err := shipment.Allocate(employee.ID, employee.TruckID); err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if previousTruck != nil && (truck == nil || *previousTruck != truck.ID) {
			if err := s.freeTruck(ctx, *previousTruck); err != nil {
				return err
			}
		}
		if truck != nil && truck.IsAvailable {
			truck.Occupy()
			if err := s.trucks.Save(ctx, truck); err != nil {
				return err
			}
		}
		return s.shipments.Save(ctx, shipment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Shipment allocated",
		zap.String("shipment_id", shipment.ID.String()),
		zap.String("employee_id", employee.ID.String()),
	)
	s.publish(ctx, shipment)
	resp := ToShipmentResponse(shipment)
	return &resp, nil
}

// UpdateStatus moves a shipment along and drives its order: in_transit ships
// the order, delivered delivers it and cancelled cancels it. Delivery and
// cancellation free the truck. Employees may only update their own shipments.
func (s *ShipmentService) UpdateStatus(ctx context.Context, actor identity.Actor, id uuid.UUID, status string) (*ShipmentResponse, error) {
	target, err := logistics.ParseShipmentStatus(status)
	if err != nil {
		return nil, err
	}
	shipment, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	var order *trade.Order
	var changed bool
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		changed, err = shipment.ChangeStatus(target)
		if err != nil || !changed {
			return err
		}
		if orderStatus, ok := target.OrderStatus(); ok {
			order, err = s.loadOrder(ctx, shipment.OrderID)
			if err != nil {
				return err
			}
			if _, err := s.lifecycle.ApplyStatus(ctx, order, orderStatus); err != nil {
				return err
			}
		}
		if shipment.TruckID != nil && (target == logistics.ShipmentStatusDelivered || target == logistics.ShipmentStatusCancelled) {
			if err := s.freeTruck(ctx, *shipment.TruckID); err != nil {
				return err
			}
		}
		return s.shipments.Save(ctx, shipment)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("Shipment status changed",
			zap.String("shipment_id", shipment.ID.String()),
			zap.String("status", string(shipment.Status)),
		)
		if order != nil {
			s.lifecycle.PublishEvents(ctx, order)
		}
		s.publish(ctx, shipment)
	}
	resp := ToShipmentResponse(shipment)
	return &resp, nil
}

// List returns the shipments of the companies in the caller's scope
func (s *ShipmentService) List(ctx context.Context, actor identity.Actor, filter ShipmentListFilter) (*shared.Paginated[ShipmentResponse], error) {
	f := shared.DefaultFilter()
	f.OrderBy = "shipment_date"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		status, err := logistics.ParseShipmentStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		f = f.With("status", status)
	}
	scope, err := s.guard.ScopeCompanies(ctx, actor, filter.CompanyID)
	if err != nil {
		return nil, err
	}
	if scope.Empty() {
		page := shared.NewPaginated([]ShipmentResponse{}, 0, f.Page, f.PageSize)
		return &page, nil
	}
	f = scope.Apply(f)

	shipments, err := s.shipments.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.shipments.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToShipmentResponses(shipments), total, f.Page, f.PageSize)
	return &page, nil
}

// ListMine returns the shipments allocated to the calling employee
func (s *ShipmentService) ListMine(ctx context.Context, actor identity.Actor) ([]ShipmentResponse, error) {
	if !actor.HasRole(identity.RoleEmployee) {
		return nil, shared.ErrForbidden
	}
	employee, err := s.callerEmployee(ctx, actor)
	if err != nil {
		return nil, err
	}
	f := shared.Filter{OrderBy: "shipment_date", OrderDir: "desc"}.With("employee_id", employee.ID)
	shipments, err := s.shipments.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToShipmentResponses(shipments), nil
}

// StoreQRCode stores a QR payload under qrcodes/<uuid>.txt, records the key on
// the shipment when one is given and returns a presigned download link.
func (s *ShipmentService) StoreQRCode(ctx context.Context, actor identity.Actor, input QRCodeInput) (*QRCodeResponse, error) {
	if strings.TrimSpace(input.Payload) == "" {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "QR payload cannot be empty")
	}
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}
	var shipment *logistics.Shipment
	if input.ShipmentID != nil {
		var err error
		shipment, err = s.load(ctx, actor, *input.ShipmentID)
		if err != nil {
			return nil, err
		}
	}

	key := QRCodePrefix + uuid.New().String() + ".txt"
	if err := s.storage.Upload(ctx, key, []byte(input.Payload), "text/plain; charset=utf-8"); err != nil {
		return nil, fmt.Errorf("store qr code: %w", err)
	}
	if shipment != nil {
		shipment.AttachQRCode(key)
		if err := s.shipments.Save(ctx, shipment); err != nil {
			return nil, err
		}
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, 0)
	if err != nil {
		return nil, fmt.Errorf("presign qr code: %w", err)
	}
	s.logger.Info("QR code stored", zap.String("key", key))
	return &QRCodeResponse{Key: key, DownloadURL: url, ExpiresAt: expiresAt}, nil
}

// ensureIdle rejects employees that already carry another active shipment
func (s *ShipmentService) ensureIdle(ctx context.Context, employeeID, shipmentID uuid.UUID) error {
	f := shared.Filter{}.
		With("employee_id", employeeID).
		With("status", []logistics.ShipmentStatus{logistics.ShipmentStatusAllocated, logistics.ShipmentStatusInTransit})
	active, err := s.shipments.FindAll(ctx, f)
	if err != nil {
		return err
	}
	for _, other := range active {
		if other.ID != shipmentID {
			return shared.NewDomainError("EMPLOYEE_BUSY", "Employee already has an active shipment")
		}
	}
	return nil
}

func (s *ShipmentService) freeTruck(ctx context.Context, truckID uuid.UUID) error {
	truck, err := s.trucks.FindByID(ctx, truckID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if truck.IsAvailable {
		return nil
	}
	truck.Free()
	return s.trucks.Save(ctx, truck)
}

// load fetches a shipment; company staff need access to its company and
// employees must be the assignee
func (s *ShipmentService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*logistics.Shipment, error) {
	shipment, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Shipment")
		}
		return nil, err
	}
	if isEmployeeOnly(actor) {
		employee, err := s.callerEmployee(ctx, actor)
		if err != nil {
			return nil, err
		}
		if !shipment.IsAssignedTo(employee.ID) {
			return nil, shared.ErrForbidden
		}
		return shipment, nil
	}
	if _, err := s.guard.AuthorizeCompany(ctx, actor, shipment.CompanyID); err != nil {
		return nil, err
	}
	return shipment, nil
}

func (s *ShipmentService) callerEmployee(ctx context.Context, actor identity.Actor) (*logistics.Employee, error) {
	employee, err := s.employees.FindByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Employee")
		}
		return nil, err
	}
	return employee, nil
}

func (s *ShipmentService) loadOrder(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Order")
		}
		return nil, err
	}
	return order, nil
}

func (s *ShipmentService) publish(ctx context.Context, shipment *logistics.Shipment) {
	if err := shared.PublishAndClear(ctx, s.events, shipment); err != nil {
		s.logger.Warn("Failed to publish shipment events", zap.String("shipment_id", shipment.ID.String()), zap.Error(err))
	}
}

func isEmployeeOnly(actor identity.Actor) bool {
	return actor.HasRole(identity.RoleEmployee) && !actor.IsAdmin() && !actor.HasRole(identity.RoleManufacturer)
}
