// Package logistics implements employees, trucks and order shipments.
package logistics

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EmployeeService handles a company's delivery staff
type EmployeeService struct {
	employees logistics.EmployeeRepository
	trucks    logistics.TruckRepository
	retailers partner.RetailerRepository
	users     identity.UserRepository
	guard     *access.Guard
	tx        shared.TxManager
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(
	employees logistics.EmployeeRepository,
	trucks logistics.TruckRepository,
	retailers partner.RetailerRepository,
	users identity.UserRepository,
	guard *access.Guard,
	tx shared.TxManager,
	events shared.EventPublisher,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		trucks:    trucks,
		retailers: retailers,
		users:     users,
		guard:     guard,
		tx:        tx,
		events:    events,
		logger:    logger,
	}
}

// Create adds an employee to a company. A linked user account must be in the
// employee group and is bound to the company.
func (s *EmployeeService) Create(ctx context.Context, actor identity.Actor, companyID uuid.UUID, input EmployeeInput) (*EmployeeResponse, error) {
	if _, err := s.guard.AuthorizeCompany(ctx, actor, companyID); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, companyID, input, nil); err != nil {
		return nil, err
	}
	e, err := logistics.NewEmployee(companyID, input.details())
	if err != nil {
		return nil, err
	}
	e.SetCreatedBy(actor.UserID)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.bindUser(ctx, companyID, input.UserID); err != nil {
			return err
		}
		return s.employees.Save(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Employee created", zap.String("employee_id", e.ID.String()), zap.String("company_id", companyID.String()))
	s.publish(ctx, logistics.NewEmployeeEvent(logistics.EventTypeEmployeeAdded, e))
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// GetByID returns an employee of a company the caller can access
func (s *EmployeeService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*EmployeeResponse, error) {
	e, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// List returns the employees of the companies in the caller's scope
func (s *EmployeeService) List(ctx context.Context, actor identity.Actor, companyID *uuid.UUID) ([]EmployeeResponse, error) {
	scope, err := s.guard.ScopeCompanies(ctx, actor, companyID)
	if err != nil {
		return nil, err
	}
	if scope.Empty() {
		return []EmployeeResponse{}, nil
	}
	employees, err := s.employees.FindAll(ctx, scope.Apply(shared.Filter{OrderBy: "created_at", OrderDir: "desc"}))
	if err != nil {
		return nil, err
	}
	return ToEmployeeResponses(employees), nil
}

// Update replaces an employee's details
func (s *EmployeeService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, input EmployeeInput) (*EmployeeResponse, error) {
	e, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if isEmployeeOnly(actor) {
		return nil, shared.ErrForbidden
	}
	if err := s.checkReferences(ctx, e.CompanyID, input, &e.ID); err != nil {
		return nil, err
	}
	previousUser := e.UserID
	if err := e.Update(input.details()); err != nil {
		return nil, err
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if input.UserID != nil && (previousUser == nil || *previousUser != *input.UserID) {
			if err := s.bindUser(ctx, e.CompanyID, input.UserID); err != nil {
				return err
			}
		}
		return s.employees.Save(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// Delete removes an employee
func (s *EmployeeService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	e, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if isEmployeeOnly(actor) {
		return shared.ErrForbidden
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Employee deleted", zap.String("employee_id", id.String()))
	s.publish(ctx, logistics.NewEmployeeEvent(logistics.EventTypeEmployeeRemoved, e))
	return nil
}

// checkReferences verifies that the truck and retailer belong to the company
// and that a linked user is not already another employee
func (s *EmployeeService) checkReferences(ctx context.Context, companyID uuid.UUID, input EmployeeInput, self *uuid.UUID) error {
	if input.TruckID != nil {
		t, err := s.trucks.FindByID(ctx, *input.TruckID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_TRUCK", "Truck not found")
			}
			return err
		}
		if !t.BelongsTo(companyID) {
			return shared.NewDomainError("INVALID_TRUCK", "Truck belongs to another company")
		}
	}
	if input.RetailerID != nil {
		r, err := s.retailers.FindByID(ctx, *input.RetailerID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_RETAILER", "Retailer not found")
			}
			return err
		}
		if !r.BelongsTo(companyID) {
			return shared.NewDomainError("INVALID_RETAILER", "Retailer belongs to another company")
		}
	}
	if input.UserID != nil {
		existing, err := s.employees.FindByUserID(ctx, *input.UserID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil && (self == nil || existing.ID != *self) {
			return shared.NewDomainError("ALREADY_EXISTS", "User is already registered as an employee")
		}
	}
	return nil
}

func (s *EmployeeService) bindUser(ctx context.Context, companyID uuid.UUID, userID *uuid.UUID) error {
	if userID == nil {
		return nil
	}
	u, err := s.users.FindByID(ctx, *userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_USER", "User not found")
		}
		return err
	}
	if !u.HasRole(identity.RoleEmployee) {
		return shared.NewDomainError("INVALID_USER", "User is not in the employee group")
	}
	if u.CompanyID != nil && *u.CompanyID == companyID {
		return nil
	}
	u.AssignCompany(companyID)
	return s.users.Update(ctx, u)
}

func (s *EmployeeService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*logistics.Employee, error) {
	e, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Employee")
		}
		return nil, err
	}
	if _, err := s.guard.AuthorizeCompany(ctx, actor, e.CompanyID); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EmployeeService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish employee event", zap.String("event_type", event.EventType()), zap.Error(err))
	}
}
