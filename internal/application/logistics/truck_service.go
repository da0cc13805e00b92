package logistics

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TruckService handles a company's delivery vehicles
type TruckService struct {
	trucks logistics.TruckRepository
	guard  *access.Guard
	events shared.EventPublisher
	logger *zap.Logger
}

// NewTruckService creates a new TruckService
func NewTruckService(trucks logistics.TruckRepository, guard *access.Guard, events shared.EventPublisher, logger *zap.Logger) *TruckService {
	return &TruckService{trucks: trucks, guard: guard, events: events, logger: logger}
}

// Create registers a truck; license plates are unique within a company
func (s *TruckService) Create(ctx context.Context, actor identity.Actor, companyID uuid.UUID, input TruckInput) (*TruckResponse, error) {
	if _, err := s.guard.AuthorizeCompany(ctx, actor, companyID); err != nil {
		return nil, err
	}
	t, err := logistics.NewTruck(companyID, input.LicensePlate, input.Capacity)
	if err != nil {
		return nil, err
	}
	exists, err := s.trucks.ExistsByLicensePlate(ctx, companyID, t.LicensePlate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Truck with this license plate already exists")
	}
	t.SetCreatedBy(actor.UserID)
	if err := s.trucks.Save(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("Truck registered", zap.String("truck_id", t.ID.String()), zap.String("license_plate", t.LicensePlate))
	s.publish(ctx, logistics.NewTruckEvent(logistics.EventTypeTruckAdded, t))
	resp := ToTruckResponse(t)
	return &resp, nil
}

// GetByID returns a truck of a company the caller can access
func (s *TruckService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*TruckResponse, error) {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToTruckResponse(t)
	return &resp, nil
}

// List returns the trucks in the caller's scope, optionally only available ones
func (s *TruckService) List(ctx context.Context, actor identity.Actor, companyID *uuid.UUID, available *bool) ([]TruckResponse, error) {
	scope, err := s.guard.ScopeCompanies(ctx, actor, companyID)
	if err != nil {
		return nil, err
	}
	if scope.Empty() {
		return []TruckResponse{}, nil
	}
	f := scope.Apply(shared.Filter{OrderBy: "license_plate", OrderDir: "asc"})
	if available != nil {
		f = f.With("is_available", *available)
	}
	trucks, err := s.trucks.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToTruckResponses(trucks), nil
}

// Update changes a truck's capacity and availability
func (s *TruckService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, input TruckUpdateInput) (*TruckResponse, error) {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := t.Update(input.Capacity, input.IsAvailable); err != nil {
		return nil, err
	}
	if err := s.trucks.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTruckResponse(t)
	return &resp, nil
}

// Delete removes a truck
func (s *TruckService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.trucks.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, logistics.NewTruckEvent(logistics.EventTypeTruckRemoved, t))
	return nil
}

func (s *TruckService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish truck event", zap.String("event_type", event.EventType()), zap.Error(err))
	}
}

func (s *TruckService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*logistics.Truck, error) {
	t, err := s.trucks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Truck")
		}
		return nil, err
	}
	if _, err := s.guard.AuthorizeCompany(ctx, actor, t.CompanyID); err != nil {
		return nil, err
	}
	return t, nil
}
