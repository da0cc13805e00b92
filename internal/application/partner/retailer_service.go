// Package partner implements retailer management and retailer self-service profiles.
package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RetailerService handles a company's retailer records
type RetailerService struct {
	retailers partner.RetailerRepository
	guard     *access.Guard
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewRetailerService creates a new RetailerService
func NewRetailerService(retailers partner.RetailerRepository, guard *access.Guard, events shared.EventPublisher, logger *zap.Logger) *RetailerService {
	return &RetailerService{
		retailers: retailers,
		guard:     guard,
		events:    events,
		logger:    logger,
	}
}

// Create adds a retailer to a company
func (s *RetailerService) Create(ctx context.Context, actor identity.Actor, companyID uuid.UUID, input RetailerInput) (*RetailerResponse, error) {
	if _, err := s.guard.AuthorizeCompany(ctx, actor, companyID); err != nil {
		return nil, err
	}
	r, err := partner.NewRetailer(companyID, input.details())
	if err != nil {
		return nil, err
	}
	r.SetCreatedBy(actor.UserID)
	if err := s.retailers.Save(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("Retailer created", zap.String("retailer_id", r.ID.String()), zap.String("company_id", companyID.String()))
	s.publish(ctx, partner.NewRetailerEvent(partner.EventTypeRetailerAdded, r))
	resp := ToRetailerResponse(r)
	return &resp, nil
}

// GetByID returns a retailer of a company the caller can access
func (s *RetailerService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*RetailerResponse, error) {
	r, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToRetailerResponse(r)
	return &resp, nil
}

// List returns the retailers of the companies in the caller's scope
func (s *RetailerService) List(ctx context.Context, actor identity.Actor, filter RetailerListFilter) (*shared.Paginated[RetailerResponse], error) {
	scope, err := s.guard.ScopeCompanies(ctx, actor, filter.CompanyID)
	if err != nil {
		return nil, err
	}
	f := shared.DefaultFilter()
	f.Search = filter.Search
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if scope.Empty() {
		page := shared.NewPaginated([]RetailerResponse{}, 0, f.Page, f.PageSize)
		return &page, nil
	}
	f = scope.Apply(f)

	retailers, err := s.retailers.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.retailers.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToRetailerResponses(retailers), total, f.Page, f.PageSize)
	return &page, nil
}

// Update replaces a retailer's details
func (s *RetailerService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, input RetailerInput) (*RetailerResponse, error) {
	r, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := r.Update(input.details()); err != nil {
		return nil, err
	}
	if err := s.retailers.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToRetailerResponse(r)
	return &resp, nil
}

// Delete removes a retailer
func (s *RetailerService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	r, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.retailers.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Retailer deleted", zap.String("retailer_id", id.String()))
	s.publish(ctx, partner.NewRetailerEvent(partner.EventTypeRetailerRemoved, r))
	return nil
}

func (s *RetailerService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish retailer event", zap.String("event_type", event.EventType()), zap.Error(err))
	}
}

func (s *RetailerService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*partner.Retailer, error) {
	r, err := s.retailers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Retailer")
		}
		return nil, err
	}
	if _, err := s.guard.AuthorizeCompany(ctx, actor, r.CompanyID); err != nil {
		return nil, err
	}
	return r, nil
}
