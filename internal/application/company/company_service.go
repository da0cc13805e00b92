// Package company implements company management and retailer connection requests.
package company

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/company"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CompanyService handles company CRUD
type CompanyService struct {
	companies company.CompanyRepository
	products  catalog.ProductRepository
	guard     *access.Guard
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	companies company.CompanyRepository,
	products catalog.ProductRepository,
	guard *access.Guard,
	events shared.EventPublisher,
	logger *zap.Logger,
) *CompanyService {
	return &CompanyService{
		companies: companies,
		products:  products,
		guard:     guard,
		events:    events,
		logger:    logger,
	}
}

// Create registers a company owned by the caller
func (s *CompanyService) Create(ctx context.Context, actor identity.Actor, input CompanyInput) (*CompanyResponse, error) {
	if !actor.IsAdmin() && !actor.HasRole(identity.RoleManufacturer) {
		return nil, shared.ErrForbidden
	}
	c, err := company.NewCompany(actor.UserID, input.details())
	if err != nil {
		return nil, err
	}
	exists, err := s.companies.ExistsByGSTIN(ctx, c.GSTIN.String())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A company with this GSTIN already exists")
	}

	if err := s.companies.Save(ctx, c); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.events, c); err != nil {
		s.logger.Error("Failed to publish company events", zap.Error(err))
	}
	s.logger.Info("Company created", zap.String("company_id", c.ID.String()), zap.String("owner_id", actor.UserID.String()))

	resp := ToCompanyResponse(c)
	return &resp, nil
}

// GetByID returns a company the caller can manage, or any public company
func (s *CompanyService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*CompanyResponse, error) {
	c, err := s.companies.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Company")
		}
		return nil, err
	}
	if !c.IsPublic && !access.CanAccess(actor, c) {
		return nil, shared.ErrForbidden
	}
	resp := ToCompanyResponse(c)
	return &resp, nil
}

// List returns all companies for admins and owned companies for manufacturers
func (s *CompanyService) List(ctx context.Context, actor identity.Actor, filter ListFilter) (*shared.Paginated[CompanyResponse], error) {
	f := toDomainFilter(filter)
	var (
		companies []company.Company
		total     int64
		err       error
	)
	switch {
	case actor.IsAdmin():
		companies, err = s.companies.FindAll(ctx, f)
		if err == nil {
			total, err = s.companies.Count(ctx, f)
		}
	case actor.HasRole(identity.RoleManufacturer):
		companies, err = s.companies.FindByOwner(ctx, actor.UserID, f)
		if err == nil {
			total, err = s.companies.Count(ctx, f.With("owner_id", actor.UserID))
		}
	default:
		return nil, shared.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToCompanyResponses(companies), total, f.Page, f.PageSize)
	return &page, nil
}

// ListPublic returns companies that accept connection requests
func (s *CompanyService) ListPublic(ctx context.Context, filter ListFilter) (*shared.Paginated[CompanyResponse], error) {
	f := toDomainFilter(filter)
	companies, err := s.companies.FindPublic(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.companies.Count(ctx, f.With("is_public", true))
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToCompanyResponses(companies), total, f.Page, f.PageSize)
	return &page, nil
}

// Update changes a company's details; owner or admin only
func (s *CompanyService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, input CompanyInput) (*CompanyResponse, error) {
	c, err := s.authorizeOwner(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	before := c.GSTIN
	if err := c.Update(input.details()); err != nil {
		return nil, err
	}
	if c.GSTIN != before {
		exists, err := s.companies.ExistsByGSTIN(ctx, c.GSTIN.String())
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A company with this GSTIN already exists")
		}
	}
	if err := s.companies.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(c)
	return &resp, nil
}

// Delete removes a company that no longer owns products; owner or admin only
func (s *CompanyService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if _, err := s.authorizeOwner(ctx, actor, id); err != nil {
		return err
	}
	count, err := s.products.Count(ctx, shared.Filter{}.With("company_id", id))
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("COMPANY_HAS_PRODUCTS", "Cannot delete a company that still has products")
	}
	if err := s.companies.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Company deleted", zap.String("company_id", id.String()))
	return nil
}

func (s *CompanyService) authorizeOwner(ctx context.Context, actor identity.Actor, id uuid.UUID) (*company.Company, error) {
	c, err := s.guard.AuthorizeCompany(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !c.IsOwnedBy(actor.UserID) {
		return nil, shared.ErrForbidden
	}
	return c, nil
}

func toDomainFilter(filter ListFilter) shared.Filter {
	f := shared.DefaultFilter()
	f.Search = filter.Search
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	return f
}
