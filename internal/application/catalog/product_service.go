package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product management
type ProductService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	guard      *access.Guard
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(products catalog.ProductRepository, categories catalog.CategoryRepository, guard *access.Guard, events shared.EventPublisher, logger *zap.Logger) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		guard:      guard,
		events:     events,
		logger:     logger,
	}
}

// Create adds a product to a company's catalog
func (s *ProductService) Create(ctx context.Context, actor identity.Actor, companyID uuid.UUID, input ProductInput) (*ProductResponse, error) {
	if _, err := s.guard.AuthorizeCompany(ctx, actor, companyID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, companyID, input.CategoryID); err != nil {
		return nil, err
	}
	p, err := catalog.NewProduct(companyID, input.details(), input.AvailableQuantity)
	if err != nil {
		return nil, err
	}
	if input.Status != "" {
		if err := p.SetStatus(catalog.ProductStatus(input.Status)); err != nil {
			return nil, err
		}
	}
	p.SetCreatedBy(actor.UserID)
	if err := s.products.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Product created",
		zap.String("product_id", p.ID.String()),
		zap.String("company_id", companyID.String()),
		zap.String("name", p.Name),
	)
	publish(ctx, s.events, s.logger, catalog.NewProductEvent(catalog.EventTypeProductAdded, p))
	resp := ToProductResponse(p)
	return &resp, nil
}

// GetByID returns a product; any authenticated user may read the catalog
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// List returns products. An explicit company is readable by anyone; otherwise
// company staff see their own companies and retailers browse every catalog.
func (s *ProductService) List(ctx context.Context, actor identity.Actor, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	f := shared.DefaultFilter()
	f.Search = filter.Search
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		status := catalog.ProductStatus(filter.Status)
		if !status.IsValid() && status != catalog.ProductStatusOutOfStock {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown product status")
		}
		f = f.With("status", status)
	}
	if filter.CategoryID != nil {
		f = f.With("category_id", *filter.CategoryID)
	}

	switch {
	case filter.CompanyID != nil:
		f = f.With("company_id", *filter.CompanyID)
	case actor.HasRole(identity.RoleRetailer) && !actor.IsAdmin():
		// unscoped
	default:
		scope, err := s.guard.ScopeCompanies(ctx, actor, nil)
		if err != nil {
			return nil, err
		}
		if scope.Empty() {
			page := shared.NewPaginated([]ProductResponse{}, 0, f.Page, f.PageSize)
			return &page, nil
		}
		f = scope.Apply(f)
	}

	products, err := s.products.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToProductResponses(products), total, f.Page, f.PageSize)
	return &page, nil
}

// Update replaces a product's details and optionally its status
func (s *ProductService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, input ProductInput) (*ProductResponse, error) {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, p.CompanyID, input.CategoryID); err != nil {
		return nil, err
	}
	if err := p.Update(input.details()); err != nil {
		return nil, err
	}
	if input.Status != "" {
		if err := p.SetStatus(catalog.ProductStatus(input.Status)); err != nil {
			return nil, err
		}
	}
	if err := s.products.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// UpdateQuantity overwrites the stock counters of a product
func (s *ProductService) UpdateQuantity(ctx context.Context, actor identity.Actor, id uuid.UUID, input QuantityInput) (*ProductResponse, error) {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := p.SetQuantities(input.AvailableQuantity, input.TotalRequiredQuantity, input.TotalShipped); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Product quantities updated",
		zap.String("product_id", p.ID.String()),
		zap.Int64("available", p.AvailableQuantity),
		zap.Int64("required", p.TotalRequiredQuantity),
		zap.Int64("shipped", p.TotalShipped),
	)
	resp := ToProductResponse(p)
	return &resp, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.events, s.logger, catalog.NewProductEvent(catalog.EventTypeProductRemoved, p))
	return nil
}

func (s *ProductService) checkCategory(ctx context.Context, companyID uuid.UUID, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	c, err := s.categories.FindByID(ctx, *categoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return err
	}
	if !c.BelongsTo(companyID) {
		return shared.NewDomainError("INVALID_CATEGORY", "Category belongs to another company")
	}
	return nil
}

func (s *ProductService) find(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Product")
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*catalog.Product, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.AuthorizeCompany(ctx, actor, p.CompanyID); err != nil {
		return nil, err
	}
	return p, nil
}
