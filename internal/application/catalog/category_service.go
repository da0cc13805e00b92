// Package catalog implements product and category management.
package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UncategorizedName labels the stock of products without a category
const UncategorizedName = "Uncategorized"

// CategoryService handles product categories
type CategoryService struct {
	categories catalog.CategoryRepository
	products   catalog.ProductRepository
	guard      *access.Guard
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories catalog.CategoryRepository, products catalog.ProductRepository, guard *access.Guard, events shared.EventPublisher, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		products:   products,
		guard:      guard,
		events:     events,
		logger:     logger,
	}
}

// Create adds a category; names are unique within a company
func (s *CategoryService) Create(ctx context.Context, actor identity.Actor, companyID uuid.UUID, name string) (*CategoryResponse, error) {
	if _, err := s.guard.AuthorizeCompany(ctx, actor, companyID); err != nil {
		return nil, err
	}
	c, err := catalog.NewCategory(companyID, name)
	if err != nil {
		return nil, err
	}
	exists, err := s.categories.ExistsByName(ctx, companyID, c.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
	}
	c.SetCreatedBy(actor.UserID)
	if err := s.categories.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Category created", zap.String("category_id", c.ID.String()), zap.String("name", c.Name))
	publish(ctx, s.events, s.logger, catalog.NewCategoryEvent(catalog.EventTypeCategoryAdded, c))
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// List returns the categories of the companies in the caller's scope, ordered by name
func (s *CategoryService) List(ctx context.Context, actor identity.Actor, companyID *uuid.UUID) ([]CategoryResponse, error) {
	scope, err := s.guard.ScopeCompanies(ctx, actor, companyID)
	if err != nil {
		return nil, err
	}
	if scope.Empty() {
		return []CategoryResponse{}, nil
	}
	f := shared.Filter{OrderBy: "name", OrderDir: "asc"}
	categories, err := s.categories.FindAll(ctx, scope.Apply(f))
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// Rename changes a category's name
func (s *CategoryService) Rename(ctx context.Context, actor identity.Actor, id uuid.UUID, name string) (*CategoryResponse, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	before := c.Name
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	if c.Name == before {
		resp := ToCategoryResponse(c)
		return &resp, nil
	}
	exists, err := s.categories.ExistsByName(ctx, c.CompanyID, c.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
	}
	if err := s.categories.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Delete removes a category; its products become uncategorized
func (s *CategoryService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.events, s.logger, catalog.NewCategoryEvent(catalog.EventTypeCategoryRemoved, c))
	return nil
}

// publish emits a catalog event; the write already succeeded so failures are only logged
func publish(ctx context.Context, events shared.EventPublisher, logger *zap.Logger, event shared.DomainEvent) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish catalog event", zap.String("event_type", event.EventType()), zap.Error(err))
	}
}

// StockData returns total available quantity per category within the caller's scope
func (s *CategoryService) StockData(ctx context.Context, actor identity.Actor, companyID *uuid.UUID) ([]CategoryStockResponse, error) {
	scope, err := s.guard.ScopeCompanies(ctx, actor, companyID)
	if err != nil {
		return nil, err
	}
	var rows []catalog.CategoryStock
	switch {
	case scope.All:
		rows, err = s.products.StockByCategory(ctx, nil)
		if err != nil {
			return nil, err
		}
	default:
		for _, id := range scope.CompanyIDs {
			id := id
			part, err := s.products.StockByCategory(ctx, &id)
			if err != nil {
				return nil, err
			}
			rows = append(rows, part...)
		}
	}
	return mergeStock(rows), nil
}

// mergeStock sums rows sharing a name and labels unnamed rows as uncategorized
func mergeStock(rows []catalog.CategoryStock) []CategoryStockResponse {
	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		name := row.Name
		if name == "" {
			name = UncategorizedName
		}
		totals[name] += row.Value
	}
	out := make([]CategoryStockResponse, 0, len(totals))
	for name, value := range totals {
		out = append(out, CategoryStockResponse{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *CategoryService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*catalog.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Category")
		}
		return nil, err
	}
	if _, err := s.guard.AuthorizeCompany(ctx, actor, c.CompanyID); err != nil {
		return nil, err
	}
	return c, nil
}
