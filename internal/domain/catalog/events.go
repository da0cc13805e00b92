package catalog

import (
	"github.com/supplychain/backend/internal/domain/shared"
)

// Aggregate type names of the catalog
const (
	AggregateTypeProduct  = "Product"
	AggregateTypeCategory = "Category"
)

const (
	EventTypeProductAdded    = "catalog.product.added"
	EventTypeProductRemoved  = "catalog.product.removed"
	EventTypeCategoryAdded   = "catalog.category.added"
	EventTypeCategoryRemoved = "catalog.category.removed"
)

// CatalogEvent is published when a product or category enters or leaves a catalog
type CatalogEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProductEvent creates a CatalogEvent for a product
func NewProductEvent(eventType string, p *Product) *CatalogEvent {
	return &CatalogEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeProduct, p.ID, p.CompanyID),
		Name:            p.Name,
	}
}

// NewCategoryEvent creates a CatalogEvent for a category
func NewCategoryEvent(eventType string, c *Category) *CatalogEvent {
	return &CatalogEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCategory, c.ID, c.CompanyID),
		Name:            c.Name,
	}
}
