package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// OrderRepository defines persistence for orders and their items
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindAll lists orders; filters "company_id", "retailer_id" and "status" are supported
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	FindByRetailerIDs(ctx context.Context, retailerIDs []uuid.UUID) ([]Order, error)
	// Save inserts or updates the order and replaces its items
	Save(ctx context.Context, order *Order) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, companyID *uuid.UUID) (map[OrderStatus]int64, error)
}
