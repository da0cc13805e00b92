package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// RetailerRepository defines persistence for retailers
type RetailerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Retailer, error)
	// FindAll lists retailers; filter "company_id" narrows to one or more companies
	FindAll(ctx context.Context, filter shared.Filter) ([]Retailer, error)
	FindByProfile(ctx context.Context, profileID uuid.UUID) ([]Retailer, error)
	Save(ctx context.Context, retailer *Retailer) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// RetailerProfileRepository defines persistence for retailer profiles
type RetailerProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RetailerProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*RetailerProfile, error)
	Save(ctx context.Context, profile *RetailerProfile) error
}
