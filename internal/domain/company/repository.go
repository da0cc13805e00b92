package company

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// CompanyRepository defines persistence for companies
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Company, error)
	FindPublic(ctx context.Context, filter shared.Filter) ([]Company, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Company, error)
	Save(ctx context.Context, company *Company) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByGSTIN(ctx context.Context, gstin string) (bool, error)
}

// ConnectionRepository defines persistence for company-retailer connections
type ConnectionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Connection, error)
	// FindByCompany lists a company's connections; an empty status means all
	FindByCompany(ctx context.Context, companyID uuid.UUID, status ConnectionStatus) ([]Connection, error)
	FindByProfile(ctx context.Context, profileID uuid.UUID) ([]Connection, error)
	// FindOpen returns the pending or approved connection between the pair, if any
	FindOpen(ctx context.Context, companyID, profileID uuid.UUID) (*Connection, error)
	Save(ctx context.Context, connection *Connection) error
	CountByProfile(ctx context.Context, profileID uuid.UUID, status ConnectionStatus) (int64, error)
}
