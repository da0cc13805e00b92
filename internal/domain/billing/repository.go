package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
)

// InvoiceRepository defines persistence for invoices and their items
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// FindAll lists invoices; filters "company_id", "retailer_id" and "payment_status" are supported
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)
	// FindOverdueCandidates returns pending invoices due before the given time
	FindOverdueCandidates(ctx context.Context, before time.Time, limit int) ([]Invoice, error)
	// LastNumber returns the highest invoice number of a company for a year, "" when none
	LastNumber(ctx context.Context, companyID uuid.UUID, year int) (string, error)
	Save(ctx context.Context, invoice *Invoice) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// SumPaid returns the grand total of paid invoices
	SumPaid(ctx context.Context, companyID *uuid.UUID) (decimal.Decimal, error)
}
