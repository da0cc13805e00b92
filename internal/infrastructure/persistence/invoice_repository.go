package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/billing"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var invoiceFilter = filterSpec{
	columns: map[string]string{
		"company_id":     "company_id",
		"retailer_id":    "retailer_id",
		"payment_status": "payment_status",
	},
	search:      []string{"invoice_number"},
	sortFields:  InvoiceSortFields,
	defaultSort: "invoice_date",
}

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := conn(ctx, r.db).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := invoiceFilter.apply(conn(ctx, r.db).Model(&models.InvoiceModel{}), filter)
	if err := query.Preload("Items").Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toInvoices(invoiceModels), nil
}

// FindOverdueCandidates returns pending invoices due before the given time, oldest due date first
func (r *GormInvoiceRepository) FindOverdueCandidates(ctx context.Context, before time.Time, limit int) ([]billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := conn(ctx, r.db).
		Preload("Items").
		Where("payment_status = ? AND due_date IS NOT NULL AND due_date < ?", billing.PaymentStatusPending, before).
		Order("due_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toInvoices(invoiceModels), nil
}

// LastNumber returns the highest invoice number of a company for a year.
// Sequences are zero padded, so the lexical maximum is the latest.
func (r *GormInvoiceRepository) LastNumber(ctx context.Context, companyID uuid.UUID, year int) (string, error) {
	var last sql.NullString
	prefix := fmt.Sprintf("%s-%04d-%%", billing.InvoiceNumberPrefix, year)
	err := conn(ctx, r.db).Model(&models.InvoiceModel{}).
		Select("MAX(invoice_number)").
		Where("company_id = ? AND invoice_number LIKE ?", companyID, prefix).
		Row().Scan(&last)
	if err != nil {
		return "", err
	}
	return last.String, nil
}

// Save creates an invoice with its items, or updates the invoice header.
// Items are immutable once issued.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return saveAggregate(conn(ctx, r.db), models.InvoiceModelFromDomain(invoice), invoice.ID, &invoice.BaseAggregateRoot)
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := invoiceFilter.where(conn(ctx, r.db).Model(&models.InvoiceModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumPaid returns the grand total of paid invoices; companyID nil sums every company
func (r *GormInvoiceRepository) SumPaid(ctx context.Context, companyID *uuid.UUID) (decimal.Decimal, error) {
	query := conn(ctx, r.db).Model(&models.InvoiceModel{}).
		Select("COALESCE(SUM(grand_total), 0)").
		Where("payment_status = ?", billing.PaymentStatusPaid)
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}
	var total decimal.Decimal
	if err := query.Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func toInvoices(invoiceModels []models.InvoiceModel) []billing.Invoice {
	invoices := make([]billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
