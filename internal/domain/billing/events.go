package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
)

// AggregateTypeInvoice is the aggregate type name of invoices
const AggregateTypeInvoice = "Invoice"

const (
	EventTypeInvoiceIssued  = "billing.invoice.issued"
	EventTypeInvoicePaid    = "billing.invoice.paid"
	EventTypeInvoiceOverdue = "billing.invoice.overdue"
)

// InvoiceEvent is published when an invoice is issued or changes payment status
type InvoiceEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	RetailerID    uuid.UUID       `json:"retailer_id"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

// NewInvoiceEvent creates an InvoiceEvent of the given type
func NewInvoiceEvent(eventType string, inv *Invoice) *InvoiceEvent {
	return &InvoiceEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeInvoice, inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
		RetailerID:      inv.RetailerID,
		GrandTotal:      inv.GrandTotal,
		PaymentStatus:   inv.PaymentStatus,
	}
}
