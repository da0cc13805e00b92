// Package billing models GST tax invoices issued by a company to its retailers.
package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/shared/valueobject"
)

// PaymentMode is how the retailer settles an invoice
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "cash"
	PaymentModeUPI          PaymentMode = "upi"
	PaymentModeCard         PaymentMode = "card"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
	PaymentModeCheque       PaymentMode = "cheque"
	PaymentModeCredit       PaymentMode = "credit"
)

// ParsePaymentMode parses a payment mode name, case-insensitively
func ParsePaymentMode(s string) (PaymentMode, error) {
	mode := PaymentMode(strings.ToLower(strings.TrimSpace(s)))
	switch mode {
	case PaymentModeCash, PaymentModeUPI, PaymentModeCard, PaymentModeBankTransfer, PaymentModeCheque, PaymentModeCredit:
		return mode, nil
	}
	return "", shared.NewDomainError("INVALID_PAYMENT_MODE", fmt.Sprintf("Unknown payment mode: %s", s))
}

// PaymentStatus is the settlement state of an invoice
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// MaxItemDescriptionLength bounds the description of an invoice line
const MaxItemDescriptionLength = 200

// InvoiceItem is one taxed line of an invoice
type InvoiceItem struct {
	ID           uuid.UUID
	InvoiceID    uuid.UUID
	ProductID    uuid.UUID
	Description  string
	HSNCode      string
	Quantity     int64
	Price        decimal.Decimal
	GSTRate      decimal.Decimal
	TaxableValue decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	IGST         decimal.Decimal
}

// Total returns the taxable value plus taxes of the line
func (i InvoiceItem) Total() decimal.Decimal {
	return i.TaxableValue.Add(i.CGST).Add(i.SGST).Add(i.IGST)
}

// InvoiceLine is the input to bill one product
type InvoiceLine struct {
	ProductID   uuid.UUID
	Description string
	HSNCode     string
	Quantity    int64
	Price       decimal.Decimal
	GSTRate     decimal.Decimal
}

// InvoiceInput carries everything needed to issue an invoice
type InvoiceInput struct {
	CompanyID   uuid.UUID
	RetailerID  uuid.UUID
	OrderID     *uuid.UUID
	Number      string
	IRN         string
	PaymentMode PaymentMode
	InvoiceDate time.Time
	DueDate     *time.Time
	// IntraState is true when supplier and recipient are in the same state
	IntraState bool
	Lines      []InvoiceLine
}

// Invoice is a GST tax invoice
type Invoice struct {
	shared.CompanyAggregateRoot
	RetailerID          uuid.UUID
	OrderID             *uuid.UUID
	InvoiceNumber       string
	IRN                 string
	InvoiceDate         time.Time
	DueDate             *time.Time
	PaymentMode         PaymentMode
	PaymentStatus       PaymentStatus
	PaidAt              *time.Time
	IntraState          bool
	Items               []InvoiceItem
	TotalTaxableValue   decimal.Decimal
	TotalCGST           decimal.Decimal
	TotalSGST           decimal.Decimal
	TotalIGST           decimal.Decimal
	GrandTotal          decimal.Decimal
	IsEInvoiceGenerated bool
}

// NewInvoice computes GST for every line and issues a pending invoice
func NewInvoice(in InvoiceInput) (*Invoice, error) {
	if in.CompanyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company is required")
	}
	if in.RetailerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RETAILER", "Retailer is required")
	}
	if strings.TrimSpace(in.Number) == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number is required")
	}
	if _, err := ParsePaymentMode(string(in.PaymentMode)); err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Invoice must contain at least one item")
	}
	if in.InvoiceDate.IsZero() {
		in.InvoiceDate = time.Now()
	}
	if in.DueDate != nil && in.DueDate.Before(truncateDay(in.InvoiceDate)) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before the invoice date")
	}

	inv := &Invoice{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(in.CompanyID),
		RetailerID:           in.RetailerID,
		OrderID:              in.OrderID,
		InvoiceNumber:        strings.TrimSpace(in.Number),
		IRN:                  strings.TrimSpace(in.IRN),
		InvoiceDate:          in.InvoiceDate,
		DueDate:              in.DueDate,
		PaymentMode:          in.PaymentMode,
		PaymentStatus:        PaymentStatusPending,
		IntraState:           in.IntraState,
		IsEInvoiceGenerated:  strings.TrimSpace(in.IRN) != "",
	}

	for _, l := range in.Lines {
		item, err := inv.newItem(l)
		if err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, item)
	}
	inv.recalculate()

	inv.AddDomainEvent(NewInvoiceEvent(EventTypeInvoiceIssued, inv))
	return inv, nil
}

func (inv *Invoice) newItem(l InvoiceLine) (InvoiceItem, error) {
	if l.ProductID == uuid.Nil {
		return InvoiceItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product is required for every item")
	}
	if l.Quantity <= 0 {
		return InvoiceItem{}, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if l.Price.IsNegative() {
		return InvoiceItem{}, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if err := valueobject.ValidateGSTRate(l.GSTRate); err != nil {
		return InvoiceItem{}, err
	}
	description := strings.TrimSpace(l.Description)
	if len(description) > MaxItemDescriptionLength {
		return InvoiceItem{}, shared.NewDomainError("INVALID_DESCRIPTION", fmt.Sprintf("Item description cannot exceed %d characters", MaxItemDescriptionLength))
	}
	tax := valueobject.ComputeGST(l.Price.Mul(decimal.NewFromInt(l.Quantity)), l.GSTRate, inv.IntraState)
	return InvoiceItem{
		ID:           uuid.New(),
		InvoiceID:    inv.ID,
		ProductID:    l.ProductID,
		Description:  description,
		HSNCode:      strings.TrimSpace(l.HSNCode),
		Quantity:     l.Quantity,
		Price:        l.Price,
		GSTRate:      l.GSTRate,
		TaxableValue: tax.Taxable,
		CGST:         tax.CGST,
		SGST:         tax.SGST,
		IGST:         tax.IGST,
	}, nil
}

func (inv *Invoice) recalculate() {
	inv.TotalTaxableValue = decimal.Zero
	inv.TotalCGST = decimal.Zero
	inv.TotalSGST = decimal.Zero
	inv.TotalIGST = decimal.Zero
	for _, item := range inv.Items {
		inv.TotalTaxableValue = inv.TotalTaxableValue.Add(item.TaxableValue)
		inv.TotalCGST = inv.TotalCGST.Add(item.CGST)
		inv.TotalSGST = inv.TotalSGST.Add(item.SGST)
		inv.TotalIGST = inv.TotalIGST.Add(item.IGST)
	}
	inv.GrandTotal = inv.TotalTaxableValue.Add(inv.TotalCGST).Add(inv.TotalSGST).Add(inv.TotalIGST)
}

// TotalTax returns the sum of all GST components
func (inv *Invoice) TotalTax() decimal.Decimal {
	return inv.TotalCGST.Add(inv.TotalSGST).Add(inv.TotalIGST)
}

// MarkPaid settles the invoice. Paying a paid invoice is a no-op.
func (inv *Invoice) MarkPaid(at time.Time) {
	if inv.PaymentStatus == PaymentStatusPaid {
		return
	}
	inv.PaymentStatus = PaymentStatusPaid
	inv.PaidAt = &at
	inv.Touch()
	inv.AddDomainEvent(NewInvoiceEvent(EventTypeInvoicePaid, inv))
}

// IsOverdue reports whether an unpaid invoice is past its due date at now
func (inv *Invoice) IsOverdue(now time.Time) bool {
	return inv.PaymentStatus == PaymentStatusPending &&
		inv.DueDate != nil &&
		truncateDay(now).After(truncateDay(*inv.DueDate))
}

// MarkOverdue flags a pending invoice past its due date; it reports whether the status changed
func (inv *Invoice) MarkOverdue(now time.Time) bool {
	if !inv.IsOverdue(now) {
		return false
	}
	inv.PaymentStatus = PaymentStatusOverdue
	inv.Touch()
	inv.AddDomainEvent(NewInvoiceEvent(EventTypeInvoiceOverdue, inv))
	return true
}

// RecordEInvoice stores the IRN returned by the e-invoice portal
func (inv *Invoice) RecordEInvoice(irn string) error {
	irn = strings.TrimSpace(irn)
	if irn == "" {
		return shared.NewDomainError("INVALID_IRN", "IRN cannot be empty")
	}
	if inv.IRN == irn && inv.IsEInvoiceGenerated {
		return nil
	}
	inv.IRN = irn
	inv.IsEInvoiceGenerated = true
	inv.Touch()
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
