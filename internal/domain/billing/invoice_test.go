package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/shared"
)

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

func validInput(intra bool) InvoiceInput {
	return InvoiceInput{
		CompanyID:   uuid.New(),
		RetailerID:  uuid.New(),
		Number:      FormatInvoiceNumber(2026, 1),
		PaymentMode: PaymentModeUPI,
		IntraState:  intra,
		Lines: []InvoiceLine{
			{ProductID: uuid.New(), HSNCode: "1006", Quantity: 10, Price: decimal.NewFromInt(50), GSTRate: decimal.NewFromInt(5)},
			{ProductID: uuid.New(), HSNCode: "0713", Quantity: 3, Price: decimal.RequireFromString("33.33"), GSTRate: decimal.NewFromInt(18)},
		},
	}
}

func TestNewInvoice_IntraState(t *testing.T) {
	inv, err := NewInvoice(validInput(true))
	require.NoError(t, err)

	assert.Equal(t, PaymentStatusPending, inv.PaymentStatus)
	assert.True(t, inv.TotalTaxableValue.Equal(decimal.RequireFromString("599.99")))
	assert.True(t, inv.TotalCGST.Equal(inv.TotalSGST))
	assert.True(t, inv.TotalIGST.IsZero())
	for _, item := range inv.Items {
		assert.True(t, item.CGST.Equal(item.SGST))
		assert.True(t, item.IGST.IsZero())
		assert.Equal(t, inv.ID, item.InvoiceID)
	}
	// 500 * 5% = 25 -> 12.50 + 12.50; 99.99 * 18% = 17.9982 -> 9.00 + 9.00
	assert.True(t, inv.TotalCGST.Equal(decimal.RequireFromString("21.5")))
	assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("642.99")))
	assert.False(t, inv.IsEInvoiceGenerated)
}

func TestNewInvoice_InterState(t *testing.T) {
	inv, err := NewInvoice(validInput(false))
	require.NoError(t, err)

	assert.True(t, inv.TotalCGST.IsZero())
	assert.True(t, inv.TotalSGST.IsZero())
	assert.True(t, inv.TotalIGST.Equal(decimal.RequireFromString("43")))
	assert.True(t, inv.GrandTotal.Equal(inv.TotalTaxableValue.Add(inv.TotalTax())))
}

func TestNewInvoice_Validation(t *testing.T) {
	in := validInput(true)
	in.Lines = nil
	_, err := NewInvoice(in)
	requireCode(t, err, "NO_ITEMS")

	in = validInput(true)
	in.PaymentMode = "barter"
	_, err = NewInvoice(in)
	requireCode(t, err, "INVALID_PAYMENT_MODE")

	in = validInput(true)
	in.Lines[0].GSTRate = decimal.NewFromInt(40)
	_, err = NewInvoice(in)
	requireCode(t, err, "INVALID_GST_RATE")

	in = validInput(true)
	in.InvoiceDate = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	in.DueDate = &due
	_, err = NewInvoice(in)
	requireCode(t, err, "INVALID_DUE_DATE")
}

func TestInvoice_PaymentLifecycle(t *testing.T) {
	in := validInput(true)
	in.InvoiceDate = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	in.DueDate = &due
	inv, err := NewInvoice(in)
	require.NoError(t, err)

	assert.False(t, inv.MarkOverdue(time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)), "due day itself is not overdue")
	assert.True(t, inv.MarkOverdue(time.Date(2026, 4, 1, 0, 0, 1, 0, time.UTC)))
	assert.Equal(t, PaymentStatusOverdue, inv.PaymentStatus)
	assert.False(t, inv.MarkOverdue(time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)))

	paidAt := time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)
	inv.MarkPaid(paidAt)
	assert.Equal(t, PaymentStatusPaid, inv.PaymentStatus)
	v := inv.Version
	inv.MarkPaid(time.Now())
	assert.Equal(t, v, inv.Version)
	assert.Equal(t, paidAt, *inv.PaidAt)
}

func TestInvoice_RecordEInvoice(t *testing.T) {
	inv, err := NewInvoice(validInput(true))
	require.NoError(t, err)
	requireCode(t, inv.RecordEInvoice(" "), "INVALID_IRN")
	require.NoError(t, inv.RecordEInvoice("irn-1"))
	assert.True(t, inv.IsEInvoiceGenerated)
}

func TestInvoiceNumbers(t *testing.T) {
	assert.Equal(t, "INV-2026-000001", NextInvoiceNumber(2026, ""))
	assert.Equal(t, "INV-2026-000043", NextInvoiceNumber(2026, "INV-2026-000042"))
	assert.Equal(t, "INV-2027-000001", NextInvoiceNumber(2027, "INV-2026-000042"))
	assert.Equal(t, "INV-2026-000001", NextInvoiceNumber(2026, "custom-7"))

	y, seq, ok := ParseInvoiceNumber("INV-2026-000042")
	assert.True(t, ok)
	assert.Equal(t, 2026, y)
	assert.Equal(t, 42, seq)
}
