package printing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Party is the seller or the buyer block of an invoice
type Party struct {
	Name    string
	GSTIN   string
	Address string
	State   string
	Phone   string
	Email   string
}

// InvoiceLine is one printed row of an invoice
type InvoiceLine struct {
	Description  string
	HSNCode      string
	Quantity     int64
	Price        decimal.Decimal
	GSTRate      decimal.Decimal
	TaxableValue decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	IGST         decimal.Decimal
	Total        decimal.Decimal
}

// InvoiceDocument is the data bound to the invoice template
type InvoiceDocument struct {
	Number        string
	IRN           string
	InvoiceDate   time.Time
	DueDate       *time.Time
	PaymentMode   string
	PaymentStatus string
	IntraState    bool
	Seller        Party
	Buyer         Party
	Lines         []InvoiceLine
	TotalTaxable  decimal.Decimal
	TotalCGST     decimal.Decimal
	TotalSGST     decimal.Decimal
	TotalIGST     decimal.Decimal
	GrandTotal    decimal.Decimal
}
