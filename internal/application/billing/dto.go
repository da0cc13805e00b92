package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/billing"
)

// InvoiceItemInput bills one product. Price and GSTRate default to the
// product's price and total GST rate; HSNCode and Description to its catalog data.
type InvoiceItemInput struct {
	ProductID   uuid.UUID
	Quantity    int64
	Price       *decimal.Decimal
	GSTRate     *decimal.Decimal
	HSNCode     string
	Description string
}

// CreateInvoiceInput contains the data of a new invoice. Without items, an
// invoice for an order bills the order's items.
type CreateInvoiceInput struct {
	CompanyID   uuid.UUID
	RetailerID  uuid.UUID
	OrderID     *uuid.UUID
	PaymentMode string
	InvoiceDate *time.Time
	DueDate     *time.Time
	IRN         string
	Items       []InvoiceItemInput
}

// InvoiceListFilter narrows invoice lists
type InvoiceListFilter struct {
	CompanyID     *uuid.UUID
	RetailerID    *uuid.UUID
	PaymentStatus string
	Page          int
	PageSize      int
}

// InvoiceItemResponse is the API view of an invoice line
type InvoiceItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Description  string          `json:"description,omitempty"`
	HSNCode      string          `json:"hsn_code"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	GSTRate      decimal.Decimal `json:"gst_rate"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	Total        decimal.Decimal `json:"total"`
}

// InvoiceResponse is the API view of an invoice
type InvoiceResponse struct {
	ID                  uuid.UUID             `json:"id"`
	CompanyID           uuid.UUID             `json:"company_id"`
	RetailerID          uuid.UUID             `json:"retailer_id"`
	OrderID             *uuid.UUID            `json:"order_id,omitempty"`
	InvoiceNumber       string                `json:"invoice_number"`
	IRN                 string                `json:"irn,omitempty"`
	InvoiceDate         time.Time             `json:"invoice_date"`
	DueDate             *time.Time            `json:"due_date,omitempty"`
	PaymentMode         string                `json:"payment_mode"`
	PaymentStatus       string                `json:"payment_status"`
	PaidAt              *time.Time            `json:"paid_at,omitempty"`
	IntraState          bool                  `json:"intra_state"`
	Items               []InvoiceItemResponse `json:"items"`
	TotalTaxableValue   decimal.Decimal       `json:"total_taxable_value"`
	TotalCGST           decimal.Decimal       `json:"cgst"`
	TotalSGST           decimal.Decimal       `json:"sgst"`
	TotalIGST           decimal.Decimal       `json:"igst"`
	GrandTotal          decimal.Decimal       `json:"grand_total"`
	IsEInvoiceGenerated bool                  `json:"is_einvoice_generated"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
	Version             int                   `json:"version"`
}

// ToInvoiceResponse converts a domain invoice to a response
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			Description:  item.Description,
			HSNCode:      item.HSNCode,
			Quantity:     item.Quantity,
			Price:        item.Price,
			GSTRate:      item.GSTRate,
			TaxableValue: item.TaxableValue,
			CGST:         item.CGST,
			SGST:         item.SGST,
			IGST:         item.IGST,
			Total:        item.Total(),
		}
	}
	return InvoiceResponse{
		ID:                  inv.ID,
		CompanyID:           inv.CompanyID,
		RetailerID:          inv.RetailerID,
		OrderID:             inv.OrderID,
		InvoiceNumber:       inv.InvoiceNumber,
		IRN:                 inv.IRN,
		InvoiceDate:         inv.InvoiceDate,
		DueDate:             inv.DueDate,
		PaymentMode:         string(inv.PaymentMode),
		PaymentStatus:       string(inv.PaymentStatus),
		PaidAt:              inv.PaidAt,
		IntraState:          inv.IntraState,
		Items:               items,
		TotalTaxableValue:   inv.TotalTaxableValue,
		TotalCGST:           inv.TotalCGST,
		TotalSGST:           inv.TotalSGST,
		TotalIGST:           inv.TotalIGST,
		GrandTotal:          inv.GrandTotal,
		IsEInvoiceGenerated: inv.IsEInvoiceGenerated,
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
		Version:             inv.Version,
	}
}

// ToInvoiceResponses converts a slice of invoices
func ToInvoiceResponses(invoices []billing.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i])
	}
	return out
}

// InvoicePDF is a rendered invoice
type InvoicePDF struct {
	Filename string
	Data     []byte
	// StorageKey and DownloadURL are set when the PDF was archived to object storage
	StorageKey  string
	DownloadURL string
}
