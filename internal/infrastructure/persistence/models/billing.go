package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/billing"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
// Invoice numbers are unique per company.
type InvoiceModel struct {
	CompanyAggregateModel
	RetailerID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	OrderID             *uuid.UUID            `gorm:"type:uuid;index"`
	InvoiceNumber       string                `gorm:"type:varchar(30);not null"`
	IRN                 string                `gorm:"column:irn;type:varchar(64)"`
	InvoiceDate         time.Time             `gorm:"not null;index"`
	DueDate             *time.Time            `gorm:"index"`
	PaymentMode         billing.PaymentMode   `gorm:"type:varchar(20);not null"`
	PaymentStatus       billing.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaidAt              *time.Time
	IntraState          bool                 `gorm:"not null"`
	TotalTaxableValue   decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	TotalCGST           decimal.Decimal      `gorm:"column:total_cgst;type:decimal(18,2);not null;default:0"`
	TotalSGST           decimal.Decimal      `gorm:"column:total_sgst;type:decimal(18,2);not null;default:0"`
	TotalIGST           decimal.Decimal      `gorm:"column:total_igst;type:decimal(18,2);not null;default:0"`
	GrandTotal          decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	IsEInvoiceGenerated bool                 `gorm:"column:is_einvoice_generated;not null;default:false"`
	Items               []InvoiceItemModel   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is the persistence model for a taxed invoice line
type InvoiceItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	Description  string          `gorm:"type:varchar(200)"`
	HSNCode      string          `gorm:"column:hsn_code;type:varchar(8)"`
	Quantity     int64           `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	GSTRate      decimal.Decimal `gorm:"column:gst_rate;type:decimal(5,2);not null"`
	TaxableValue decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CGST         decimal.Decimal `gorm:"column:cgst;type:decimal(18,2);not null;default:0"`
	SGST         decimal.Decimal `gorm:"column:sgst;type:decimal(18,2);not null;default:0"`
	IGST         decimal.Decimal `gorm:"column:igst;type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		CompanyAggregateRoot: m.CompanyAggregateModel.ToCompanyAggregateRoot(),
		RetailerID:           m.RetailerID,
		OrderID:              m.OrderID,
		InvoiceNumber:        m.InvoiceNumber,
		IRN:                  m.IRN,
		InvoiceDate:          m.InvoiceDate,
		DueDate:              m.DueDate,
		PaymentMode:          m.PaymentMode,
		PaymentStatus:        m.PaymentStatus,
		PaidAt:               m.PaidAt,
		IntraState:           m.IntraState,
		TotalTaxableValue:    m.TotalTaxableValue,
		TotalCGST:            m.TotalCGST,
		TotalSGST:            m.TotalSGST,
		TotalIGST:            m.TotalIGST,
		GrandTotal:           m.GrandTotal,
		IsEInvoiceGenerated:  m.IsEInvoiceGenerated,
		Items:                make([]billing.InvoiceItem, len(m.Items)),
	}
	for i, item := range m.Items {
		inv.Items[i] = billing.InvoiceItem{
			ID:           item.ID,
			InvoiceID:    item.InvoiceID,
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
		}
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainCompanyAggregateRoot(inv.CompanyAggregateRoot)
	m.RetailerID = inv.RetailerID
	m.OrderID = inv.OrderID
	m.InvoiceNumber = inv.InvoiceNumber
	m.IRN = inv.IRN
	m.InvoiceDate = inv.InvoiceDate
	m.DueDate = inv.DueDate
	m.PaymentMode = inv.PaymentMode
	m.PaymentStatus = inv.PaymentStatus
	m.PaidAt = inv.PaidAt
	m.IntraState = inv.IntraState
	m.TotalTaxableValue = inv.TotalTaxableValue
	m.TotalCGST = inv.TotalCGST
	m.TotalSGST = inv.TotalSGST
	m.TotalIGST = inv.TotalIGST
	m.GrandTotal = inv.GrandTotal
	m.IsEInvoiceGenerated = inv.IsEInvoiceGenerated
	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i, item := range inv.Items {
		m.Items[i] = InvoiceItemModel{
			ID:           item.ID,
			InvoiceID:    inv.ID,
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
		}
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}
