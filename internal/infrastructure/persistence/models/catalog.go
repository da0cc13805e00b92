package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/catalog"
)

// CategoryModel is the persistence model for the Category aggregate
type CategoryModel struct {
	CompanyAggregateModel
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		CompanyAggregateRoot: m.CompanyAggregateModel.ToCompanyAggregateRoot(),
		Name:                 m.Name,
	}
}

// CategoryModelFromDomain creates a new persistence model from a domain Category
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{Name: c.Name}
	m.FromDomainCompanyAggregateRoot(c.CompanyAggregateRoot)
	return m
}

// ProductModel is the persistence model for the Product aggregate
type ProductModel struct {
	CompanyAggregateModel
	CategoryID            *uuid.UUID            `gorm:"type:uuid;index"`
	Name                  string                `gorm:"type:varchar(200);not null"`
	HSNCode               string                `gorm:"column:hsn_code;type:varchar(8)"`
	UQC                   string                `gorm:"column:uqc;type:varchar(10)"`
	Price                 decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	CGSTRate              decimal.Decimal       `gorm:"column:cgst_rate;type:decimal(5,2);not null;default:0"`
	SGSTRate              decimal.Decimal       `gorm:"column:sgst_rate;type:decimal(5,2);not null;default:0"`
	IGSTRate              decimal.Decimal       `gorm:"column:igst_rate;type:decimal(5,2);not null;default:0"`
	CessRate              decimal.Decimal       `gorm:"type:decimal(5,2);not null;default:0"`
	AvailableQuantity     int64                 `gorm:"not null;default:0"`
	TotalRequiredQuantity int64                 `gorm:"not null;default:0"`
	TotalShipped          int64                 `gorm:"not null;default:0"`
	Status                catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		CompanyAggregateRoot:  m.CompanyAggregateModel.ToCompanyAggregateRoot(),
		CategoryID:            m.CategoryID,
		Name:                  m.Name,
		HSNCode:               m.HSNCode,
		UQC:                   m.UQC,
		Price:                 m.Price,
		CGSTRate:              m.CGSTRate,
		SGSTRate:              m.SGSTRate,
		IGSTRate:              m.IGSTRate,
		CessRate:              m.CessRate,
		AvailableQuantity:     m.AvailableQuantity,
		TotalRequiredQuantity: m.TotalRequiredQuantity,
		TotalShipped:          m.TotalShipped,
		Status:                m.Status,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainCompanyAggregateRoot(p.CompanyAggregateRoot)
	m.CategoryID = p.CategoryID
	m.Name = p.Name
	m.HSNCode = p.HSNCode
	m.UQC = p.UQC
	m.Price = p.Price
	m.CGSTRate = p.CGSTRate
	m.SGSTRate = p.SGSTRate
	m.IGSTRate = p.IGSTRate
	m.CessRate = p.CessRate
	m.AvailableQuantity = p.AvailableQuantity
	m.TotalRequiredQuantity = p.TotalRequiredQuantity
	m.TotalShipped = p.TotalShipped
	m.Status = p.Status
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
