package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/company"
	"github.com/supplychain/backend/internal/domain/shared/valueobject"
)

// CompanyModel is the persistence model for the Company aggregate
type CompanyModel struct {
	AggregateModel
	Name           string    `gorm:"type:varchar(200);not null"`
	Description    string    `gorm:"type:text"`
	GSTIN          string    `gorm:"column:gstin;type:varchar(15);uniqueIndex"`
	AddressColumns `gorm:"embedded"`
	Phone          string    `gorm:"type:varchar(20)"`
	Email          string    `gorm:"type:varchar(254)"`
	IsPublic       bool      `gorm:"not null;default:false;index"`
	OwnerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	LogoURL        string    `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company
func (m *CompanyModel) ToDomain() *company.Company {
	return &company.Company{
		BaseAggregateRoot: m.AggregateModel.ToAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		GSTIN:             valueobject.GSTIN(m.GSTIN),
		Address:           m.AddressColumns.ToDomain(),
		Phone:             m.Phone,
		Email:             m.Email,
		IsPublic:          m.IsPublic,
		OwnerID:           m.OwnerID,
		LogoURL:           m.LogoURL,
	}
}

// FromDomain populates the persistence model from a domain Company
func (m *CompanyModel) FromDomain(c *company.Company) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Description = c.Description
	m.GSTIN = c.GSTIN.String()
	m.AddressColumns = AddressColumnsFromDomain(c.Address)
	m.Phone = c.Phone
	m.Email = c.Email
	m.IsPublic = c.IsPublic
	m.OwnerID = c.OwnerID
	m.LogoURL = c.LogoURL
}

// CompanyModelFromDomain creates a new persistence model from a domain Company
func CompanyModelFromDomain(c *company.Company) *CompanyModel {
	m := &CompanyModel{}
	m.FromDomain(c)
	return m
}

// ConnectionModel is the persistence model for a company-retailer connection
type ConnectionModel struct {
	AggregateModel
	CompanyID         uuid.UUID                `gorm:"type:uuid;not null;index"`
	RetailerProfileID uuid.UUID                `gorm:"type:uuid;not null;index"`
	Status            company.ConnectionStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	RequestMessage    string                   `gorm:"type:text"`
	CreditLimit       decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentTerms      string                   `gorm:"type:varchar(100)"`
	ApprovedAt        *time.Time
	ApprovedBy        *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ConnectionModel) TableName() string {
	return "company_retailer_connections"
}

// ToDomain converts the persistence model to a domain Connection
func (m *ConnectionModel) ToDomain() *company.Connection {
	return &company.Connection{
		BaseAggregateRoot: m.AggregateModel.ToAggregateRoot(),
		CompanyID:         m.CompanyID,
		RetailerProfileID: m.RetailerProfileID,
		Status:            m.Status,
		RequestMessage:    m.RequestMessage,
		CreditLimit:       m.CreditLimit,
		PaymentTerms:      m.PaymentTerms,
		ApprovedAt:        m.ApprovedAt,
		ApprovedBy:        m.ApprovedBy,
	}
}

// FromDomain populates the persistence model from a domain Connection
func (m *ConnectionModel) FromDomain(c *company.Connection) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CompanyID = c.CompanyID
	m.RetailerProfileID = c.RetailerProfileID
	m.Status = c.Status
	m.RequestMessage = c.RequestMessage
	m.CreditLimit = c.CreditLimit
	m.PaymentTerms = c.PaymentTerms
	m.ApprovedAt = c.ApprovedAt
	m.ApprovedBy = c.ApprovedBy
}

// ConnectionModelFromDomain creates a new persistence model from a domain Connection
func ConnectionModelFromDomain(c *company.Connection) *ConnectionModel {
	m := &ConnectionModel{}
	m.FromDomain(c)
	return m
}
