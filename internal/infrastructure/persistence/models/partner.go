package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared/valueobject"
)

// RetailerModel is the persistence model for a company's retailer
type RetailerModel struct {
	CompanyAggregateModel
	Name                  string          `gorm:"type:varchar(200);not null"`
	Contact               string          `gorm:"type:varchar(20);not null"`
	ContactPerson         string          `gorm:"type:varchar(100)"`
	Email                 string          `gorm:"type:varchar(254)"`
	GSTIN                 string          `gorm:"column:gstin;type:varchar(15)"`
	AddressColumns        `gorm:"embedded"`
	DistanceFromWarehouse decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	IsActive              bool            `gorm:"not null"`
	RetailerProfileID     *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (RetailerModel) TableName() string {
	return "retailers"
}

// ToDomain converts the persistence model to a domain Retailer
func (m *RetailerModel) ToDomain() *partner.Retailer {
	return &partner.Retailer{
		CompanyAggregateRoot:  m.CompanyAggregateModel.ToCompanyAggregateRoot(),
		Name:                  m.Name,
		Contact:               m.Contact,
		ContactPerson:         m.ContactPerson,
		Email:                 m.Email,
		GSTIN:                 valueobject.GSTIN(m.GSTIN),
		Address:               m.AddressColumns.ToDomain(),
		DistanceFromWarehouse: m.DistanceFromWarehouse,
		IsActive:              m.IsActive,
		RetailerProfileID:     m.RetailerProfileID,
	}
}

// FromDomain populates the persistence model from a domain Retailer
func (m *RetailerModel) FromDomain(r *partner.Retailer) {
	m.FromDomainCompanyAggregateRoot(r.CompanyAggregateRoot)
	m.Name = r.Name
	m.Contact = r.Contact
	m.ContactPerson = r.ContactPerson
	m.Email = r.Email
	m.GSTIN = r.GSTIN.String()
	m.AddressColumns = AddressColumnsFromDomain(r.Address)
	m.DistanceFromWarehouse = r.DistanceFromWarehouse
	m.IsActive = r.IsActive
	m.RetailerProfileID = r.RetailerProfileID
}

// RetailerModelFromDomain creates a new persistence model from a domain Retailer
func RetailerModelFromDomain(r *partner.Retailer) *RetailerModel {
	m := &RetailerModel{}
	m.FromDomain(r)
	return m
}

// RetailerProfileModel is the persistence model for a retailer's self-managed profile
type RetailerProfileModel struct {
	AggregateModel
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	BusinessName    string    `gorm:"type:varchar(200);not null"`
	BusinessType    string    `gorm:"type:varchar(50)"`
	ContactPerson   string    `gorm:"type:varchar(100)"`
	Email           string    `gorm:"type:varchar(254)"`
	Phone           string    `gorm:"type:varchar(20)"`
	GSTIN           string    `gorm:"column:gstin;type:varchar(15)"`
	EstablishedYear *int
	IsVerified      bool `gorm:"not null;default:false"`
	AddressColumns  `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (RetailerProfileModel) TableName() string {
	return "retailer_profiles"
}

// ToDomain converts the persistence model to a domain RetailerProfile
func (m *RetailerProfileModel) ToDomain() *partner.RetailerProfile {
	return &partner.RetailerProfile{
		BaseAggregateRoot: m.AggregateModel.ToAggregateRoot(),
		UserID:            m.UserID,
		BusinessName:      m.BusinessName,
		BusinessType:      m.BusinessType,
		ContactPerson:     m.ContactPerson,
		Email:             m.Email,
		Phone:             m.Phone,
		GSTIN:             valueobject.GSTIN(m.GSTIN),
		EstablishedYear:   m.EstablishedYear,
		IsVerified:        m.IsVerified,
		Address:           m.AddressColumns.ToDomain(),
	}
}

// FromDomain populates the persistence model from a domain RetailerProfile
func (m *RetailerProfileModel) FromDomain(p *partner.RetailerProfile) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.UserID = p.UserID
	m.BusinessName = p.BusinessName
	m.BusinessType = p.BusinessType
	m.ContactPerson = p.ContactPerson
	m.Email = p.Email
	m.Phone = p.Phone
	m.GSTIN = p.GSTIN.String()
	m.EstablishedYear = p.EstablishedYear
	m.IsVerified = p.IsVerified
	m.AddressColumns = AddressColumnsFromDomain(p.Address)
}

// RetailerProfileModelFromDomain creates a new persistence model from a domain RetailerProfile
func RetailerProfileModelFromDomain(p *partner.RetailerProfile) *RetailerProfileModel {
	m := &RetailerProfileModel{}
	m.FromDomain(p)
	return m
}
