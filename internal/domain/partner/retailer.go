package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/shared/valueobject"
)

// Retailer is a shop a company sells to
type Retailer struct {
	shared.CompanyAggregateRoot
	Name                  string
	Contact               string
	ContactPerson         string
	Email                 string
	GSTIN                 valueobject.GSTIN
	Address               valueobject.Address
	DistanceFromWarehouse decimal.Decimal
	IsActive              bool
	RetailerProfileID     *uuid.UUID
}

// RetailerDetails holds the mutable fields of a retailer
type RetailerDetails struct {
	Name                  string
	Contact               string
	ContactPerson         string
	Email                 string
	GSTIN                 string
	Address               valueobject.Address
	DistanceFromWarehouse decimal.Decimal
	IsActive              bool
}

// NewRetailer creates an active retailer of a company
func NewRetailer(companyID uuid.UUID, d RetailerDetails) (*Retailer, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company is required")
	}
	r := &Retailer{CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID)}
	if err := r.apply(d); err != nil {
		return nil, err
	}
	return r, nil
}

// NewRetailerFromProfile creates the retailer record of an approved connection
func NewRetailerFromProfile(companyID uuid.UUID, p *RetailerProfile, distance decimal.Decimal) (*Retailer, error) {
	r, err := NewRetailer(companyID, RetailerDetails{
		Name:                  p.BusinessName,
		Contact:               p.Phone,
		ContactPerson:         p.ContactPerson,
		Email:                 p.Email,
		GSTIN:                 p.GSTIN.String(),
		Address:               p.Address,
		DistanceFromWarehouse: distance,
		IsActive:              true,
	})
	if err != nil {
		return nil, err
	}
	id := p.ID
	r.RetailerProfileID = &id
	return r, nil
}

// Update replaces the retailer details; identical input is a no-op
func (r *Retailer) Update(d RetailerDetails) error {
	before := *r
	if err := r.apply(d); err != nil {
		return err
	}
	if r.Name == before.Name && r.Contact == before.Contact && r.ContactPerson == before.ContactPerson &&
		r.Email == before.Email && r.GSTIN == before.GSTIN && r.Address.Equals(before.Address) &&
		r.DistanceFromWarehouse.Equal(before.DistanceFromWarehouse) && r.IsActive == before.IsActive {
		return nil
	}
	r.Touch()
	return nil
}

func (r *Retailer) apply(d RetailerDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Retailer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Retailer name cannot exceed 200 characters")
	}
	if strings.TrimSpace(d.Contact) == "" {
		return shared.NewDomainError("INVALID_CONTACT", "Retailer contact cannot be empty")
	}
	gstin, err := valueobject.NewOptionalGSTIN(d.GSTIN)
	if err != nil {
		return err
	}
	if d.Address.IsEmpty() {
		return shared.NewDomainError("INVALID_ADDRESS", "Retailer address is required")
	}
	if d.DistanceFromWarehouse.IsNegative() {
		return shared.NewDomainError("INVALID_DISTANCE", "Distance from warehouse cannot be negative")
	}
	r.Name = name
	r.Contact = strings.TrimSpace(d.Contact)
	r.ContactPerson = strings.TrimSpace(d.ContactPerson)
	r.Email = strings.ToLower(strings.TrimSpace(d.Email))
	r.GSTIN = gstin
	r.Address = d.Address
	r.DistanceFromWarehouse = d.DistanceFromWarehouse
	r.IsActive = d.IsActive
	return nil
}
