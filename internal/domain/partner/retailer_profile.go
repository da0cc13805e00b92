package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/shared/valueobject"
)

// RetailerProfile is the self-managed business profile of a retailer user
type RetailerProfile struct {
	shared.BaseAggregateRoot
	UserID          uuid.UUID
	BusinessName    string
	BusinessType    string
	ContactPerson   string
	Email           string
	Phone           string
	GSTIN           valueobject.GSTIN
	EstablishedYear *int
	IsVerified      bool
	Address         valueobject.Address
}

// ProfileDetails holds the mutable fields of a retailer profile
type ProfileDetails struct {
	BusinessName    string
	BusinessType    string
	ContactPerson   string
	Email           string
	Phone           string
	GSTIN           string
	EstablishedYear *int
	Address         valueobject.Address
}

// NewRetailerProfile creates the profile of a retailer user
func NewRetailerProfile(userID uuid.UUID, d ProfileDetails) (*RetailerProfile, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User is required")
	}
	p := &RetailerProfile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
	}
	if err := p.apply(d); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the profile details; identical input is a no-op
func (p *RetailerProfile) Update(d ProfileDetails) error {
	before := *p
	if err := p.apply(d); err != nil {
		return err
	}
	if p.BusinessName == before.BusinessName && p.BusinessType == before.BusinessType &&
		p.ContactPerson == before.ContactPerson && p.Email == before.Email && p.Phone == before.Phone &&
		p.GSTIN == before.GSTIN && sameYear(p.EstablishedYear, before.EstablishedYear) &&
		p.Address.Equals(before.Address) {
		return nil
	}
	p.Touch()
	return nil
}

// Verify marks the profile as verified by an administrator
func (p *RetailerProfile) Verify() {
	if p.IsVerified {
		return
	}
	p.IsVerified = true
	p.Touch()
}

func (p *RetailerProfile) apply(d ProfileDetails) error {
	if strings.TrimSpace(d.BusinessName) == "" {
		return shared.NewDomainError("INVALID_NAME", "Business name cannot be empty")
	}
	if strings.TrimSpace(d.ContactPerson) == "" {
		return shared.NewDomainError("INVALID_CONTACT", "Contact person cannot be empty")
	}
	if strings.TrimSpace(d.Email) == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if strings.TrimSpace(d.Phone) == "" {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot be empty")
	}
	gstin, err := valueobject.NewOptionalGSTIN(d.GSTIN)
	if err != nil {
		return err
	}
	if d.EstablishedYear != nil {
		y := *d.EstablishedYear
		if y < 1800 || y > time.Now().Year() {
			return shared.NewDomainError("INVALID_YEAR", "Established year is out of range")
		}
	}
	if d.Address.IsEmpty() {
		return shared.NewDomainError("INVALID_ADDRESS", "Business address is required")
	}
	p.BusinessName = strings.TrimSpace(d.BusinessName)
	p.BusinessType = strings.TrimSpace(d.BusinessType)
	p.ContactPerson = strings.TrimSpace(d.ContactPerson)
	p.Email = strings.ToLower(strings.TrimSpace(d.Email))
	p.Phone = strings.TrimSpace(d.Phone)
	p.GSTIN = gstin
	p.EstablishedYear = d.EstablishedYear
	p.Address = d.Address
	return nil
}

func sameYear(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
