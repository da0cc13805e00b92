package company

import (
	"strings"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/shared/valueobject"
)

// Company is a manufacturer business owned by a user
type Company struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	GSTIN       valueobject.GSTIN
	Address     valueobject.Address
	Phone       string
	Email       string
	IsPublic    bool
	OwnerID     uuid.UUID
	LogoURL     string
}

// Details holds the mutable descriptive fields of a company
type Details struct {
	Name        string
	Description string
	GSTIN       string
	Address     valueobject.Address
	Phone       string
	Email       string
	IsPublic    bool
	LogoURL     string
}

// NewCompany creates a company owned by ownerID
func NewCompany(ownerID uuid.UUID, d Details) (*Company, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Company owner is required")
	}
	c := &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
	}
	if err := c.apply(d); err != nil {
		return nil, err
	}
	c.AddDomainEvent(NewCompanyCreatedEvent(c))
	return c, nil
}

// Update replaces the company details. Applying identical details leaves
// the version unchanged.
func (c *Company) Update(d Details) error {
	before := *c
	if err := c.apply(d); err != nil {
		return err
	}
	if c.sameDetails(&before) {
		return nil
	}
	c.Touch()
	return nil
}

// IsOwnedBy reports whether the user owns the company
func (c *Company) IsOwnedBy(userID uuid.UUID) bool {
	return c.OwnerID == userID
}

func (c *Company) apply(d Details) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}
	gstin, err := valueobject.NewGSTIN(d.GSTIN)
	if err != nil {
		return err
	}
	if d.Address.IsEmpty() {
		return shared.NewDomainError("INVALID_ADDRESS", "Company address is required")
	}
	c.Name = name
	c.Description = strings.TrimSpace(d.Description)
	c.GSTIN = gstin
	c.Address = d.Address
	c.Phone = strings.TrimSpace(d.Phone)
	c.Email = strings.ToLower(strings.TrimSpace(d.Email))
	c.IsPublic = d.IsPublic
	c.LogoURL = strings.TrimSpace(d.LogoURL)
	return nil
}

func (c *Company) sameDetails(o *Company) bool {
	return c.Name == o.Name &&
		c.Description == o.Description &&
		c.GSTIN == o.GSTIN &&
		c.Address.Equals(o.Address) &&
		c.Phone == o.Phone &&
		c.Email == o.Email &&
		c.IsPublic == o.IsPublic &&
		c.LogoURL == o.LogoURL
}
