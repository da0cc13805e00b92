// Package access decides which companies an authenticated actor may read or change.
package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/company"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/shared"
)

// Scope is the set of companies an actor may see in list operations
type Scope struct {
	// All is set for administrators without a company filter
	All        bool
	CompanyIDs []uuid.UUID
}

// Empty reports whether the scope matches no company
func (s Scope) Empty() bool {
	return !s.All && len(s.CompanyIDs) == 0
}

// Includes reports whether the company is within the scope
func (s Scope) Includes(companyID uuid.UUID) bool {
	if s.All {
		return true
	}
	for _, id := range s.CompanyIDs {
		if id == companyID {
			return true
		}
	}
	return false
}

// Apply narrows a repository filter to the scope
func (s Scope) Apply(filter shared.Filter) shared.Filter {
	if s.All {
		return filter
	}
	if len(s.CompanyIDs) == 1 {
		return filter.With("company_id", s.CompanyIDs[0])
	}
	return filter.With("company_id", s.CompanyIDs)
}

// Single returns the only company of the scope, nil when the scope spans all companies or several
func (s Scope) Single() *uuid.UUID {
	if s.All || len(s.CompanyIDs) != 1 {
		return nil
	}
	id := s.CompanyIDs[0]
	return &id
}

// Guard authorizes actors against companies
type Guard struct {
	companies company.CompanyRepository
}

// NewGuard creates a new Guard
func NewGuard(companies company.CompanyRepository) *Guard {
	return &Guard{companies: companies}
}

// AuthorizeCompany checks that the actor may manage data of the company.
// Admins pass, manufacturers must own the company and employees must belong to it.
func (g *Guard) AuthorizeCompany(ctx context.Context, actor identity.Actor, companyID uuid.UUID) (*company.Company, error) {
	c, err := g.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Company")
		}
		return nil, err
	}
	if CanAccess(actor, c) {
		return c, nil
	}
	return nil, shared.ErrForbidden
}

// CanAccess reports whether the actor may manage the company
func CanAccess(actor identity.Actor, c *company.Company) bool {
	switch {
	case actor.IsAdmin():
		return true
	case actor.HasRole(identity.RoleManufacturer) && c.IsOwnedBy(actor.UserID):
		return true
	case actor.HasRole(identity.RoleEmployee) && actor.CompanyID != nil && *actor.CompanyID == c.ID:
		return true
	}
	return false
}

// ScopeCompanies resolves the companies a list operation covers. A requested
// company is authorized first; without one, admins see everything,
// manufacturers their own companies and employees their employer.
func (g *Guard) ScopeCompanies(ctx context.Context, actor identity.Actor, requested *uuid.UUID) (Scope, error) {
	if requested != nil {
		if _, err := g.AuthorizeCompany(ctx, actor, *requested); err != nil {
			return Scope{}, err
		}
		return Scope{CompanyIDs: []uuid.UUID{*requested}}, nil
	}
	switch {
	case actor.IsAdmin():
		return Scope{All: true}, nil
	case actor.HasRole(identity.RoleManufacturer):
		owned, err := g.companies.FindByOwner(ctx, actor.UserID, shared.Filter{})
		if err != nil {
			return Scope{}, err
		}
		ids := make([]uuid.UUID, 0, len(owned))
		for _, c := range owned {
			ids = append(ids, c.ID)
		}
		return Scope{CompanyIDs: ids}, nil
	case actor.HasRole(identity.RoleEmployee) && actor.CompanyID != nil:
		return Scope{CompanyIDs: []uuid.UUID{*actor.CompanyID}}, nil
	}
	return Scope{}, shared.ErrForbidden
}
