package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/company"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/shared/valueobject"
)

// AdminActor returns an administrator principal.
func AdminActor() identity.Actor {
	return identity.Actor{UserID: uuid.New(), Username: "admin", Roles: []identity.Role{identity.RoleAdmin}}
}

// ManufacturerActor returns a manufacturer principal with the given user ID.
func ManufacturerActor(userID uuid.UUID) identity.Actor {
	return identity.Actor{UserID: userID, Username: "maker", Roles: []identity.Role{identity.RoleManufacturer}}
}

// EmployeeActor returns an employee principal working for the company.
func EmployeeActor(userID, companyID uuid.UUID) identity.Actor {
	return identity.Actor{UserID: userID, Username: "driver", Roles: []identity.Role{identity.RoleEmployee}, CompanyID: &companyID}
}

// RetailerActor returns a retailer principal with the given user ID.
func RetailerActor(userID uuid.UUID) identity.Actor {
	return identity.Actor{UserID: userID, Username: "shop", Roles: []identity.Role{identity.RoleRetailer}}
}

// TestAddress returns a valid address in the given state.
func TestAddress(t *testing.T, state string) valueobject.Address {
	t.Helper()
	addr, err := valueobject.NewAddress("12 MG Road", "Pune", state, "411001")
	require.NoError(t, err)
	return addr
}

// NewTestCompany creates a company owned by ownerID in Maharashtra.
func NewTestCompany(t *testing.T, ownerID uuid.UUID) *company.Company {
	t.Helper()
	c, err := company.NewCompany(ownerID, company.Details{
		Name:    "Acme Foods",
		GSTIN:   "27AAPFU0939F1ZV",
		Address: TestAddress(t, "Maharashtra"),
	})
	require.NoError(t, err)
	Persisted(&c.BaseAggregateRoot)
	return c
}

// NewTestRetailer creates an active retailer of the company in the given state.
func NewTestRetailer(t *testing.T, companyID uuid.UUID, state string) *partner.Retailer {
	t.Helper()
	r, err := partner.NewRetailer(companyID, partner.RetailerDetails{
		Name:     "Corner Store",
		Contact:  "9876543210",
		Address:  TestAddress(t, state),
		IsActive: true,
	})
	require.NoError(t, err)
	Persisted(&r.BaseAggregateRoot)
	return r
}

// NewTestProfile creates a retailer profile for the user.
func NewTestProfile(t *testing.T, userID uuid.UUID) *partner.RetailerProfile {
	t.Helper()
	p, err := partner.NewRetailerProfile(userID, partner.ProfileDetails{
		BusinessName:  "Corner Store",
		ContactPerson: "Meera",
		Email:         "meera@example.com",
		Phone:         "9876543210",
		Address:       TestAddress(t, "Maharashtra"),
	})
	require.NoError(t, err)
	Persisted(&p.BaseAggregateRoot)
	return p
}

// NewTestProduct creates an active product with 18% GST split as CGST and SGST.
func NewTestProduct(t *testing.T, companyID uuid.UUID, name string, price string, available int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(companyID, catalog.ProductDetails{
		Name:     name,
		HSNCode:  "1905",
		UQC:      "NOS",
		Price:    decimal.RequireFromString(price),
		CGSTRate: decimal.NewFromInt(9),
		SGSTRate: decimal.NewFromInt(9),
	}, available)
	require.NoError(t, err)
	Persisted(&p.BaseAggregateRoot)
	return p
}

// Persisted marks an aggregate as loaded from the store and drops its pending events.
func Persisted(a *shared.BaseAggregateRoot) {
	a.MarkPersisted()
	a.ClearDomainEvents()
}

// NewTestUser creates an active user with the given roles.
func NewTestUser(t *testing.T, username string, roles ...identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(username, username+"@example.com", "Passw0rd!", roles)
	require.NoError(t, err)
	Persisted(&u.BaseAggregateRoot)
	return u
}
