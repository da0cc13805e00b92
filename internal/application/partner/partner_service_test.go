package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/company"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/tests/testutil"
	"go.uber.org/zap"
)

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	assert.Equal(t, code, de.Code)
}

func retailerInput(t *testing.T) RetailerInput {
	return RetailerInput{
		Name:     "Corner Store",
		Contact:  "9876543210",
		Address:  testutil.TestAddress(t, "Karnataka"),
		IsActive: true,
	}
}

func TestRetailerService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	companies := new(testutil.MockCompanyRepository)
	retailers := new(testutil.MockRetailerRepository)
	events := testutil.NewMockEventHandler()
	svc := NewRetailerService(retailers, access.NewGuard(companies), events, zap.NewNop())
	owner := uuid.New()
	c := testutil.NewTestCompany(t, owner)
	companies.On("FindByID", ctx, c.ID).Return(c, nil)
	retailers.On("Save", ctx, mock.AnythingOfType("*partner.Retailer")).Return(nil)

	resp, err := svc.Create(ctx, testutil.ManufacturerActor(owner), c.ID, retailerInput(t))
	require.NoError(t, err)
	assert.Equal(t, c.ID, resp.CompanyID)
	assert.Equal(t, "Karnataka", resp.Address.State())
	assert.Equal(t, []string{partner.EventTypeRetailerAdded}, events.HandledTypes())

	_, err = svc.Create(ctx, testutil.ManufacturerActor(uuid.New()), c.ID, retailerInput(t))
	assert.ErrorIs(t, err, shared.ErrForbidden)

	bad := retailerInput(t)
	bad.Name = " "
	_, err = svc.Create(ctx, testutil.ManufacturerActor(owner), c.ID, bad)
	requireCode(t, err, "INVALID_NAME")

	r := testutil.NewTestRetailer(t, c.ID, "Karnataka")
	retailers.On("FindByID", ctx, r.ID).Return(r, nil)
	got, err := svc.GetByID(ctx, testutil.EmployeeActor(uuid.New(), c.ID), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	missing := uuid.New()
	retailers.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	_, err = svc.GetByID(ctx, testutil.AdminActor(), missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRetailerService_List(t *testing.T) {
	ctx := context.Background()
	companies := new(testutil.MockCompanyRepository)
	retailers := new(testutil.MockRetailerRepository)
	svc := NewRetailerService(retailers, access.NewGuard(companies), nil, zap.NewNop())
	owner := uuid.New()
	c1 := testutil.NewTestCompany(t, owner)
	c2 := testutil.NewTestCompany(t, owner)
	companies.On("FindByOwner", ctx, owner, shared.Filter{}).Return([]company.Company{*c1, *c2}, nil)

	expected := shared.DefaultFilter().With("company_id", []uuid.UUID{c1.ID, c2.ID})
	rows := []partner.Retailer{*testutil.NewTestRetailer(t, c1.ID, "Goa")}
	retailers.On("FindAll", ctx, expected).Return(rows, nil)
	retailers.On("Count", ctx, expected).Return(int64(1), nil)

	page, err := svc.List(ctx, testutil.ManufacturerActor(owner), RetailerListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)

	_, err = svc.List(ctx, testutil.RetailerActor(uuid.New()), RetailerListFilter{})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	lonely := uuid.New()
	companies.On("FindByOwner", ctx, lonely, shared.Filter{}).Return([]company.Company{}, nil)
	page, err = svc.List(ctx, testutil.ManufacturerActor(lonely), RetailerListFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	retailers.AssertNumberOfCalls(t, "FindAll", 1)
}

func TestRetailerService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	companies := new(testutil.MockCompanyRepository)
	retailers := new(testutil.MockRetailerRepository)
	svc := NewRetailerService(retailers, access.NewGuard(companies), nil, zap.NewNop())
	owner := uuid.New()
	c := testutil.NewTestCompany(t, owner)
	r := testutil.NewTestRetailer(t, c.ID, "Karnataka")
	companies.On("FindByID", ctx, c.ID).Return(c, nil)
	retailers.On("FindByID", ctx, r.ID).Return(r, nil)
	retailers.On("Save", ctx, r).Return(nil)
	retailers.On("Delete", ctx, r.ID).Return(nil)

	resp, err := svc.Update(ctx, testutil.ManufacturerActor(owner), r.ID, retailerInput(t))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Version, "same values leave the version untouched")

	in := retailerInput(t)
	in.Name = "Corner Store Plus"
	resp, err = svc.Update(ctx, testutil.ManufacturerActor(owner), r.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Version)

	require.NoError(t, svc.Delete(ctx, testutil.AdminActor(), r.ID))
	err = svc.Delete(ctx, testutil.RetailerActor(uuid.New()), r.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	retailers.AssertNumberOfCalls(t, "Delete", 1)
}

func profileInput(t *testing.T) ProfileInput {
	return ProfileInput{
		BusinessName:  "Corner Store",
		ContactPerson: "Meera",
		Email:         "Meera@Example.com",
		Phone:         "9876543210",
		Address:       testutil.TestAddress(t, "Maharashtra"),
	}
}

func TestProfileService_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	profiles := new(testutil.MockRetailerProfileRepository)
	users := new(testutil.MockUserRepository)
	svc := NewProfileService(profiles, users, nil, nil, nil, zap.NewNop())
	user := uuid.New()
	actor := testutil.RetailerActor(user)

	profiles.On("FindByUserID", ctx, user).Return(nil, shared.ErrNotFound).Once()
	profiles.On("Save", ctx, mock.AnythingOfType("*partner.RetailerProfile")).Return(nil)
	resp, err := svc.Create(ctx, actor, profileInput(t))
	require.NoError(t, err)
	assert.Equal(t, "meera@example.com", resp.Email)
	assert.False(t, resp.IsVerified)

	existing := testutil.NewTestProfile(t, user)
	profiles.On("FindByUserID", ctx, user).Return(existing, nil)
	_, err = svc.Create(ctx, actor, profileInput(t))
	requireCode(t, err, "ALREADY_EXISTS")

	got, err := svc.Get(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)

	in := profileInput(t)
	in.BusinessType = "Grocery"
	updated, err := svc.Update(ctx, actor, in)
	require.NoError(t, err)
	assert.Equal(t, "Grocery", updated.BusinessType)

	_, err = svc.Create(ctx, testutil.ManufacturerActor(user), profileInput(t))
	assert.ErrorIs(t, err, shared.ErrForbidden)

	stranger := uuid.New()
	profiles.On("FindByUserID", ctx, stranger).Return(nil, shared.ErrNotFound)
	_, err = svc.Get(ctx, testutil.RetailerActor(stranger))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProfileService_EmailFallsBackToAccount(t *testing.T) {
	ctx := context.Background()
	profiles := new(testutil.MockRetailerProfileRepository)
	users := new(testutil.MockUserRepository)
	svc := NewProfileService(profiles, users, nil, nil, nil, zap.NewNop())

	account, err := identity.NewUser("meera", "meera.shop@example.com", "s3cret-pass1", []identity.Role{identity.RoleRetailer})
	require.NoError(t, err)
	actor := testutil.RetailerActor(account.ID)
	profiles.On("FindByUserID", ctx, account.ID).Return(nil, shared.ErrNotFound).Once()
	profiles.On("Save", ctx, mock.AnythingOfType("*partner.RetailerProfile")).Return(nil)
	users.On("FindByID", ctx, account.ID).Return(account, nil)

	in := profileInput(t)
	in.Email = ""
	resp, err := svc.Create(ctx, actor, in)
	require.NoError(t, err)
	assert.Equal(t, "meera.shop@example.com", resp.Email)

	existing := testutil.NewTestProfile(t, account.ID)
	profiles.On("FindByUserID", ctx, account.ID).Return(existing, nil)
	updated, err := svc.Update(ctx, actor, in)
	require.NoError(t, err)
	assert.Equal(t, existing.Email, updated.Email, "an update without e-mail keeps the stored one")

	// without an account record the e-mail is still required
	ghost := uuid.New()
	profiles.On("FindByUserID", ctx, ghost).Return(nil, shared.ErrNotFound)
	users.On("FindByID", ctx, ghost).Return(nil, shared.ErrNotFound)
	_, err = svc.Create(ctx, testutil.RetailerActor(ghost), in)
	requireCode(t, err, "INVALID_EMAIL")
}

func TestProfileService_Counts(t *testing.T) {
	ctx := context.Background()
	profiles := new(testutil.MockRetailerProfileRepository)
	retailers := new(testutil.MockRetailerRepository)
	conns := new(testutil.MockConnectionRepository)
	orders := new(testutil.MockOrderRepository)
	svc := NewProfileService(profiles, nil, retailers, conns, orders, zap.NewNop())
	user := uuid.New()
	p := testutil.NewTestProfile(t, user)
	profiles.On("FindByUserID", ctx, user).Return(p, nil)

	conns.On("CountByProfile", ctx, p.ID, company.ConnectionApproved).Return(int64(2), nil)
	conns.On("CountByProfile", ctx, p.ID, company.ConnectionPending).Return(int64(1), nil)
	r1 := testutil.NewTestRetailer(t, uuid.New(), "Goa")
	r2 := testutil.NewTestRetailer(t, uuid.New(), "Goa")
	retailers.On("FindByProfile", ctx, p.ID).Return([]partner.Retailer{*r1, *r2}, nil)
	orders.On("Count", ctx, shared.Filter{}.With("retailer_id", []uuid.UUID{r1.ID, r2.ID})).Return(int64(7), nil)

	counts, err := svc.Counts(ctx, testutil.RetailerActor(user))
	require.NoError(t, err)
	assert.Equal(t, RetailerCounts{ConnectedCompanies: 2, PendingRequests: 1, TotalOrders: 7}, *counts)
}

func TestProfileService_CountsWithoutRetailers(t *testing.T) {
	ctx := context.Background()
	profiles := new(testutil.MockRetailerProfileRepository)
	retailers := new(testutil.MockRetailerRepository)
	conns := new(testutil.MockConnectionRepository)
	orders := new(testutil.MockOrderRepository)
	svc := NewProfileService(profiles, nil, retailers, conns, orders, zap.NewNop())
	user := uuid.New()
	p := testutil.NewTestProfile(t, user)
	profiles.On("FindByUserID", ctx, user).Return(p, nil)
	conns.On("CountByProfile", ctx, p.ID, mock.Anything).Return(int64(0), nil)
	retailers.On("FindByProfile", ctx, p.ID).Return([]partner.Retailer{}, nil)

	counts, err := svc.Counts(ctx, testutil.RetailerActor(user))
	require.NoError(t, err)
	assert.Zero(t, counts.TotalOrders)
	orders.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}
