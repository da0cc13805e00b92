package company

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/company"
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

func companyInput(t *testing.T) CompanyInput {
	return CompanyInput{
		Name:     "Acme Foods",
		GSTIN:    "27aapfu0939f1zv",
		Address:  testutil.TestAddress(t, "Maharashtra"),
		IsPublic: true,
	}
}

func TestCompanyService_Create(t *testing.T) {
	ctx := context.Background()
	companies := new(testutil.MockCompanyRepository)
	events := testutil.NewMockEventHandler()
	svc := NewCompanyService(companies, new(testutil.MockProductRepository), access.NewGuard(companies), events, zap.NewNop())
	owner := uuid.New()

	companies.On("ExistsByGSTIN", ctx, "27AAPFU0939F1ZV").Return(false, nil).Once()
	companies.On("Save", ctx, mock.AnythingOfType("*company.Company")).Return(nil)

	resp, err := svc.Create(ctx, testutil.ManufacturerActor(owner), companyInput(t))
	require.NoError(t, err)
	assert.Equal(t, owner, resp.OwnerID)
	assert.Equal(t, "27AAPFU0939F1ZV", resp.GSTIN)
	assert.Equal(t, []string{company.EventTypeCompanyCreated}, events.HandledTypes())

	companies.On("ExistsByGSTIN", ctx, "27AAPFU0939F1ZV").Return(true, nil).Once()
	_, err = svc.Create(ctx, testutil.ManufacturerActor(owner), companyInput(t))
	requireCode(t, err, "ALREADY_EXISTS")

	_, err = svc.Create(ctx, testutil.RetailerActor(owner), companyInput(t))
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCompanyService_GetByID(t *testing.T) {
	ctx := context.Background()
	companies := new(testutil.MockCompanyRepository)
	svc := NewCompanyService(companies, nil, access.NewGuard(companies), nil, zap.NewNop())
	owner := uuid.New()
	c := testutil.NewTestCompany(t, owner)
	companies.On("FindByID", ctx, c.ID).Return(c, nil)

	resp, err := svc.GetByID(ctx, testutil.ManufacturerActor(owner), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, resp.ID)

	_, err = svc.GetByID(ctx, testutil.RetailerActor(uuid.New()), c.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden, "private companies are hidden from strangers")

	c.IsPublic = true
	_, err = svc.GetByID(ctx, testutil.RetailerActor(uuid.New()), c.ID)
	require.NoError(t, err)

	missing := uuid.New()
	companies.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	_, err = svc.GetByID(ctx, testutil.AdminActor(), missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCompanyService_List(t *testing.T) {
	ctx := context.Background()
	companies := new(testutil.MockCompanyRepository)
	svc := NewCompanyService(companies, nil, access.NewGuard(companies), nil, zap.NewNop())
	owner := uuid.New()
	c := testutil.NewTestCompany(t, owner)

	f := shared.DefaultFilter()
	companies.On("FindByOwner", ctx, owner, f).Return([]company.Company{*c}, nil)
	companies.On("Count", ctx, f.With("owner_id", owner)).Return(int64(1), nil)

	page, err := svc.List(ctx, testutil.ManufacturerActor(owner), ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, c.ID, page.Items[0].ID)

	companies.On("FindAll", ctx, f).Return([]company.Company{*c}, nil)
	companies.On("Count", ctx, f).Return(int64(1), nil)
	page, err = svc.List(ctx, testutil.AdminActor(), ListFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	_, err = svc.List(ctx, testutil.RetailerActor(uuid.New()), ListFilter{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCompanyService_Update_Idempotent(t *testing.T) {
	ctx := context.Background()
	companies := new(testutil.MockCompanyRepository)
	svc := NewCompanyService(companies, nil, access.NewGuard(companies), nil, zap.NewNop())
	owner := uuid.New()
	c := testutil.NewTestCompany(t, owner)
	companies.On("FindByID", ctx, c.ID).Return(c, nil)
	companies.On("Save", ctx, c).Return(nil)

	input := CompanyInput{Name: "Acme Foods Pvt", GSTIN: c.GSTIN.String(), Address: c.Address}
	first, err := svc.Update(ctx, testutil.ManufacturerActor(owner), c.ID, input)
	require.NoError(t, err)
	second, err := svc.Update(ctx, testutil.ManufacturerActor(owner), c.ID, input)
	require.NoError(t, err)

	assert.Equal(t, "Acme Foods Pvt", second.Name)
	assert.Equal(t, first.Version, second.Version)
	companies.AssertNotCalled(t, "ExistsByGSTIN", mock.Anything, mock.Anything)

	_, err = svc.Update(ctx, testutil.ManufacturerActor(uuid.New()), c.ID, input)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	employee := testutil.EmployeeActor(uuid.New(), c.ID)
	_, err = svc.Update(ctx, employee, c.ID, input)
	assert.ErrorIs(t, err, shared.ErrForbidden, "employees cannot edit their company")
}

func TestCompanyService_Delete(t *testing.T) {
	ctx := context.Background()
	companies := new(testutil.MockCompanyRepository)
	products := new(testutil.MockProductRepository)
	svc := NewCompanyService(companies, products, access.NewGuard(companies), nil, zap.NewNop())
	owner := uuid.New()
	c := testutil.NewTestCompany(t, owner)
	companies.On("FindByID", ctx, c.ID).Return(c, nil)

	products.On("Count", ctx, shared.Filter{}.With("company_id", c.ID)).Return(int64(2), nil).Once()
	err := svc.Delete(ctx, testutil.ManufacturerActor(owner), c.ID)
	requireCode(t, err, "COMPANY_HAS_PRODUCTS")

	products.On("Count", ctx, shared.Filter{}.With("company_id", c.ID)).Return(int64(0), nil).Once()
	companies.On("Delete", ctx, c.ID).Return(nil)
	require.NoError(t, svc.Delete(ctx, testutil.ManufacturerActor(owner), c.ID))
	companies.AssertCalled(t, "Delete", ctx, c.ID)
}

func newConnectionService(companies *testutil.MockCompanyRepository, conns *testutil.MockConnectionRepository,
	profiles *testutil.MockRetailerProfileRepository, retailers *testutil.MockRetailerRepository, tx *testutil.NoopTx,
) *ConnectionService {
	return NewConnectionService(companies, conns, profiles, retailers, access.NewGuard(companies), tx, nil, zap.NewNop())
}

func TestConnectionService_RequestAndApprove(t *testing.T) {
	ctx := context.Background()
	companies := new(testutil.MockCompanyRepository)
	conns := new(testutil.MockConnectionRepository)
	profiles := new(testutil.MockRetailerProfileRepository)
	retailers := new(testutil.MockRetailerRepository)
	tx := &testutil.NoopTx{}
	svc := newConnectionService(companies, conns, profiles, retailers, tx)

	owner := uuid.New()
	c := testutil.NewTestCompany(t, owner)
	retailerUser := uuid.New()
	profile := testutil.NewTestProfile(t, retailerUser)

	companies.On("FindByID", ctx, c.ID).Return(c, nil)
	profiles.On("FindByUserID", ctx, retailerUser).Return(profile, nil)
	profiles.On("FindByID", ctx, profile.ID).Return(profile, nil)
	conns.On("FindOpen", ctx, c.ID, profile.ID).Return(nil, shared.ErrNotFound).Once()
	conns.On("Save", ctx, mock.AnythingOfType("*company.Connection")).Return(nil)

	req, err := svc.Request(ctx, testutil.RetailerActor(retailerUser), c.ID, "We would like to stock your biscuits")
	require.NoError(t, err)
	assert.Equal(t, "pending", req.Status)

	var stored *company.Connection
	for _, call := range conns.Calls {
		if call.Method == "Save" {
			stored = call.Arguments.Get(1).(*company.Connection)
		}
	}
	require.NotNil(t, stored)
	conns.On("FindOpen", ctx, c.ID, profile.ID).Return(stored, nil).Once()
	_, err = svc.Request(ctx, testutil.RetailerActor(retailerUser), c.ID, "again")
	requireCode(t, err, "ALREADY_EXISTS")

	conns.On("FindByID", ctx, stored.ID).Return(stored, nil)
	var created *partner.Retailer
	retailers.On("Save", ctx, mock.AnythingOfType("*partner.Retailer")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*partner.Retailer) }).
		Return(nil)

	_, err = svc.Respond(ctx, testutil.ManufacturerActor(uuid.New()), stored.ID, RespondInput{Status: "approved"})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	resp, err := svc.Respond(ctx, testutil.ManufacturerActor(owner), stored.ID, RespondInput{
		Status:       "approved",
		CreditLimit:  decimal.NewFromInt(50000),
		PaymentTerms: "net 30",
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, owner, *resp.ApprovedBy)
	require.NotNil(t, created)
	assert.Equal(t, c.ID, created.CompanyID)
	assert.Equal(t, created.ID, *resp.RetailerID)
	require.NotNil(t, created.RetailerProfileID)
	assert.Equal(t, profile.ID, *created.RetailerProfileID)
	assert.Equal(t, 1, tx.Calls)

	_, err = svc.Respond(ctx, testutil.ManufacturerActor(owner), stored.ID, RespondInput{Status: "rejected"})
	requireCode(t, err, "INVALID_STATE")
}

func TestConnectionService_Request_RequiresProfile(t *testing.T) {
	ctx := context.Background()
	profiles := new(testutil.MockRetailerProfileRepository)
	svc := newConnectionService(new(testutil.MockCompanyRepository), new(testutil.MockConnectionRepository), profiles, nil, &testutil.NoopTx{})
	user := uuid.New()
	profiles.On("FindByUserID", ctx, user).Return(nil, shared.ErrNotFound)

	_, err := svc.Request(ctx, testutil.RetailerActor(user), uuid.New(), "")
	requireCode(t, err, "PROFILE_REQUIRED")

	_, err = svc.Request(ctx, testutil.ManufacturerActor(user), uuid.New(), "")
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestConnectionService_ListForCompany(t *testing.T) {
	ctx := context.Background()
	companies := new(testutil.MockCompanyRepository)
	conns := new(testutil.MockConnectionRepository)
	svc := newConnectionService(companies, conns, nil, nil, &testutil.NoopTx{})
	owner := uuid.New()
	c := testutil.NewTestCompany(t, owner)
	companies.On("FindByID", ctx, c.ID).Return(c, nil)
	conns.On("FindByCompany", ctx, c.ID, company.ConnectionPending).Return([]company.Connection{}, nil)

	list, err := svc.ListForCompany(ctx, testutil.ManufacturerActor(owner), c.ID, "pending")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.ListForCompany(ctx, testutil.ManufacturerActor(owner), c.ID, "maybe")
	requireCode(t, err, "INVALID_STATUS")
}
