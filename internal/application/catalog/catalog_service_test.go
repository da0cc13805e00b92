package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/company"
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

type fixture struct {
	companies   *testutil.MockCompanyRepository
	categories  *testutil.MockCategoryRepository
	products    *testutil.MockProductRepository
	events      *testutil.MockEventHandler
	categorySvc *CategoryService
	productSvc  *ProductService
	owner       uuid.UUID
	company     *company.Company
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		companies:  new(testutil.MockCompanyRepository),
		categories: new(testutil.MockCategoryRepository),
		products:   new(testutil.MockProductRepository),
		events:     testutil.NewMockEventHandler(),
		owner:      uuid.New(),
	}
	guard := access.NewGuard(f.companies)
	f.categorySvc = NewCategoryService(f.categories, f.products, guard, f.events, zap.NewNop())
	f.productSvc = NewProductService(f.products, f.categories, guard, f.events, zap.NewNop())
	f.company = testutil.NewTestCompany(t, f.owner)
	f.companies.On("FindByID", mock.Anything, f.company.ID).Return(f.company, nil)
	return f
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	actor := testutil.ManufacturerActor(f.owner)

	f.categories.On("ExistsByName", ctx, f.company.ID, "Snacks").Return(false, nil).Once()
	f.categories.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)
	resp, err := f.categorySvc.Create(ctx, actor, f.company.ID, "  Snacks ")
	require.NoError(t, err)
	assert.Equal(t, "Snacks", resp.Name)
	assert.Equal(t, []string{catalog.EventTypeCategoryAdded}, f.events.HandledTypes())

	f.categories.On("ExistsByName", ctx, f.company.ID, "Snacks").Return(true, nil).Once()
	_, err = f.categorySvc.Create(ctx, actor, f.company.ID, "Snacks")
	requireCode(t, err, "ALREADY_EXISTS")

	_, err = f.categorySvc.Create(ctx, actor, f.company.ID, "")
	requireCode(t, err, "INVALID_NAME")

	_, err = f.categorySvc.Create(ctx, testutil.ManufacturerActor(uuid.New()), f.company.ID, "Drinks")
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCategoryService_RenameAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	actor := testutil.ManufacturerActor(f.owner)
	c, err := catalog.NewCategory(f.company.ID, "Snacks")
	require.NoError(t, err)
	testutil.Persisted(&c.BaseAggregateRoot)
	f.categories.On("FindByID", ctx, c.ID).Return(c, nil)
	f.categories.On("Save", ctx, c).Return(nil)
	f.categories.On("Delete", ctx, c.ID).Return(nil)

	resp, err := f.categorySvc.Rename(ctx, actor, c.ID, "Snacks")
	require.NoError(t, err)
	assert.Equal(t, "Snacks", resp.Name)
	f.categories.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	f.categories.On("ExistsByName", ctx, f.company.ID, "Namkeen").Return(false, nil)
	resp, err = f.categorySvc.Rename(ctx, actor, c.ID, "Namkeen")
	require.NoError(t, err)
	assert.Equal(t, "Namkeen", resp.Name)
	assert.Equal(t, 2, c.Version)

	f.events.Reset()
	require.NoError(t, f.categorySvc.Delete(ctx, actor, c.ID))
	assert.Equal(t, []string{catalog.EventTypeCategoryRemoved}, f.events.HandledTypes())

	missing := uuid.New()
	f.categories.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	err = f.categorySvc.Delete(ctx, actor, missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCategoryService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, err := catalog.NewCategory(f.company.ID, "Snacks")
	require.NoError(t, err)

	expected := shared.Filter{OrderBy: "name", OrderDir: "asc"}.With("company_id", f.company.ID)
	f.categories.On("FindAll", ctx, expected).Return([]catalog.Category{*c}, nil)

	list, err := f.categorySvc.List(ctx, testutil.EmployeeActor(uuid.New(), f.company.ID), nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Snacks", list[0].Name)

	_, err = f.categorySvc.List(ctx, testutil.RetailerActor(uuid.New()), nil)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCategoryService_StockData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	other := testutil.NewTestCompany(t, f.owner)
	f.companies.On("FindByOwner", ctx, f.owner, shared.Filter{}).Return([]company.Company{*f.company, *other}, nil)

	first := f.company.ID
	second := other.ID
	f.products.On("StockByCategory", ctx, &first).Return([]catalog.CategoryStock{
		{Name: "Snacks", Value: 10},
		{Name: "", Value: 3},
	}, nil)
	f.products.On("StockByCategory", ctx, &second).Return([]catalog.CategoryStock{
		{Name: "Snacks", Value: 5},
		{Name: "Drinks", Value: 7},
	}, nil)

	data, err := f.categorySvc.StockData(ctx, testutil.ManufacturerActor(f.owner), nil)
	require.NoError(t, err)
	assert.Equal(t, []CategoryStockResponse{
		{Name: "Drinks", Value: 7},
		{Name: "Snacks", Value: 15},
		{Name: UncategorizedName, Value: 3},
	}, data)
}

func TestMergeStock(t *testing.T) {
	out := mergeStock([]catalog.CategoryStock{{Name: "", Value: 1}, {Name: "", Value: 2}})
	assert.Equal(t, []CategoryStockResponse{{Name: UncategorizedName, Value: 3}}, out)
	assert.Empty(t, mergeStock(nil))
}

func productInput() ProductInput {
	return ProductInput{
		Name:              "Glucose Biscuits",
		HSNCode:           "1905",
		UQC:               "nos",
		Price:             decimal.RequireFromString("25.50"),
		CGSTRate:          decimal.NewFromInt(9),
		SGSTRate:          decimal.NewFromInt(9),
		AvailableQuantity: 100,
	}
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	actor := testutil.ManufacturerActor(f.owner)
	f.products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := f.productSvc.Create(ctx, actor, f.company.ID, productInput())
	require.NoError(t, err)
	assert.Equal(t, "NOS", resp.UQC)
	assert.Equal(t, []string{catalog.EventTypeProductAdded}, f.events.HandledTypes())
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, int64(100), resp.AvailableQuantity)

	in := productInput()
	in.AvailableQuantity = 0
	resp, err = f.productSvc.Create(ctx, actor, f.company.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "out_of_stock", resp.Status)

	foreign, err := catalog.NewCategory(uuid.New(), "Elsewhere")
	require.NoError(t, err)
	f.categories.On("FindByID", ctx, foreign.ID).Return(foreign, nil)
	in = productInput()
	in.CategoryID = &foreign.ID
	_, err = f.productSvc.Create(ctx, actor, f.company.ID, in)
	requireCode(t, err, "INVALID_CATEGORY")

	in = productInput()
	in.HSNCode = "19"
	_, err = f.productSvc.Create(ctx, actor, f.company.ID, in)
	requireCode(t, err, "INVALID_HSN_CODE")
}

func TestProductService_UpdateAndQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	actor := testutil.ManufacturerActor(f.owner)
	p := testutil.NewTestProduct(t, f.company.ID, "Glucose Biscuits", "25.50", 100)
	f.products.On("FindByID", ctx, p.ID).Return(p, nil)
	f.products.On("Save", ctx, p).Return(nil)

	in := productInput()
	in.UQC = "NOS"
	resp, err := f.productSvc.Update(ctx, actor, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Version, "identical details leave the version untouched")

	in.Status = "inactive"
	resp, err = f.productSvc.Update(ctx, actor, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)

	in.Status = "out_of_stock"
	_, err = f.productSvc.Update(ctx, actor, p.ID, in)
	requireCode(t, err, "INVALID_STATUS")

	resp, err = f.productSvc.UpdateQuantity(ctx, actor, p.ID, QuantityInput{AvailableQuantity: 40, TotalRequiredQuantity: 5, TotalShipped: 60})
	require.NoError(t, err)
	assert.Equal(t, int64(40), resp.AvailableQuantity)
	assert.Equal(t, int64(60), resp.TotalShipped)

	_, err = f.productSvc.UpdateQuantity(ctx, actor, p.ID, QuantityInput{AvailableQuantity: -1})
	requireCode(t, err, "INVALID_QUANTITY")

	_, err = f.productSvc.UpdateQuantity(ctx, testutil.RetailerActor(uuid.New()), p.ID, QuantityInput{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := testutil.NewTestProduct(t, f.company.ID, "Glucose Biscuits", "25.50", 100)

	retailerFilter := shared.DefaultFilter().With("status", catalog.ProductStatusActive)
	f.products.On("FindAll", ctx, retailerFilter).Return([]catalog.Product{*p}, nil)
	f.products.On("Count", ctx, retailerFilter).Return(int64(1), nil)
	page, err := f.productSvc.List(ctx, testutil.RetailerActor(uuid.New()), ProductListFilter{Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	employeeFilter := shared.DefaultFilter().With("company_id", f.company.ID)
	f.products.On("FindAll", ctx, employeeFilter).Return([]catalog.Product{}, nil)
	f.products.On("Count", ctx, employeeFilter).Return(int64(0), nil)
	page, err = f.productSvc.List(ctx, testutil.EmployeeActor(uuid.New(), f.company.ID), ProductListFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = f.productSvc.List(ctx, testutil.AdminActor(), ProductListFilter{Status: "sold"})
	requireCode(t, err, "INVALID_STATUS")
}

func TestProductService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := testutil.NewTestProduct(t, f.company.ID, "Glucose Biscuits", "25.50", 100)
	f.products.On("FindByID", ctx, p.ID).Return(p, nil)
	f.products.On("Delete", ctx, p.ID).Return(nil)

	resp, err := f.productSvc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, resp.ID)

	require.NoError(t, f.productSvc.Delete(ctx, testutil.AdminActor(), p.ID))
	assert.Equal(t, []string{catalog.EventTypeProductRemoved}, f.events.HandledTypes())

	missing := uuid.New()
	f.products.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	_, err = f.productSvc.GetByID(ctx, missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
