package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/company"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/trade"
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
	companies *testutil.MockCompanyRepository
	orders    *testutil.MockOrderRepository
	products  *testutil.MockProductRepository
	retailers *testutil.MockRetailerRepository
	profiles  *testutil.MockRetailerProfileRepository
	shipments *testutil.MockShipmentRepository
	trucks    *testutil.MockTruckRepository
	tx        *testutil.NoopTx
	events    *testutil.MockEventHandler
	svc       *OrderService

	owner    uuid.UUID
	company  *company.Company
	retailer *partner.Retailer
	biscuits *catalog.Product
	juice    *catalog.Product
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		companies: new(testutil.MockCompanyRepository),
		orders:    new(testutil.MockOrderRepository),
		products:  new(testutil.MockProductRepository),
		retailers: new(testutil.MockRetailerRepository),
		profiles:  new(testutil.MockRetailerProfileRepository),
		shipments: new(testutil.MockShipmentRepository),
		trucks:    new(testutil.MockTruckRepository),
		tx:        &testutil.NoopTx{},
		events:    testutil.NewMockEventHandler(),
		owner:     uuid.New(),
	}
	f.svc = NewOrderService(OrderServiceDeps{
		Orders:    f.orders,
		Products:  f.products,
		Retailers: f.retailers,
		Profiles:  f.profiles,
		Shipments: f.shipments,
		Trucks:    f.trucks,
		Guard:     access.NewGuard(f.companies),
		Tx:        f.tx,
		Events:    f.events,
		Logger:    zap.NewNop(),
	})
	f.company = testutil.NewTestCompany(t, f.owner)
	f.retailer = testutil.NewTestRetailer(t, f.company.ID, "Maharashtra")
	f.biscuits = testutil.NewTestProduct(t, f.company.ID, "Glucose Biscuits", "10", 50)
	f.juice = testutil.NewTestProduct(t, f.company.ID, "Mango Juice", "30", 5)

	f.companies.On("FindByID", mock.Anything, f.company.ID).Return(f.company, nil)
	f.retailers.On("FindByID", mock.Anything, f.retailer.ID).Return(f.retailer, nil)
	return f
}

// stockCatalog makes the product repository return copies of the current products
func (f *fixture) stockCatalog() {
	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*f.biscuits, *f.juice}, nil)
}

// savedProducts returns the products of the last SaveAll call
func (f *fixture) savedProducts(t *testing.T) map[string]*catalog.Product {
	t.Helper()
	var last []*catalog.Product
	for _, call := range f.products.Calls {
		if call.Method == "SaveAll" {
			last = call.Arguments.Get(1).([]*catalog.Product)
		}
	}
	out := make(map[string]*catalog.Product, len(last))
	for _, p := range last {
		out[p.Name] = p
	}
	return out
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.stockCatalog()
	f.products.On("SaveAll", ctx, mock.Anything).Return(nil)
	f.orders.On("Save", ctx, mock.AnythingOfType("*trade.Order")).Return(nil)

	resp, err := f.svc.Create(ctx, testutil.ManufacturerActor(f.owner), CreateOrderInput{
		RetailerID: f.retailer.ID,
		Items: []OrderLineInput{
			{ProductID: f.biscuits.ID, Quantity: 4},
			{ProductID: f.juice.ID, Quantity: 2},
			{ProductID: f.biscuits.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "110", resp.TotalAmount.String())
	assert.Equal(t, 1, f.tx.Calls)
	assert.Equal(t, []string{trade.EventTypeOrderPlaced}, f.events.HandledTypes())

	saved := f.savedProducts(t)
	require.Len(t, saved, 2)
	assert.Equal(t, int64(5), saved["Glucose Biscuits"].TotalRequiredQuantity)
	assert.Equal(t, int64(2), saved["Mango Juice"].TotalRequiredQuantity)
	assert.Equal(t, int64(50), saved["Glucose Biscuits"].AvailableQuantity, "placing an order does not touch available stock")
}

func TestOrderService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.stockCatalog()
	actor := testutil.ManufacturerActor(f.owner)

	_, err := f.svc.Create(ctx, actor, CreateOrderInput{RetailerID: f.retailer.ID})
	requireCode(t, err, "NO_ITEMS")

	_, err = f.svc.Create(ctx, actor, CreateOrderInput{
		RetailerID: f.retailer.ID,
		Items:      []OrderLineInput{{ProductID: f.biscuits.ID, Quantity: 0}},
	})
	requireCode(t, err, "INVALID_QUANTITY")

	_, err = f.svc.Create(ctx, actor, CreateOrderInput{
		RetailerID: f.retailer.ID,
		Items:      []OrderLineInput{{ProductID: uuid.New(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	missing := uuid.New()
	f.retailers.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	_, err = f.svc.Create(ctx, actor, CreateOrderInput{RetailerID: missing})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.svc.Create(ctx, testutil.ManufacturerActor(uuid.New()), CreateOrderInput{
		RetailerID: f.retailer.ID,
		Items:      []OrderLineInput{{ProductID: f.biscuits.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Zero(t, f.tx.Calls)
}

func TestOrderService_CreateRejectsForeignProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	foreign := testutil.NewTestProduct(t, uuid.New(), "Other Biscuits", "10", 50)
	f.products.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*foreign}, nil)

	_, err := f.svc.Create(ctx, testutil.AdminActor(), CreateOrderInput{
		RetailerID: f.retailer.ID,
		Items:      []OrderLineInput{{ProductID: foreign.ID, Quantity: 1}},
	})
	requireCode(t, err, "INVALID_PRODUCT")
}

func TestOrderService_CreateByRetailerUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := uuid.New()
	profile := testutil.NewTestProfile(t, user)
	f.profiles.On("FindByUserID", ctx, user).Return(profile, nil)
	f.stockCatalog()
	f.products.On("SaveAll", ctx, mock.Anything).Return(nil)
	f.orders.On("Save", ctx, mock.Anything).Return(nil)
	in := CreateOrderInput{
		RetailerID: f.retailer.ID,
		Items:      []OrderLineInput{{ProductID: f.biscuits.ID, Quantity: 1}},
	}

	_, err := f.svc.Create(ctx, testutil.RetailerActor(user), in)
	assert.ErrorIs(t, err, shared.ErrForbidden, "retailer record is not linked to the profile")

	f.retailer.RetailerProfileID = &profile.ID
	_, err = f.svc.Create(ctx, testutil.RetailerActor(user), in)
	require.NoError(t, err)

	stranger := uuid.New()
	f.profiles.On("FindByUserID", ctx, stranger).Return(nil, shared.ErrNotFound)
	_, err = f.svc.Create(ctx, testutil.RetailerActor(stranger), in)
	requireCode(t, err, "PROFILE_REQUIRED")
}

func placedOrder(t *testing.T, f *fixture, biscuits, juice int64) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder(f.company.ID, f.retailer.ID, []trade.OrderLine{
		{ProductID: f.biscuits.ID, ProductName: f.biscuits.Name, Quantity: biscuits, UnitPrice: f.biscuits.Price},
		{ProductID: f.juice.ID, ProductName: f.juice.Name, Quantity: juice, UnitPrice: f.juice.Price},
	})
	require.NoError(t, err)
	testutil.Persisted(&o.BaseAggregateRoot)
	require.NoError(t, f.biscuits.Reserve(biscuits))
	require.NoError(t, f.juice.Reserve(juice))
	f.orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	return o
}

func TestOrderService_UpdateStatusLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	actor := testutil.ManufacturerActor(f.owner)
	o := placedOrder(t, f, 5, 2)
	f.stockCatalog()
	f.products.On("SaveAll", ctx, mock.Anything).Return(nil)
	f.orders.On("Save", ctx, o).Return(nil)

	resp, err := f.svc.UpdateStatus(ctx, actor, o.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	f.products.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)

	resp, err = f.svc.UpdateStatus(ctx, actor, o.ID, "SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, "shipped", resp.Status)
	saved := f.savedProducts(t)
	assert.Equal(t, int64(45), saved["Glucose Biscuits"].AvailableQuantity)
	assert.Equal(t, int64(0), saved["Glucose Biscuits"].TotalRequiredQuantity)
	assert.Equal(t, int64(5), saved["Glucose Biscuits"].TotalShipped)
	assert.Equal(t, int64(3), saved["Mango Juice"].AvailableQuantity)

	f.events.Reset()
	_, err = f.svc.UpdateStatus(ctx, actor, o.ID, "shipped")
	require.NoError(t, err, "repeating the current status is idempotent")
	assert.Zero(t, f.events.HandledCount())

	_, err = f.svc.UpdateStatus(ctx, actor, o.ID, "pending")
	requireCode(t, err, "INVALID_STATE")

	_, err = f.svc.UpdateStatus(ctx, actor, o.ID, "lost")
	requireCode(t, err, "INVALID_STATUS")
}

func TestOrderService_ShipInsufficientStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := placedOrder(t, f, 1, 9)
	f.stockCatalog()
	f.orders.On("Save", ctx, o).Return(nil)
	_, err := o.ChangeStatus(trade.OrderStatusConfirmed)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, testutil.AdminActor(), o.ID, "shipped")
	requireCode(t, err, "INSUFFICIENT_STOCK")
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrderService_CancelReleasesStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := uuid.New()
	profile := testutil.NewTestProfile(t, user)
	f.retailer.RetailerProfileID = &profile.ID
	f.profiles.On("FindByUserID", ctx, user).Return(profile, nil)
	f.retailers.On("FindByProfile", ctx, profile.ID).Return([]partner.Retailer{*f.retailer}, nil)

	o := placedOrder(t, f, 5, 2)
	f.stockCatalog()
	f.products.On("SaveAll", ctx, mock.Anything).Return(nil)
	f.orders.On("Save", ctx, o).Return(nil)
	f.shipments.On("FindByOrderID", ctx, o.ID).Return(nil, shared.ErrNotFound)

	_, err := f.svc.UpdateStatus(ctx, testutil.RetailerActor(user), o.ID, "confirmed")
	assert.ErrorIs(t, err, shared.ErrForbidden, "retailers may only cancel")

	resp, err := f.svc.UpdateStatus(ctx, testutil.RetailerActor(user), o.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	saved := f.savedProducts(t)
	assert.Equal(t, int64(0), saved["Glucose Biscuits"].TotalRequiredQuantity)
	assert.Equal(t, int64(50), saved["Glucose Biscuits"].AvailableQuantity)
	assert.Equal(t, []string{trade.EventTypeOrderStatusChanged}, f.events.HandledTypes())
}

func TestOrderService_CancelClosesShipment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := placedOrder(t, f, 5, 2)
	_, err := o.ChangeStatus(trade.OrderStatusConfirmed)
	require.NoError(t, err)
	o.ClearDomainEvents()
	f.stockCatalog()
	f.products.On("SaveAll", ctx, mock.Anything).Return(nil)
	f.orders.On("Save", ctx, o).Return(nil)

	truck, err := logistics.NewTruck(f.company.ID, "MH12AB1234", 800)
	require.NoError(t, err)
	truck.Occupy()
	shipment, err := logistics.NewShipment(f.company.ID, o.ID)
	require.NoError(t, err)
	require.NoError(t, shipment.Allocate(uuid.New(), &truck.ID))
	shipment.ClearDomainEvents()

	f.shipments.On("FindByOrderID", ctx, o.ID).Return(shipment, nil)
	f.shipments.On("Save", ctx, shipment).Return(nil)
	f.trucks.On("FindByID", ctx, truck.ID).Return(truck, nil)
	f.trucks.On("Save", ctx, truck).Return(nil)
	f.events.Reset()

	resp, err := f.svc.UpdateStatus(ctx, testutil.ManufacturerActor(f.owner), o.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, logistics.ShipmentStatusCancelled, shipment.Status)
	assert.True(t, truck.IsAvailable)
	assert.Equal(t, 1, f.tx.Calls)
	f.shipments.AssertCalled(t, "Save", ctx, shipment)
	f.trucks.AssertCalled(t, "Save", ctx, truck)
	assert.ElementsMatch(t,
		[]string{trade.EventTypeOrderStatusChanged, logistics.EventTypeShipmentStatusChanged},
		f.events.HandledTypes())
}

func TestOrderService_CancelLeavesClosedShipment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := placedOrder(t, f, 1, 1)
	f.stockCatalog()
	f.products.On("SaveAll", ctx, mock.Anything).Return(nil)
	f.orders.On("Save", ctx, o).Return(nil)

	shipment, err := logistics.NewShipment(f.company.ID, o.ID)
	require.NoError(t, err)
	_, err = shipment.ChangeStatus(logistics.ShipmentStatusCancelled)
	require.NoError(t, err)
	f.shipments.On("FindByOrderID", ctx, o.ID).Return(shipment, nil)

	_, err = f.svc.UpdateStatus(ctx, testutil.AdminActor(), o.ID, "cancelled")
	require.NoError(t, err)
	f.shipments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.trucks.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestOrderService_CancelRollsBackOnShipmentFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := placedOrder(t, f, 1, 1)
	f.stockCatalog()
	f.products.On("SaveAll", ctx, mock.Anything).Return(nil)
	f.orders.On("Save", ctx, o).Return(nil)

	shipment, err := logistics.NewShipment(f.company.ID, o.ID)
	require.NoError(t, err)
	f.shipments.On("FindByOrderID", ctx, o.ID).Return(shipment, nil)
	f.shipments.On("Save", ctx, shipment).Return(shared.ErrConcurrencyConflict)
	f.events.Reset()

	_, err = f.svc.UpdateStatus(ctx, testutil.AdminActor(), o.ID, "cancelled")
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Zero(t, f.events.HandledCount())
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := placedOrder(t, f, 1, 1)

	base := shared.DefaultFilter()
	base.OrderBy = "order_date"
	staff := base.With("status", trade.OrderStatusPending).With("company_id", f.company.ID)
	f.orders.On("FindAll", ctx, staff).Return([]trade.Order{*o}, nil)
	f.orders.On("Count", ctx, staff).Return(int64(1), nil)

	page, err := f.svc.List(ctx, testutil.EmployeeActor(uuid.New(), f.company.ID), OrderListFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	user := uuid.New()
	profile := testutil.NewTestProfile(t, user)
	f.profiles.On("FindByUserID", ctx, user).Return(profile, nil)
	f.retailers.On("FindByProfile", ctx, profile.ID).Return([]partner.Retailer{*f.retailer}, nil)
	own := base.With("retailer_id", []uuid.UUID{f.retailer.ID})
	f.orders.On("FindAll", ctx, own).Return([]trade.Order{*o}, nil)
	f.orders.On("Count", ctx, own).Return(int64(1), nil)

	page, err = f.svc.List(ctx, testutil.RetailerActor(user), OrderListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	other := uuid.New()
	_, err = f.svc.List(ctx, testutil.RetailerActor(user), OrderListFilter{RetailerID: &other})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	nobody := uuid.New()
	f.profiles.On("FindByUserID", ctx, nobody).Return(nil, shared.ErrNotFound)
	page, err = f.svc.List(ctx, testutil.RetailerActor(nobody), OrderListFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestOrderService_ListByRetailer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := placedOrder(t, f, 1, 1)
	expected := shared.Filter{OrderBy: "order_date", OrderDir: "desc"}.With("retailer_id", f.retailer.ID)
	f.orders.On("FindAll", ctx, expected).Return([]trade.Order{*o}, nil)

	list, err := f.svc.ListByRetailer(ctx, testutil.ManufacturerActor(f.owner), f.retailer.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, o.ID, list[0].ID)

	got, err := f.svc.GetByID(ctx, testutil.AdminActor(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}
