package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/application/access"
	billingapp "github.com/supplychain/backend/internal/application/billing"
	catalogapp "github.com/supplychain/backend/internal/application/catalog"
	companyapp "github.com/supplychain/backend/internal/application/company"
	dashboardapp "github.com/supplychain/backend/internal/application/dashboard"
	identityapp "github.com/supplychain/backend/internal/application/identity"
	logisticsapp "github.com/supplychain/backend/internal/application/logistics"
	partnerapp "github.com/supplychain/backend/internal/application/partner"
	tradeapp "github.com/supplychain/backend/internal/application/trade"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/infrastructure/auth"
	"github.com/supplychain/backend/internal/infrastructure/cache"
	"github.com/supplychain/backend/internal/infrastructure/config"
	"github.com/supplychain/backend/internal/infrastructure/event"
	"github.com/supplychain/backend/internal/infrastructure/persistence"
	"github.com/supplychain/backend/internal/interfaces/http/handler"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
	"github.com/supplychain/backend/internal/interfaces/http/router"
	"github.com/supplychain/backend/tests/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// api is the full HTTP stack over an in-memory database
type api struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	jwt    *auth.JWTService
}

func newAPI(t *testing.T, checks map[string]handler.HealthCheck) *api {
	t.Helper()
	middleware.SetupValidator()

	db := testutil.NewSQLiteDB(t)
	log := zap.NewNop()
	bus := event.NewInMemoryEventBus(log)
	tx := persistence.NewGormTransactionScope(db)

	users := persistence.NewGormUserRepository(db)
	companies := persistence.NewGormCompanyRepository(db)
	connections := persistence.NewGormConnectionRepository(db)
	retailers := persistence.NewGormRetailerRepository(db)
	profiles := persistence.NewGormRetailerProfileRepository(db)
	categories := persistence.NewGormCategoryRepository(db)
	products := persistence.NewGormProductRepository(db)
	orders := persistence.NewGormOrderRepository(db)
	employees := persistence.NewGormEmployeeRepository(db)
	trucks := persistence.NewGormTruckRepository(db)
	shipments := persistence.NewGormShipmentRepository(db)
	invoices := persistence.NewGormInvoiceRepository(db)
	guard := access.NewGuard(companies)

	jwtSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test",
		MaxRefreshCount:        3,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	store := cache.NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	authSvc := identityapp.NewAuthService(users, cache.NewPasswordResetStore(store), jwtSvc, blacklist, bus,
		identityapp.DefaultAuthServiceConfig(), log)
	orderSvc := tradeapp.NewOrderService(tradeapp.OrderServiceDeps{
		Orders:    orders,
		Products:  products,
		Retailers: retailers,
		Profiles:  profiles,
		Shipments: shipments,
		Trucks:    trucks,
		Guard:     guard,
		Tx:        tx,
		Events:    bus,
		Logger:    log,
	})

	health := handler.NewHealthHandler("test").WithCheck("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	for name, check := range checks {
		health.WithCheck(name, check)
	}

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Company:    handler.NewCompanyHandler(companyapp.NewCompanyService(companies, products, guard, bus, log)),
		Connection: handler.NewConnectionHandler(companyapp.NewConnectionService(companies, connections, profiles, retailers, guard, tx, bus, log)),
		Retailer:   handler.NewRetailerHandler(partnerapp.NewRetailerService(retailers, guard, bus, log), orderSvc),
		Profile:    handler.NewProfileHandler(partnerapp.NewProfileService(profiles, users, retailers, connections, orders, log)),
		Category:   handler.NewCategoryHandler(catalogapp.NewCategoryService(categories, products, guard, bus, log)),
		Product:    handler.NewProductHandler(catalogapp.NewProductService(products, categories, guard, bus, log)),
		Order:      handler.NewOrderHandler(orderSvc),
		Shipment: handler.NewShipmentHandler(logisticsapp.NewShipmentService(logisticsapp.ShipmentServiceDeps{
			Shipments: shipments,
			Employees: employees,
			Trucks:    trucks,
			Orders:    orders,
			Lifecycle: orderSvc,
			Guard:     guard,
			Tx:        tx,
			Events:    bus,
			Logger:    log,
		})),
		Employee: handler.NewEmployeeHandler(logisticsapp.NewEmployeeService(employees, trucks, retailers, users, guard, tx, bus, log)),
		Truck:    handler.NewTruckHandler(logisticsapp.NewTruckService(trucks, guard, bus, log)),
		Invoice: handler.NewInvoiceHandler(billingapp.NewInvoiceService(billingapp.InvoiceServiceDeps{
			Invoices:  invoices,
			Retailers: retailers,
			Orders:    orders,
			Products:  products,
			Guard:     guard,
			Tx:        tx,
			Events:    bus,
			Logger:    log,
		})),
		Dashboard: handler.NewDashboardHandler(dashboardapp.NewDashboardService(dashboardapp.DashboardServiceDeps{
			Orders:     orders,
			Retailers:  retailers,
			Employees:  employees,
			Trucks:     trucks,
			Products:   products,
			Categories: categories,
			Invoices:   invoices,
			Guard:      guard,
			Logger:     log,
		})),
		Health: health,
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.RegisterAPI(r, h, router.Guards{
		Auth: middleware.JWTAuth(middleware.JWTMiddlewareConfig{JWTService: jwtSvc, TokenBlacklist: blacklist}),
	}).Setup()

	return &api{t: t, db: db, engine: engine, jwt: jwtSvc}
}

// client sends requests with a fixed bearer token
type client struct {
	a     *api
	token string
}

func (a *api) as(actor identity.Actor) client {
	pair, err := a.jwt.GenerateTokenPair(actor)
	require.NoError(a.t, err)
	return client{a: a, token: pair.AccessToken}
}

// retailerUser stores a retailer account and returns its actor
func (a *api) retailerUser(username string) identity.Actor {
	a.t.Helper()
	user, err := identity.NewUser(username, username+"@shops.example", "s3cret-pass1", []identity.Role{identity.RoleRetailer})
	require.NoError(a.t, err)
	require.NoError(a.t, persistence.NewGormUserRepository(a.db).Create(context.Background(), user))
	return testutil.RetailerActor(user.ID)
}

func (a *api) anonymous() client {
	return client{a: a}
}

func (c client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	headers := map[string]string{}
	if c.token != "" {
		headers["Authorization"] = "Bearer " + c.token
	}
	return testutil.DoRequest(c.a.t, c.a.engine, method, "/api/v1"+path, body, headers)
}

type idView struct {
	ID uuid.UUID `json:"id"`
}

func address(state string) map[string]interface{} {
	return map[string]interface{}{
		"line1":   "12 MG Road",
		"city":    "Pune",
		"state":   state,
		"pincode": "411001",
	}
}

func createCompany(t *testing.T, c client, gstin, state string) uuid.UUID {
	t.Helper()
	w := c.do(http.MethodPost, "/companies", map[string]interface{}{
		"name":      "Acme Foods",
		"gstin":     gstin,
		"address":   address(state),
		"is_public": true,
	})
	return testutil.DecodeData[idView](t, w, http.StatusCreated).ID
}

func createRetailer(t *testing.T, c client, companyID uuid.UUID, state string) uuid.UUID {
	t.Helper()
	w := c.do(http.MethodPost, "/retailers", map[string]interface{}{
		"company_id": companyID.String(),
		"name":       "Sharma General Store",
		"contact":    "+91-9123456780",
		"address":    address(state),
	})
	return testutil.DecodeData[idView](t, w, http.StatusCreated).ID
}

func createProduct(t *testing.T, c client, companyID uuid.UUID, available int64) uuid.UUID {
	t.Helper()
	w := c.do(http.MethodPost, "/products", map[string]interface{}{
		"company_id":         companyID.String(),
		"name":               "Mango Juice 1L",
		"hsn_code":           "2009",
		"price":              "100",
		"cgst_rate":          "6",
		"sgst_rate":          "6",
		"available_quantity": available,
	})
	return testutil.DecodeData[idView](t, w, http.StatusCreated).ID
}

func TestAPI_CompanyLifecycle(t *testing.T) {
	a := newAPI(t, nil)
	owner := a.as(testutil.ManufacturerActor(uuid.New()))

	t.Run("validation errors name each field", func(t *testing.T) {
		w := owner.do(http.MethodPost, "/companies", map[string]interface{}{
			"name":  "Acme",
			"gstin": "27AAP",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		env := testutil.DecodeEnvelope[interface{}](t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_VALIDATION", env.Error.Code)

		fields := make([]string, 0, len(env.Error.Details))
		for _, d := range env.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.Contains(t, fields, "gstin")
		assert.Contains(t, fields, "address.line1")
	})

	id := createCompany(t, owner, "27AAPFU0939F1ZV", "Maharashtra")

	w := owner.do(http.MethodGet, "/companies/"+id.String(), nil)
	got := testutil.DecodeData[companyapp.CompanyResponse](t, w, http.StatusOK)
	assert.Equal(t, "Acme Foods", got.Name)
	assert.Equal(t, "27AAPFU0939F1ZV", got.GSTIN)

	w = a.as(testutil.RetailerActor(uuid.New())).do(http.MethodGet, "/companies/public", nil)
	public := testutil.DecodeEnvelope[[]companyapp.CompanyResponse](t, w)
	require.True(t, public.Success)
	require.Len(t, public.Data, 1)
	require.NotNil(t, public.Meta)
	assert.Equal(t, int64(1), public.Meta.Total)

	w = owner.do(http.MethodPut, "/companies/"+id.String(), map[string]interface{}{
		"name":    "Acme Beverages",
		"gstin":   "27AAPFU0939F1ZV",
		"address": address("Maharashtra"),
	})
	updated := testutil.DecodeData[companyapp.CompanyResponse](t, w, http.StatusOK)
	assert.Equal(t, "Acme Beverages", updated.Name)

	stranger := a.as(testutil.ManufacturerActor(uuid.New()))
	w = stranger.do(http.MethodDelete, "/companies/"+id.String(), nil)
	testutil.AssertErrorCode(t, w, "ERR_FORBIDDEN")
	assert.Equal(t, http.StatusForbidden, w.Code)

	testutil.RunHTTPTestCases(t, a.engine, []testutil.HTTPTestCase{
		{
			Name:           "malformed id",
			Path:           "/api/v1/companies/not-a-uuid",
			Headers:        map[string]string{"Authorization": "Bearer " + owner.token},
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   "ERR_INVALID_INPUT",
		},
		{
			Name:           "unknown company",
			Path:           "/api/v1/companies/" + uuid.NewString(),
			Headers:        map[string]string{"Authorization": "Bearer " + owner.token},
			ExpectedStatus: http.StatusNotFound,
			ExpectedCode:   "ERR_NOT_FOUND",
		},
		{
			Name:           "malformed json",
			Method:         http.MethodPost,
			Path:           "/api/v1/companies",
			Body:           "not an object",
			Headers:        map[string]string{"Authorization": "Bearer " + owner.token},
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   "ERR_INVALID_JSON",
		},
	})

	w = owner.do(http.MethodDelete, "/companies/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = owner.do(http.MethodGet, "/companies/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_ProductOptionalFields(t *testing.T) {
	a := newAPI(t, nil)
	owner := a.as(testutil.ManufacturerActor(uuid.New()))
	companyID := createCompany(t, owner, "27AAPFU0939F1ZV", "Maharashtra")

	product := func(mutate func(map[string]interface{})) map[string]interface{} {
		body := map[string]interface{}{
			"company_id":         companyID.String(),
			"name":               "Basmati Rice 5kg",
			"hsn_code":           "1006",
			"price":              "450",
			"cgst_rate":          "2.5",
			"sgst_rate":          "2.5",
			"available_quantity": 10,
		}
		mutate(body)
		return body
	}

	t.Run("uqc defaults to NOS", func(t *testing.T) {
		w := owner.do(http.MethodPost, "/products", product(func(map[string]interface{}) {}))
		got := testutil.DecodeData[catalogapp.ProductResponse](t, w, http.StatusCreated)
		assert.Equal(t, "NOS", got.UQC)
	})

	validationFields := func(t *testing.T, body map[string]interface{}) []string {
		t.Helper()
		w := owner.do(http.MethodPost, "/products", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		env := testutil.DecodeEnvelope[interface{}](t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_VALIDATION", env.Error.Code)
		fields := make([]string, 0, len(env.Error.Details))
		for _, d := range env.Error.Details {
			fields = append(fields, d.Field)
		}
		return fields
	}

	t.Run("hsn code is required", func(t *testing.T) {
		fields := validationFields(t, product(func(b map[string]interface{}) { delete(b, "hsn_code") }))
		assert.Contains(t, fields, "hsn_code")
	})

	t.Run("gst slab above 28 percent", func(t *testing.T) {
		fields := validationFields(t, product(func(b map[string]interface{}) { b["igst_rate"] = "30" }))
		assert.Contains(t, fields, "igst_rate")
	})
}

func TestAPI_OrderToDelivery(t *testing.T) {
	a := newAPI(t, nil)
	owner := a.as(testutil.ManufacturerActor(uuid.New()))

	companyID := createCompany(t, owner, "27AAPFU0939F1ZV", "Maharashtra")
	retailerID := createRetailer(t, owner, companyID, "Maharashtra")
	productID := createProduct(t, owner, companyID, 50)

	w := owner.do(http.MethodPost, "/trucks", map[string]interface{}{
		"company_id":    companyID.String(),
		"license_plate": "MH12AB1234",
		"capacity":      500,
	})
	truckID := testutil.DecodeData[idView](t, w, http.StatusCreated).ID

	w = a.anonymous().do(http.MethodPost, "/auth/register", map[string]interface{}{
		"username": "driver_ravi",
		"email":    "ravi@acme.example",
		"password": "Driv3rPassword",
		"groups":   []string{"employee"},
	})
	driverUserID := testutil.DecodeData[idView](t, w, http.StatusCreated).ID

	w = owner.do(http.MethodPost, "/employees", map[string]interface{}{
		"company_id": companyID.String(),
		"user_id":    driverUserID.String(),
		"name":       "Ravi Kumar",
		"contact":    "+91-9988776655",
		"truck_id":   truckID.String(),
	})
	employeeID := testutil.DecodeData[idView](t, w, http.StatusCreated).ID

	w = owner.do(http.MethodPost, "/orders", map[string]interface{}{
		"retailer_id": retailerID.String(),
		"items":       []map[string]interface{}{{"product_id": productID.String(), "quantity": 10}},
	})
	order := testutil.DecodeData[tradeapp.OrderResponse](t, w, http.StatusCreated)
	assert.Equal(t, "pending", order.Status)
	assert.True(t, decimal.NewFromInt(1000).Equal(order.TotalAmount), "total %s", order.TotalAmount)

	product := testutil.DecodeData[catalogapp.ProductResponse](t,
		owner.do(http.MethodGet, "/products/"+productID.String(), nil), http.StatusOK)
	assert.Equal(t, int64(10), product.TotalRequiredQuantity)
	assert.Equal(t, int64(50), product.AvailableQuantity)

	counts := testutil.DecodeData[dashboardapp.CountsResponse](t,
		owner.do(http.MethodGet, "/dashboard/counts?company_id="+companyID.String(), nil), http.StatusOK)
	assert.Equal(t, int64(1), counts.OrdersPlaced)
	assert.Equal(t, int64(1), counts.PendingOrders)
	assert.Equal(t, int64(1), counts.RetailersAvailable)
	assert.Equal(t, int64(1), counts.EmployeesAvailable)

	w = owner.do(http.MethodPost, "/orders/"+order.ID.String()+"/approve", nil)
	shipment := testutil.DecodeData[logisticsapp.ShipmentResponse](t, w, http.StatusCreated)
	assert.Equal(t, "pending", shipment.Status)

	w = owner.do(http.MethodPost, "/orders/"+order.ID.String()+"/approve", nil)
	again := testutil.DecodeData[logisticsapp.ShipmentResponse](t, w, http.StatusCreated)
	assert.Equal(t, shipment.ID, again.ID, "approving twice returns the existing shipment")

	confirmed := testutil.DecodeData[tradeapp.OrderResponse](t,
		owner.do(http.MethodGet, "/orders/"+order.ID.String(), nil), http.StatusOK)
	assert.Equal(t, "confirmed", confirmed.Status)

	w = owner.do(http.MethodPost, "/shipments/"+shipment.ID.String()+"/allocate", map[string]interface{}{
		"employee_id": employeeID.String(),
	})
	allocated := testutil.DecodeData[logisticsapp.ShipmentResponse](t, w, http.StatusOK)
	assert.Equal(t, "allocated", allocated.Status)
	require.NotNil(t, allocated.TruckID)
	assert.Equal(t, truckID, *allocated.TruckID)

	truck := testutil.DecodeData[logisticsapp.TruckResponse](t,
		owner.do(http.MethodGet, "/trucks/"+truckID.String(), nil), http.StatusOK)
	assert.False(t, truck.IsAvailable)

	driver := a.as(testutil.EmployeeActor(driverUserID, companyID))
	mine := testutil.DecodeData[[]logisticsapp.ShipmentResponse](t,
		driver.do(http.MethodGet, "/shipments/mine", nil), http.StatusOK)
	require.Len(t, mine, 1)
	assert.Equal(t, shipment.ID, mine[0].ID)

	w = driver.do(http.MethodPost, "/orders/"+order.ID.String()+"/approve", nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "employees cannot approve orders")

	w = driver.do(http.MethodPatch, "/shipments/"+shipment.ID.String()+"/status", map[string]interface{}{"status": "delivered"})
	testutil.AssertErrorCode(t, w, "ERR_INVALID_STATE")

	w = driver.do(http.MethodPatch, "/shipments/"+shipment.ID.String()+"/status", map[string]interface{}{"status": "in_transit"})
	assert.Equal(t, "in_transit", testutil.DecodeData[logisticsapp.ShipmentResponse](t, w, http.StatusOK).Status)

	product = testutil.DecodeData[catalogapp.ProductResponse](t,
		owner.do(http.MethodGet, "/products/"+productID.String(), nil), http.StatusOK)
	assert.Equal(t, int64(40), product.AvailableQuantity)
	assert.Equal(t, int64(0), product.TotalRequiredQuantity)
	assert.Equal(t, int64(10), product.TotalShipped)

	w = driver.do(http.MethodPatch, "/shipments/"+shipment.ID.String()+"/status", map[string]interface{}{"status": "delivered"})
	delivered := testutil.DecodeData[logisticsapp.ShipmentResponse](t, w, http.StatusOK)
	assert.Equal(t, "delivered", delivered.Status)
	assert.NotNil(t, delivered.DeliveredAt)

	final := testutil.DecodeData[tradeapp.OrderResponse](t,
		owner.do(http.MethodGet, "/orders/"+order.ID.String(), nil), http.StatusOK)
	assert.Equal(t, "delivered", final.Status)

	truck = testutil.DecodeData[logisticsapp.TruckResponse](t,
		owner.do(http.MethodGet, "/trucks/"+truckID.String(), nil), http.StatusOK)
	assert.True(t, truck.IsAvailable, "delivery frees the truck")

	counts = testutil.DecodeData[dashboardapp.CountsResponse](t,
		owner.do(http.MethodGet, "/dashboard/counts?company_id="+companyID.String(), nil), http.StatusOK)
	assert.Equal(t, int64(0), counts.PendingOrders)
	assert.Equal(t, int64(1), counts.EmployeesAvailable)
}

func TestAPI_CancelAllocatedOrder(t *testing.T) {
	a := newAPI(t, nil)
	owner := a.as(testutil.ManufacturerActor(uuid.New()))

	companyID := createCompany(t, owner, "27AAPFU0939F1ZV", "Maharashtra")
	retailerID := createRetailer(t, owner, companyID, "Maharashtra")
	productID := createProduct(t, owner, companyID, 50)

	w := owner.do(http.MethodPost, "/trucks", map[string]interface{}{
		"company_id":    companyID.String(),
		"license_plate": "MH14CD5678",
		"capacity":      300,
	})
	truckID := testutil.DecodeData[idView](t, w, http.StatusCreated).ID

	w = a.anonymous().do(http.MethodPost, "/auth/register", map[string]interface{}{
		"username": "driver_anil",
		"email":    "anil@acme.example",
		"password": "Driv3rPassword",
		"groups":   []string{"employee"},
	})
	driverUserID := testutil.DecodeData[idView](t, w, http.StatusCreated).ID

	w = owner.do(http.MethodPost, "/employees", map[string]interface{}{
		"company_id": companyID.String(),
		"user_id":    driverUserID.String(),
		"name":       "Anil Patil",
		"contact":    "+91-9876501234",
		"truck_id":   truckID.String(),
	})
	employeeID := testutil.DecodeData[idView](t, w, http.StatusCreated).ID

	w = owner.do(http.MethodPost, "/orders", map[string]interface{}{
		"retailer_id": retailerID.String(),
		"items":       []map[string]interface{}{{"product_id": productID.String(), "quantity": 4}},
	})
	order := testutil.DecodeData[tradeapp.OrderResponse](t, w, http.StatusCreated)

	w = owner.do(http.MethodPost, "/orders/"+order.ID.String()+"/approve", nil)
	shipment := testutil.DecodeData[logisticsapp.ShipmentResponse](t, w, http.StatusCreated)
	w = owner.do(http.MethodPost, "/shipments/"+shipment.ID.String()+"/allocate", map[string]interface{}{
		"employee_id": employeeID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = owner.do(http.MethodPatch, "/orders/"+order.ID.String()+"/status", map[string]interface{}{"status": "cancelled"})
	assert.Equal(t, "cancelled", testutil.DecodeData[tradeapp.OrderResponse](t, w, http.StatusOK).Status)

	truck := testutil.DecodeData[logisticsapp.TruckResponse](t,
		owner.do(http.MethodGet, "/trucks/"+truckID.String(), nil), http.StatusOK)
	assert.True(t, truck.IsAvailable, "cancelling the order returns the truck")

	list := testutil.DecodeEnvelope[[]logisticsapp.ShipmentResponse](t,
		owner.do(http.MethodGet, "/shipments?company_id="+companyID.String(), nil))
	require.True(t, list.Success)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "cancelled", list.Data[0].Status)

	counts := testutil.DecodeData[dashboardapp.CountsResponse](t,
		owner.do(http.MethodGet, "/dashboard/counts?company_id="+companyID.String(), nil), http.StatusOK)
	assert.Equal(t, int64(1), counts.EmployeesAvailable)
}

func TestAPI_RetailerConnectionAndOrder(t *testing.T) {
	a := newAPI(t, nil)
	owner := a.as(testutil.ManufacturerActor(uuid.New()))
	companyID := createCompany(t, owner, "27AAPFU0939F1ZV", "Maharashtra")
	productID := createProduct(t, owner, companyID, 20)

	shop := a.as(a.retailerUser("sharma"))

	w := shop.do(http.MethodPost, "/companies/"+companyID.String()+"/connections", nil)
	testutil.AssertErrorCode(t, w, "ERR_PROFILE_REQUIRED")

	w = shop.do(http.MethodPost, "/retailer-profile", map[string]interface{}{
		"business_name":  "Sharma General Store",
		"contact_person": "R. Sharma",
		"phone":          "+91-9123456780",
		"address":        address("Maharashtra"),
	})
	profile := testutil.DecodeData[partnerapp.ProfileResponse](t, w, http.StatusCreated)
	assert.Equal(t, "sharma@shops.example", profile.Email, "the account e-mail fills an omitted one")

	w = shop.do(http.MethodPost, "/companies/"+companyID.String()+"/connections", map[string]interface{}{
		"message": "We would like to stock your products",
	})
	conn := testutil.DecodeData[companyapp.ConnectionResponse](t, w, http.StatusCreated)
	assert.Equal(t, "pending", conn.Status)

	pending := testutil.DecodeData[[]companyapp.ConnectionResponse](t,
		owner.do(http.MethodGet, "/companies/"+companyID.String()+"/connections?status=pending", nil), http.StatusOK)
	require.Len(t, pending, 1)

	w = owner.do(http.MethodPut, "/connections/"+conn.ID.String(), map[string]interface{}{
		"status":        "approved",
		"credit_limit":  "50000",
		"payment_terms": "Net 30",
	})
	approved := testutil.DecodeData[companyapp.ConnectionResponse](t, w, http.StatusOK)
	assert.Equal(t, "approved", approved.Status)
	require.NotNil(t, approved.RetailerID, "approval creates the retailer record")

	w = shop.do(http.MethodPost, "/orders", map[string]interface{}{
		"retailer_id": approved.RetailerID.String(),
		"items":       []map[string]interface{}{{"product_id": productID.String(), "quantity": 3}},
		"remark":      "Deliver before noon",
	})
	order := testutil.DecodeData[tradeapp.OrderResponse](t, w, http.StatusCreated)
	assert.Equal(t, companyID, order.CompanyID)

	counts := testutil.DecodeData[partnerapp.RetailerCounts](t,
		shop.do(http.MethodGet, "/retailer-profile/counts", nil), http.StatusOK)
	assert.Equal(t, int64(1), counts.ConnectedCompanies)
	assert.Equal(t, int64(0), counts.PendingRequests)
	assert.Equal(t, int64(1), counts.TotalOrders)

	other := a.as(a.retailerUser("rao"))
	w = other.do(http.MethodPost, "/retailer-profile", map[string]interface{}{
		"business_name":  "Other Store",
		"contact_person": "K. Rao",
		"phone":          "+91-9000000000",
		"address":        address("Maharashtra"),
	})
	testutil.DecodeData[idView](t, w, http.StatusCreated)
	w = other.do(http.MethodPost, "/orders", map[string]interface{}{
		"retailer_id": approved.RetailerID.String(),
		"items":       []map[string]interface{}{{"product_id": productID.String(), "quantity": 1}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "retailers order only through their own connections")
}

func TestAPI_Invoices(t *testing.T) {
	a := newAPI(t, nil)
	owner := a.as(testutil.ManufacturerActor(uuid.New()))
	companyID := createCompany(t, owner, "27AAPFU0939F1ZV", "Maharashtra")
	local := createRetailer(t, owner, companyID, "Maharashtra")
	remote := createRetailer(t, owner, companyID, "Karnataka")
	productID := createProduct(t, owner, companyID, 100)

	issue := func(retailerID uuid.UUID) billingapp.InvoiceResponse {
		t.Helper()
		w := owner.do(http.MethodPost, "/invoices", map[string]interface{}{
			"company_id":   companyID.String(),
			"retailer_id":  retailerID.String(),
			"payment_mode": "upi",
			"items":        []map[string]interface{}{{"product_id": productID.String(), "quantity": 10}},
		})
		return testutil.DecodeData[billingapp.InvoiceResponse](t, w, http.StatusCreated)
	}

	intra := issue(local)
	assert.True(t, intra.IntraState)
	assert.NotEmpty(t, intra.InvoiceNumber)
	assert.True(t, intra.TotalCGST.Equal(intra.TotalSGST))
	assert.True(t, decimal.NewFromInt(60).Equal(intra.TotalCGST), "cgst %s", intra.TotalCGST)
	assert.True(t, intra.TotalIGST.IsZero())
	assert.True(t, decimal.NewFromInt(1120).Equal(intra.GrandTotal), "grand total %s", intra.GrandTotal)
	assert.Equal(t, "pending", intra.PaymentStatus)

	inter := issue(remote)
	assert.False(t, inter.IntraState)
	assert.True(t, inter.TotalCGST.IsZero())
	assert.True(t, decimal.NewFromInt(120).Equal(inter.TotalIGST), "igst %s", inter.TotalIGST)
	assert.NotEqual(t, intra.InvoiceNumber, inter.InvoiceNumber)

	count := testutil.DecodeData[struct {
		Count int64 `json:"count"`
	}](t, owner.do(http.MethodGet, "/invoices/count?company_id="+companyID.String(), nil), http.StatusOK)
	assert.Equal(t, int64(2), count.Count)

	w := owner.do(http.MethodGet, "/invoices/"+intra.ID.String()+"/html", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), intra.InvoiceNumber)

	w = owner.do(http.MethodGet, "/invoices/"+intra.ID.String()+"/pdf", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	testutil.AssertErrorCode(t, w, "ERR_PDF_UNAVAILABLE")

	w = owner.do(http.MethodPost, "/invoices/"+intra.ID.String()+"/pay", nil)
	paid := testutil.DecodeData[billingapp.InvoiceResponse](t, w, http.StatusOK)
	assert.Equal(t, "paid", paid.PaymentStatus)
	assert.NotNil(t, paid.PaidAt)

	w = owner.do(http.MethodPost, "/invoices", map[string]interface{}{
		"company_id":   companyID.String(),
		"retailer_id":  local.String(),
		"payment_mode": "barter",
		"items":        []map[string]interface{}{{"product_id": productID.String(), "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	testutil.AssertErrorCode(t, w, "ERR_VALIDATION")

	w = a.as(testutil.RetailerActor(uuid.New())).do(http.MethodGet, "/invoices/"+intra.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAPI_AuthFlow(t *testing.T) {
	a := newAPI(t, nil)
	anon := a.anonymous()

	register := map[string]interface{}{
		"username": "acme_owner",
		"email":    "owner@acme.example",
		"password": "s3cretPassword",
		"groups":   []string{"manufacturer"},
	}
	w := anon.do(http.MethodPost, "/auth/register", register)
	user := testutil.DecodeData[identityapp.UserInfo](t, w, http.StatusCreated)
	assert.Equal(t, []string{"manufacturer"}, user.Groups)
	assert.Contains(t, user.Permissions, identity.PermCompanyManage)

	w = anon.do(http.MethodPost, "/auth/register", register)
	assert.Equal(t, http.StatusConflict, w.Code)
	testutil.AssertErrorCode(t, w, "ERR_ALREADY_EXISTS")

	w = anon.do(http.MethodPost, "/auth/register", map[string]interface{}{
		"username": "sneaky",
		"email":    "sneaky@acme.example",
		"password": "s3cretPassword",
		"groups":   []string{"admin"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "admin is only self-assignable by the first user")

	w = anon.do(http.MethodPost, "/auth/login", map[string]interface{}{"username": "acme_owner", "password": "wrongPassw0rd"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	testutil.AssertErrorCode(t, w, "ERR_INVALID_CREDENTIALS")

	w = anon.do(http.MethodPost, "/auth/login", map[string]interface{}{"username": "owner@acme.example", "password": "s3cretPassword"})
	login := testutil.DecodeData[identityapp.LoginResult](t, w, http.StatusOK)
	require.NotEmpty(t, login.AccessToken)
	require.NotEmpty(t, login.RefreshToken)

	session := client{a: a, token: login.AccessToken}
	me := testutil.DecodeData[identityapp.UserInfo](t, session.do(http.MethodGet, "/auth/me", nil), http.StatusOK)
	assert.Equal(t, user.ID, me.ID)

	w = anon.do(http.MethodPost, "/auth/refresh", map[string]interface{}{"refresh_token": login.RefreshToken})
	refreshed := testutil.DecodeData[identityapp.LoginResult](t, w, http.StatusOK)
	assert.NotEmpty(t, refreshed.AccessToken)

	w = session.do(http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = session.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	testutil.AssertErrorCode(t, w, "ERR_TOKEN_REVOKED")
}

func TestAPI_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		a := newAPI(t, nil)
		w := a.anonymous().do(http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"up"`)
	})

	t.Run("dependency down", func(t *testing.T) {
		a := newAPI(t, map[string]handler.HealthCheck{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})
		w := a.anonymous().do(http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"unhealthy"`)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}
