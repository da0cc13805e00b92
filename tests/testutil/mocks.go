package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/supplychain/backend/internal/domain/billing"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/company"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/trade"
)

// NoopTx runs the function directly, without a transaction.
type NoopTx struct {
	Calls int
}

// WithinTx implements shared.TxManager.
func (t *NoopTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockCompanyRepository is a mock implementation of company.CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*company.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]company.Company, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]company.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]company.Company, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]company.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindPublic(ctx context.Context, filter shared.Filter) ([]company.Company, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]company.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]company.Company, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]company.Company), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, c *company.Company) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCompanyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCompanyRepository) ExistsByGSTIN(ctx context.Context, gstin string) (bool, error) {
	args := m.Called(ctx, gstin)
	return args.Bool(0), args.Error(1)
}

// MockConnectionRepository is a mock implementation of company.ConnectionRepository
type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*company.Connection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*company.Connection), args.Error(1)
}

func (m *MockConnectionRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, status company.ConnectionStatus) ([]company.Connection, error) {
	args := m.Called(ctx, companyID, status)
	return args.Get(0).([]company.Connection), args.Error(1)
}

func (m *MockConnectionRepository) FindByProfile(ctx context.Context, profileID uuid.UUID) ([]company.Connection, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]company.Connection), args.Error(1)
}

func (m *MockConnectionRepository) FindOpen(ctx context.Context, companyID, profileID uuid.UUID) (*company.Connection, error) {
	args := m.Called(ctx, companyID, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*company.Connection), args.Error(1)
}

func (m *MockConnectionRepository) Save(ctx context.Context, c *company.Connection) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockConnectionRepository) CountByProfile(ctx context.Context, profileID uuid.UUID, status company.ConnectionStatus) (int64, error) {
	args := m.Called(ctx, profileID, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockRetailerRepository is a mock implementation of partner.RetailerRepository
type MockRetailerRepository struct {
	mock.Mock
}

func (m *MockRetailerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Retailer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Retailer), args.Error(1)
}

func (m *MockRetailerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Retailer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Retailer), args.Error(1)
}

func (m *MockRetailerRepository) FindByProfile(ctx context.Context, profileID uuid.UUID) ([]partner.Retailer, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]partner.Retailer), args.Error(1)
}

func (m *MockRetailerRepository) Save(ctx context.Context, r *partner.Retailer) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRetailerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRetailerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockRetailerProfileRepository is a mock implementation of partner.RetailerProfileRepository
type MockRetailerProfileRepository struct {
	mock.Mock
}

func (m *MockRetailerProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.RetailerProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.RetailerProfile), args.Error(1)
}

func (m *MockRetailerProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*partner.RetailerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.RetailerProfile), args.Error(1)
}

func (m *MockRetailerProfileRepository) Save(ctx context.Context, p *partner.RetailerProfile) error {
	return m.Called(ctx, p).Error(0)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, c *catalog.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, companyID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, companyID, name)
	return args.Bool(0), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) SaveAll(ctx context.Context, products []*catalog.Product) error {
	return m.Called(ctx, products).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) StockByCategory(ctx context.Context, companyID *uuid.UUID) ([]catalog.CategoryStock, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]catalog.CategoryStock), args.Error(1)
}

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByRetailerIDs(ctx context.Context, retailerIDs []uuid.UUID) ([]trade.Order, error) {
	args := m.Called(ctx, retailerIDs)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *trade.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, companyID *uuid.UUID) (map[trade.OrderStatus]int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(map[trade.OrderStatus]int64), args.Error(1)
}

// MockEmployeeRepository is a mock implementation of logistics.EmployeeRepository
type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*logistics.Employee, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]logistics.Employee, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]logistics.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) Save(ctx context.Context, e *logistics.Employee) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEmployeeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEmployeeRepository) CountAvailable(ctx context.Context, companyID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTruckRepository is a mock implementation of logistics.TruckRepository
type MockTruckRepository struct {
	mock.Mock
}

func (m *MockTruckRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Truck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.Truck), args.Error(1)
}

func (m *MockTruckRepository) FindAll(ctx context.Context, filter shared.Filter) ([]logistics.Truck, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]logistics.Truck), args.Error(1)
}

func (m *MockTruckRepository) Save(ctx context.Context, t *logistics.Truck) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTruckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTruckRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTruckRepository) ExistsByLicensePlate(ctx context.Context, companyID uuid.UUID, plate string) (bool, error) {
	args := m.Called(ctx, companyID, plate)
	return args.Bool(0), args.Error(1)
}

// MockShipmentRepository is a mock implementation of logistics.ShipmentRepository
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*logistics.Shipment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]logistics.Shipment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]logistics.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) Save(ctx context.Context, s *logistics.Shipment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockShipmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOverdueCandidates(ctx context.Context, before time.Time, limit int) ([]billing.Invoice, error) {
	args := m.Called(ctx, before, limit)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) LastNumber(ctx context.Context, companyID uuid.UUID, year int) (string, error) {
	args := m.Called(ctx, companyID, year)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) SumPaid(ctx context.Context, companyID *uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var (
	_ shared.TxManager                  = (*NoopTx)(nil)
	_ identity.UserRepository           = (*MockUserRepository)(nil)
	_ company.CompanyRepository         = (*MockCompanyRepository)(nil)
	_ company.ConnectionRepository      = (*MockConnectionRepository)(nil)
	_ partner.RetailerRepository        = (*MockRetailerRepository)(nil)
	_ partner.RetailerProfileRepository = (*MockRetailerProfileRepository)(nil)
	_ catalog.CategoryRepository        = (*MockCategoryRepository)(nil)
	_ catalog.ProductRepository         = (*MockProductRepository)(nil)
	_ trade.OrderRepository             = (*MockOrderRepository)(nil)
	_ logistics.EmployeeRepository      = (*MockEmployeeRepository)(nil)
	_ logistics.TruckRepository         = (*MockTruckRepository)(nil)
	_ logistics.ShipmentRepository      = (*MockShipmentRepository)(nil)
	_ billing.InvoiceRepository         = (*MockInvoiceRepository)(nil)
	_ shared.EventPublisher             = (*MockEventHandler)(nil)
)
