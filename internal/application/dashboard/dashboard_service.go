// Package dashboard aggregates the counts shown on the manufacturer and admin dashboards.
package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/billing"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// DashboardServiceDeps holds the dependencies of DashboardService
type DashboardServiceDeps struct {
	Orders     trade.OrderRepository
	Retailers  partner.RetailerRepository
	Employees  logistics.EmployeeRepository
	Trucks     logistics.TruckRepository
	Products   catalog.ProductRepository
	Categories catalog.CategoryRepository
	Invoices   billing.InvoiceRepository
	Guard      *access.Guard
	// Cache is optional; without it every call hits the database
	Cache    CountCache
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// DashboardService computes dashboard figures for the companies an actor can see
type DashboardService struct {
	orders     trade.OrderRepository
	retailers  partner.RetailerRepository
	employees  logistics.EmployeeRepository
	trucks     logistics.TruckRepository
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	invoices   billing.InvoiceRepository
	guard      *access.Guard
	cache      CountCache
	ttl        time.Duration
	logger     *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(deps DashboardServiceDeps) *DashboardService {
	s := &DashboardService{
		orders:     deps.Orders,
		retailers:  deps.Retailers,
		employees:  deps.Employees,
		trucks:     deps.Trucks,
		products:   deps.Products,
		categories: deps.Categories,
		invoices:   deps.Invoices,
		guard:      deps.Guard,
		cache:      deps.Cache,
		ttl:        deps.CacheTTL,
		logger:     deps.Logger,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultCacheTTL
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// GetCounts returns orders placed, retailers, pending orders and employees
// without an active shipment. companyID narrows the scope to one company.
func (s *DashboardService) GetCounts(ctx context.Context, actor identity.Actor, companyID *uuid.UUID) (*CountsResponse, error) {
	scope, err := s.guard.ScopeCompanies(ctx, actor, companyID)
	if err != nil {
		return nil, err
	}
	out := &CountsResponse{}
	if scope.Empty() {
		return out, nil
	}
	key, cacheable := scopeKey("counts", scope)
	if cacheable && s.load(ctx, key, out) {
		return out, nil
	}

	counts, err := s.counts(ctx, scope).Unwrap()
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.store(ctx, key, counts)
	}
	return &counts, nil
}

// GetOverview returns the counts plus catalog, fleet and billing figures
func (s *DashboardService) GetOverview(ctx context.Context, actor identity.Actor, companyID *uuid.UUID) (*OverviewResponse, error) {
	scope, err := s.guard.ScopeCompanies(ctx, actor, companyID)
	if err != nil {
		return nil, err
	}
	out := &OverviewResponse{Revenue: decimal.Zero, OrdersByStatus: emptyStatusMap()}
	if scope.Empty() {
		return out, nil
	}
	key, cacheable := scopeKey("overview", scope)
	if cacheable && s.load(ctx, key, out) {
		return out, nil
	}

	counts, err := s.counts(ctx, scope).Unwrap()
	if err != nil {
		return nil, err
	}
	out.CountsResponse = counts

	all := scope.Apply(shared.Filter{})
	figures, err := collect(
		countOf(ctx, s.products.Count, all),
		countOf(ctx, s.categories.Count, all),
		countOf(ctx, s.trucks.Count, all),
		countOf(ctx, s.invoices.Count, all),
		countOf(ctx, s.invoices.Count, all.With("payment_status", billing.PaymentStatusPending)),
	)
	if err != nil {
		return nil, err
	}
	out.Products, out.Categories, out.Trucks, out.Invoices, out.PendingInvoices =
		figures[0], figures[1], figures[2], figures[3], figures[4]

	if out.Revenue, err = s.revenue(ctx, scope).Unwrap(); err != nil {
		return nil, err
	}
	if out.OrdersByStatus, err = s.ordersByStatus(ctx, scope).Unwrap(); err != nil {
		return nil, err
	}

	if cacheable {
		s.store(ctx, key, out)
	}
	return out, nil
}

func (s *DashboardService) counts(ctx context.Context, scope access.Scope) shared.Result[CountsResponse] {
	all := scope.Apply(shared.Filter{})
	var available int64
	availableErr := forEachCompany(scope, func(companyID *uuid.UUID) error {
		n, err := s.employees.CountAvailable(ctx, companyID)
		if err != nil {
			return err
		}
		available += n
		return nil
	})

	figures, err := collect(
		countOf(ctx, s.orders.Count, all),
		countOf(ctx, s.retailers.Count, all),
		countOf(ctx, s.orders.Count, all.With("status", trade.OrderStatusPending)),
		shared.ResultOf(available, availableErr),
	)
	if err != nil {
		return shared.Fail[CountsResponse](err)
	}
	return shared.Ok(CountsResponse{
		OrdersPlaced:       figures[0],
		RetailersAvailable: figures[1],
		PendingOrders:      figures[2],
		EmployeesAvailable: figures[3],
	})
}

func (s *DashboardService) revenue(ctx context.Context, scope access.Scope) shared.Result[decimal.Decimal] {
	total := decimal.Zero
	err := forEachCompany(scope, func(companyID *uuid.UUID) error {
		paid, err := s.invoices.SumPaid(ctx, companyID)
		if err != nil {
			return err
		}
		total = total.Add(paid)
		return nil
	})
	return shared.ResultOf(total, err)
}

func (s *DashboardService) ordersByStatus(ctx context.Context, scope access.Scope) shared.Result[map[string]int64] {
	out := emptyStatusMap()
	err := forEachCompany(scope, func(companyID *uuid.UUID) error {
		byStatus, err := s.orders.CountByStatus(ctx, companyID)
		if err != nil {
			return err
		}
		for status, n := range byStatus {
			out[string(status)] += n
		}
		return nil
	})
	return shared.ResultOf(out, err)
}

func (s *DashboardService) load(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Dashboard cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("Discarding corrupt dashboard cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *DashboardService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("Dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// scopeKey returns the cache key of a scope. Only the unfiltered admin scope
// and single-company scopes are cached, since those are the keys events evict.
func scopeKey(kind string, scope access.Scope) (string, bool) {
	if scope.All {
		return cacheKey(kind, allScope), true
	}
	if id := scope.Single(); id != nil {
		return cacheKey(kind, id.String()), true
	}
	return "", false
}

// forEachCompany calls fn once with nil for an unrestricted scope, otherwise
// once per company
func forEachCompany(scope access.Scope, fn func(companyID *uuid.UUID) error) error {
	if scope.All {
		return fn(nil)
	}
	for i := range scope.CompanyIDs {
		if err := fn(&scope.CompanyIDs[i]); err != nil {
			return err
		}
	}
	return nil
}

func countOf(ctx context.Context, count func(context.Context, shared.Filter) (int64, error), filter shared.Filter) shared.Result[int64] {
	return shared.ResultOf[int64](count(ctx, filter))
}

// collect unwraps results in order and stops at the first failure
func collect(results ...shared.Result[int64]) ([]int64, error) {
	values := make([]int64, len(results))
	for i, r := range results {
		v, err := r.Unwrap()
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func emptyStatusMap() map[string]int64 {
	out := make(map[string]int64, len(trade.AllOrderStatuses()))
	for _, status := range trade.AllOrderStatuses() {
		out[string(status)] = 0
	}
	return out
}
