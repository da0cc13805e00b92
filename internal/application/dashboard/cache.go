package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/billing"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// DefaultCacheTTL matches the polling interval of the dashboard
const DefaultCacheTTL = 30 * time.Second

const (
	keyPrefix = "dashboard:"
	allScope  = "all"
)

// CountCache stores serialized dashboard figures
type CountCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func cacheKey(kind, scope string) string {
	return keyPrefix + kind + ":" + scope
}

// companyKeys returns every key that includes the figures of a company
func companyKeys(companyID uuid.UUID) []string {
	keys := make([]string, 0, 4)
	for _, kind := range []string{"counts", "overview"} {
		keys = append(keys, cacheKey(kind, companyID.String()), cacheKey(kind, allScope))
	}
	return keys
}

// CacheInvalidator evicts cached figures when events change them
type CacheInvalidator struct {
	cache  CountCache
	logger *zap.Logger
}

// NewCacheInvalidator creates an invalidator
func NewCacheInvalidator(cache CountCache, logger *zap.Logger) *CacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheInvalidator{cache: cache, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *CacheInvalidator) EventTypes() []string {
	return []string{
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderStatusChanged,
		partner.EventTypeRetailerAdded,
		partner.EventTypeRetailerRemoved,
		catalog.EventTypeProductAdded,
		catalog.EventTypeProductRemoved,
		catalog.EventTypeCategoryAdded,
		catalog.EventTypeCategoryRemoved,
		logistics.EventTypeTruckAdded,
		logistics.EventTypeTruckRemoved,
		logistics.EventTypeEmployeeAdded,
		logistics.EventTypeEmployeeRemoved,
		logistics.EventTypeShipmentAllocated,
		logistics.EventTypeShipmentStatusChanged,
		billing.EventTypeInvoiceIssued,
		billing.EventTypeInvoicePaid,
		billing.EventTypeInvoiceOverdue,
	}
}

// Handle implements shared.EventHandler. Eviction failures only expire late,
// so they are logged and not returned.
func (h *CacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if event.CompanyID() == uuid.Nil {
		return nil
	}
	if err := h.cache.Delete(ctx, companyKeys(event.CompanyID())...); err != nil {
		h.logger.Warn("Failed to evict dashboard cache",
			zap.String("event_type", event.EventType()),
			zap.String("company_id", event.CompanyID().String()),
			zap.Error(err))
	}
	return nil
}
