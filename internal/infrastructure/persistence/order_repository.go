package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/trade"
	"github.com/supplychain/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var orderFilter = filterSpec{
	columns: map[string]string{
		"company_id":  "company_id",
		"retailer_id": "retailer_id",
		"status":      "status",
	},
	sortFields:  OrderSortFields,
	defaultSort: "order_date",
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := conn(ctx, r.db).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var orderModels []models.OrderModel
	query := orderFilter.apply(conn(ctx, r.db).Model(&models.OrderModel{}), filter)
	if err := query.Preload("Items").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toOrders(orderModels), nil
}

// FindByRetailerIDs finds the orders placed for any of the retailers, newest first
func (r *GormOrderRepository) FindByRetailerIDs(ctx context.Context, retailerIDs []uuid.UUID) ([]trade.Order, error) {
	if len(retailerIDs) == 0 {
		return []trade.Order{}, nil
	}
	var orderModels []models.OrderModel
	if err := conn(ctx, r.db).
		Preload("Items").
		Where("retailer_id IN ?", retailerIDs).
		Order("order_date DESC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toOrders(orderModels), nil
}

// Save creates or updates an order. Items are replaced on update.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return NewGormTransactionScope(r.db).WithinTx(ctx, func(ctx context.Context) error {
		tx := conn(ctx, r.db)
		isNew := order.IsNew()
		model := models.OrderModelFromDomain(order)
		if err := saveAggregate(tx, model, order.ID, &order.BaseAggregateRoot); err != nil {
			return err
		}
		if isNew {
			return nil
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := orderFilter.where(conn(ctx, r.db).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts orders per status; companyID nil counts every company
func (r *GormOrderRepository) CountByStatus(ctx context.Context, companyID *uuid.UUID) (map[trade.OrderStatus]int64, error) {
	var rows []struct {
		Status trade.OrderStatus
		Total  int64
	}
	query := conn(ctx, r.db).Model(&models.OrderModel{}).Select("status, COUNT(*) AS total")
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[trade.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func toOrders(orderModels []models.OrderModel) []trade.Order {
	orders := make([]trade.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
