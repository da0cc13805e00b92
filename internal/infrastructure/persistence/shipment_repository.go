package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var shipmentFilter = filterSpec{
	columns: map[string]string{
		"company_id":  "company_id",
		"employee_id": "employee_id",
		"status":      "status",
	},
	sortFields:  ShipmentSortFields,
	defaultSort: "shipment_date",
}

// GormShipmentRepository implements ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByID finds a shipment by its ID
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Shipment, error) {
	var model models.ShipmentModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByOrderID finds the shipment of an order
func (r *GormShipmentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*logistics.Shipment, error) {
	var model models.ShipmentModel
	if err := conn(ctx, r.db).First(&model, "order_id = ?", orderID).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all shipments matching the filter
func (r *GormShipmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]logistics.Shipment, error) {
	var shipmentModels []models.ShipmentModel
	query := shipmentFilter.apply(conn(ctx, r.db).Model(&models.ShipmentModel{}), filter)
	if err := query.Find(&shipmentModels).Error; err != nil {
		return nil, err
	}
	shipments := make([]logistics.Shipment, len(shipmentModels))
	for i := range shipmentModels {
		shipments[i] = *shipmentModels[i].ToDomain()
	}
	return shipments, nil
}

// Save creates or updates a shipment
func (r *GormShipmentRepository) Save(ctx context.Context, shipment *logistics.Shipment) error {
	return saveAggregate(conn(ctx, r.db), models.ShipmentModelFromDomain(shipment), shipment.ID, &shipment.BaseAggregateRoot)
}

// Count counts shipments matching the filter
func (r *GormShipmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := shipmentFilter.where(conn(ctx, r.db).Model(&models.ShipmentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormShipmentRepository implements ShipmentRepository
var _ logistics.ShipmentRepository = (*GormShipmentRepository)(nil)
