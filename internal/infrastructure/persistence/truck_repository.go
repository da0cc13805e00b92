package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var truckFilter = filterSpec{
	columns: map[string]string{
		"company_id":   "company_id",
		"is_available": "is_available",
	},
	search:      []string{"license_plate"},
	sortFields:  TruckSortFields,
	defaultSort: "license_plate",
}

// GormTruckRepository implements TruckRepository using GORM
type GormTruckRepository struct {
	db *gorm.DB
}

// NewGormTruckRepository creates a new GormTruckRepository
func NewGormTruckRepository(db *gorm.DB) *GormTruckRepository {
	return &GormTruckRepository{db: db}
}

// FindByID finds a truck by its ID
func (r *GormTruckRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Truck, error) {
	var model models.TruckModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all trucks matching the filter
func (r *GormTruckRepository) FindAll(ctx context.Context, filter shared.Filter) ([]logistics.Truck, error) {
	var truckModels []models.TruckModel
	query := truckFilter.apply(conn(ctx, r.db).Model(&models.TruckModel{}), filter)
	if err := query.Find(&truckModels).Error; err != nil {
		return nil, err
	}
	trucks := make([]logistics.Truck, len(truckModels))
	for i := range truckModels {
		trucks[i] = *truckModels[i].ToDomain()
	}
	return trucks, nil
}

// Save creates or updates a truck
func (r *GormTruckRepository) Save(ctx context.Context, truck *logistics.Truck) error {
	return saveAggregate(conn(ctx, r.db), models.TruckModelFromDomain(truck), truck.ID, &truck.BaseAggregateRoot)
}

// Delete deletes a truck
func (r *GormTruckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(conn(ctx, r.db), &models.TruckModel{}, id)
}

// Count counts trucks matching the filter
func (r *GormTruckRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := truckFilter.where(conn(ctx, r.db).Model(&models.TruckModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByLicensePlate checks if a company already registered the plate, ignoring case
func (r *GormTruckRepository) ExistsByLicensePlate(ctx context.Context, companyID uuid.UUID, plate string) (bool, error) {
	return exists(conn(ctx, r.db), &models.TruckModel{},
		"company_id = ? AND UPPER(license_plate) = ?", companyID, logistics.NormalizeLicensePlate(plate))
}

// Ensure GormTruckRepository implements TruckRepository
var _ logistics.TruckRepository = (*GormTruckRepository)(nil)
