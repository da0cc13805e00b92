package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var employeeFilter = filterSpec{
	columns: map[string]string{
		"company_id": "company_id",
	},
	search:      []string{"name", "contact"},
	sortFields:  EmployeeSortFields,
	defaultSort: "name",
}

// activeShipmentStatuses mark an employee as busy
var activeShipmentStatuses = []logistics.ShipmentStatus{
	logistics.ShipmentStatusAllocated,
	logistics.ShipmentStatusInTransit,
}

// GormEmployeeRepository implements EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by its ID
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Employee, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUserID finds the employee record of a login
func (r *GormEmployeeRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*logistics.Employee, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

func (r *GormEmployeeRepository) findOne(ctx context.Context, query string, args ...interface{}) (*logistics.Employee, error) {
	var model models.EmployeeModel
	if err := conn(ctx, r.db).Where(query, args...).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all employees matching the filter
func (r *GormEmployeeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]logistics.Employee, error) {
	var employeeModels []models.EmployeeModel
	query := employeeFilter.apply(conn(ctx, r.db).Model(&models.EmployeeModel{}), filter)
	if err := query.Find(&employeeModels).Error; err != nil {
		return nil, err
	}
	employees := make([]logistics.Employee, len(employeeModels))
	for i := range employeeModels {
		employees[i] = *employeeModels[i].ToDomain()
	}
	return employees, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *logistics.Employee) error {
	return saveAggregate(conn(ctx, r.db), models.EmployeeModelFromDomain(employee), employee.ID, &employee.BaseAggregateRoot)
}

// Delete deletes an employee
func (r *GormEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(conn(ctx, r.db), &models.EmployeeModel{}, id)
}

// Count counts employees matching the filter
func (r *GormEmployeeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := employeeFilter.where(conn(ctx, r.db).Model(&models.EmployeeModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountAvailable counts employees without an allocated or in-transit shipment
func (r *GormEmployeeRepository) CountAvailable(ctx context.Context, companyID *uuid.UUID) (int64, error) {
	db := conn(ctx, r.db)
	busy := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.ShipmentModel{}).
		Select("1").
		Where("shipments.employee_id = employees.id AND shipments.status IN ?", activeShipmentStatuses)

	query := db.Model(&models.EmployeeModel{}).Where("NOT EXISTS (?)", busy)
	if companyID != nil {
		query = query.Where("employees.company_id = ?", *companyID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormEmployeeRepository implements EmployeeRepository
var _ logistics.EmployeeRepository = (*GormEmployeeRepository)(nil)
