package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var retailerFilter = filterSpec{
	columns: map[string]string{
		"company_id": "company_id",
		"is_active":  "is_active",
	},
	search:      []string{"name", "contact_person", "city"},
	sortFields:  RetailerSortFields,
	defaultSort: "created_at",
}

// GormRetailerRepository implements RetailerRepository using GORM
type GormRetailerRepository struct {
	db *gorm.DB
}

// NewGormRetailerRepository creates a new GormRetailerRepository
func NewGormRetailerRepository(db *gorm.DB) *GormRetailerRepository {
	return &GormRetailerRepository{db: db}
}

// FindByID finds a retailer by its ID
func (r *GormRetailerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Retailer, error) {
	var model models.RetailerModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all retailers matching the filter
func (r *GormRetailerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Retailer, error) {
	var retailerModels []models.RetailerModel
	query := retailerFilter.apply(conn(ctx, r.db).Model(&models.RetailerModel{}), filter)
	if err := query.Find(&retailerModels).Error; err != nil {
		return nil, err
	}
	return toRetailers(retailerModels), nil
}

// FindByProfile lists the company-side retailer records linked to a profile
func (r *GormRetailerRepository) FindByProfile(ctx context.Context, profileID uuid.UUID) ([]partner.Retailer, error) {
	var retailerModels []models.RetailerModel
	if err := conn(ctx, r.db).
		Where("retailer_profile_id = ?", profileID).
		Order("created_at ASC").
		Find(&retailerModels).Error; err != nil {
		return nil, err
	}
	return toRetailers(retailerModels), nil
}

// Save creates or updates a retailer
func (r *GormRetailerRepository) Save(ctx context.Context, retailer *partner.Retailer) error {
	return saveAggregate(conn(ctx, r.db), models.RetailerModelFromDomain(retailer), retailer.ID, &retailer.BaseAggregateRoot)
}

// Delete deletes a retailer
func (r *GormRetailerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(conn(ctx, r.db), &models.RetailerModel{}, id)
}

// Count counts retailers matching the filter
func (r *GormRetailerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := retailerFilter.where(conn(ctx, r.db).Model(&models.RetailerModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toRetailers(retailerModels []models.RetailerModel) []partner.Retailer {
	retailers := make([]partner.Retailer, len(retailerModels))
	for i := range retailerModels {
		retailers[i] = *retailerModels[i].ToDomain()
	}
	return retailers
}

// GormRetailerProfileRepository implements RetailerProfileRepository using GORM
type GormRetailerProfileRepository struct {
	db *gorm.DB
}

// NewGormRetailerProfileRepository creates a new GormRetailerProfileRepository
func NewGormRetailerProfileRepository(db *gorm.DB) *GormRetailerProfileRepository {
	return &GormRetailerProfileRepository{db: db}
}

// FindByID finds a profile by its ID
func (r *GormRetailerProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.RetailerProfile, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUserID finds the profile of a retailer user
func (r *GormRetailerProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*partner.RetailerProfile, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

// Save creates or updates a profile. A second profile for the same user yields shared.ErrAlreadyExists.
func (r *GormRetailerProfileRepository) Save(ctx context.Context, profile *partner.RetailerProfile) error {
	return saveAggregate(conn(ctx, r.db), models.RetailerProfileModelFromDomain(profile), profile.ID, &profile.BaseAggregateRoot)
}

func (r *GormRetailerProfileRepository) findOne(ctx context.Context, query string, args ...interface{}) (*partner.RetailerProfile, error) {
	var model models.RetailerProfileModel
	if err := conn(ctx, r.db).Where(query, args...).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Ensure the repositories implement their interfaces
var (
	_ partner.RetailerRepository        = (*GormRetailerRepository)(nil)
	_ partner.RetailerProfileRepository = (*GormRetailerProfileRepository)(nil)
)
