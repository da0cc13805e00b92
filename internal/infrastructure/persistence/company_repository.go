package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/company"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var companyFilter = filterSpec{
	columns: map[string]string{
		"owner_id":  "owner_id",
		"is_public": "is_public",
		"state":     "state",
	},
	search:      []string{"name", "city", "gstin"},
	sortFields:  CompanySortFields,
	defaultSort: "created_at",
}

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	var model models.CompanyModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all companies matching the filter
func (r *GormCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]company.Company, error) {
	return r.find(ctx, filter)
}

// FindByOwner lists the companies of a manufacturer
func (r *GormCompanyRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]company.Company, error) {
	return r.find(ctx, filter.With("owner_id", ownerID))
}

// FindPublic lists companies visible to retailers
func (r *GormCompanyRepository) FindPublic(ctx context.Context, filter shared.Filter) ([]company.Company, error) {
	return r.find(ctx, filter.With("is_public", true))
}

// FindByIDs finds the companies with the given IDs
func (r *GormCompanyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]company.Company, error) {
	if len(ids) == 0 {
		return []company.Company{}, nil
	}
	var companyModels []models.CompanyModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&companyModels).Error; err != nil {
		return nil, err
	}
	return toCompanies(companyModels), nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, c *company.Company) error {
	return saveAggregate(conn(ctx, r.db), models.CompanyModelFromDomain(c), c.ID, &c.BaseAggregateRoot)
}

// Delete deletes a company
func (r *GormCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(conn(ctx, r.db), &models.CompanyModel{}, id)
}

// Count counts companies matching the filter
func (r *GormCompanyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := companyFilter.where(conn(ctx, r.db).Model(&models.CompanyModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByGSTIN checks if a company is registered with the GSTIN
func (r *GormCompanyRepository) ExistsByGSTIN(ctx context.Context, gstin string) (bool, error) {
	return exists(conn(ctx, r.db), &models.CompanyModel{}, "gstin = ?", gstin)
}

func (r *GormCompanyRepository) find(ctx context.Context, filter shared.Filter) ([]company.Company, error) {
	var companyModels []models.CompanyModel
	query := companyFilter.apply(conn(ctx, r.db).Model(&models.CompanyModel{}), filter)
	if err := query.Find(&companyModels).Error; err != nil {
		return nil, err
	}
	return toCompanies(companyModels), nil
}

func toCompanies(companyModels []models.CompanyModel) []company.Company {
	companies := make([]company.Company, len(companyModels))
	for i := range companyModels {
		companies[i] = *companyModels[i].ToDomain()
	}
	return companies
}

// GormConnectionRepository implements ConnectionRepository using GORM
type GormConnectionRepository struct {
	db *gorm.DB
}

// NewGormConnectionRepository creates a new GormConnectionRepository
func NewGormConnectionRepository(db *gorm.DB) *GormConnectionRepository {
	return &GormConnectionRepository{db: db}
}

// FindByID finds a connection by its ID
func (r *GormConnectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*company.Connection, error) {
	var model models.ConnectionModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCompany lists a company's connections, optionally narrowed to one status
func (r *GormConnectionRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, status company.ConnectionStatus) ([]company.Connection, error) {
	query := conn(ctx, r.db).Where("company_id = ?", companyID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return r.find(query)
}

// FindByProfile lists the connections requested by a retailer profile
func (r *GormConnectionRepository) FindByProfile(ctx context.Context, profileID uuid.UUID) ([]company.Connection, error) {
	return r.find(conn(ctx, r.db).Where("retailer_profile_id = ?", profileID))
}

// FindOpen returns the pending or approved connection between a company and a profile
func (r *GormConnectionRepository) FindOpen(ctx context.Context, companyID, profileID uuid.UUID) (*company.Connection, error) {
	var model models.ConnectionModel
	if err := conn(ctx, r.db).
		Where("company_id = ? AND retailer_profile_id = ?", companyID, profileID).
		Where("status IN ?", []company.ConnectionStatus{company.ConnectionPending, company.ConnectionApproved}).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a connection
func (r *GormConnectionRepository) Save(ctx context.Context, c *company.Connection) error {
	return saveAggregate(conn(ctx, r.db), models.ConnectionModelFromDomain(c), c.ID, &c.BaseAggregateRoot)
}

// CountByProfile counts a profile's connections; an empty status counts all
func (r *GormConnectionRepository) CountByProfile(ctx context.Context, profileID uuid.UUID, status company.ConnectionStatus) (int64, error) {
	var count int64
	query := conn(ctx, r.db).Model(&models.ConnectionModel{}).Where("retailer_profile_id = ?", profileID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormConnectionRepository) find(query *gorm.DB) ([]company.Connection, error) {
	var connectionModels []models.ConnectionModel
	if err := query.Order("created_at DESC").Find(&connectionModels).Error; err != nil {
		return nil, err
	}
	connections := make([]company.Connection, len(connectionModels))
	for i := range connectionModels {
		connections[i] = *connectionModels[i].ToDomain()
	}
	return connections, nil
}

// Ensure the repositories implement their interfaces
var (
	_ company.CompanyRepository    = (*GormCompanyRepository)(nil)
	_ company.ConnectionRepository = (*GormConnectionRepository)(nil)
)
