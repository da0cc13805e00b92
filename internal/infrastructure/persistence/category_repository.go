package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var categoryFilter = filterSpec{
	columns: map[string]string{
		"company_id": "company_id",
	},
	search:      []string{"name"},
	sortFields:  CategorySortFields,
	defaultSort: "name",
}

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all categories matching the filter
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	var categoryModels []models.CategoryModel
	query := categoryFilter.apply(conn(ctx, r.db).Model(&models.CategoryModel{}), filter)
	if err := query.Find(&categoryModels).Error; err != nil {
		return nil, err
	}
	categories := make([]catalog.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = *categoryModels[i].ToDomain()
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return saveAggregate(conn(ctx, r.db), models.CategoryModelFromDomain(category), category.ID, &category.BaseAggregateRoot)
}

// Delete deletes a category. Products keep existing without a category.
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	if err := db.Model(&models.ProductModel{}).
		Where("category_id = ?", id).
		Update("category_id", nil).Error; err != nil {
		return err
	}
	return deleteByID(db, &models.CategoryModel{}, id)
}

// Count counts categories matching the filter
func (r *GormCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := categoryFilter.where(conn(ctx, r.db).Model(&models.CategoryModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks if a company already has a category with the name, ignoring case
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, companyID uuid.UUID, name string) (bool, error) {
	return exists(conn(ctx, r.db), &models.CategoryModel{},
		"company_id = ? AND LOWER(name) = ?", companyID, strings.ToLower(strings.TrimSpace(name)))
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
