package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// UncategorizedLabel names the stock of products without a category
const UncategorizedLabel = "Uncategorized"

var productFilter = filterSpec{
	columns: map[string]string{
		"company_id":  "company_id",
		"category_id": "category_id",
		"status":      "status",
	},
	search:      []string{"name", "hsn_code"},
	sortFields:  ProductSortFields,
	defaultSort: "created_at",
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the products with the given IDs. Missing IDs are skipped.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var productModels []models.ProductModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toProducts(productModels), nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var productModels []models.ProductModel
	query := productFilter.apply(conn(ctx, r.db).Model(&models.ProductModel{}), filter)
	if err := query.Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toProducts(productModels), nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return saveAggregate(conn(ctx, r.db), models.ProductModelFromDomain(product), product.ID, &product.BaseAggregateRoot)
}

// SaveAll saves several products atomically
func (r *GormProductRepository) SaveAll(ctx context.Context, products []*catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	return NewGormTransactionScope(r.db).WithinTx(ctx, func(ctx context.Context) error {
		for _, p := range products {
			if err := r.Save(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(conn(ctx, r.db), &models.ProductModel{}, id)
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := productFilter.where(conn(ctx, r.db).Model(&models.ProductModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// StockByCategory sums available quantity per category name
func (r *GormProductRepository) StockByCategory(ctx context.Context, companyID *uuid.UUID) ([]catalog.CategoryStock, error) {
	var rows []struct {
		Category string
		Value    int64
	}
	// the alias must not collide with a column of either table, GROUP BY
	// prefers input columns over output names
	query := conn(ctx, r.db).
		Table("products AS p").
		Select("COALESCE(c.name, ?) AS category, COALESCE(SUM(p.available_quantity), 0) AS value", UncategorizedLabel).
		Joins("LEFT JOIN categories AS c ON c.id = p.category_id")
	if companyID != nil {
		query = query.Where("p.company_id = ?", *companyID)
	}
	if err := query.Group("category").Order("category ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	stock := make([]catalog.CategoryStock, len(rows))
	for i, row := range rows {
		stock[i] = catalog.CategoryStock{Name: row.Category, Value: row.Value}
	}
	return stock, nil
}

func toProducts(productModels []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
