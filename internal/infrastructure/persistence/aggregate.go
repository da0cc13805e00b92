package persistence

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// saveAggregate inserts a new aggregate, or updates a persisted one with an
// optimistic lock on the version it was loaded at. Associations are not
// written on update; callers replace child rows themselves.
func saveAggregate(db *gorm.DB, model interface{}, id uuid.UUID, root *shared.BaseAggregateRoot) error {
	if root.IsNew() {
		if err := db.Create(model).Error; err != nil {
			return translateError(err)
		}
		root.MarkPersisted()
		return nil
	}

	result := db.Model(model).
		Where("id = ? AND version = ?", id, root.StoredVersion()).
		Select("*").
		Omit("created_at", clause.Associations).
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	root.MarkPersisted()
	return nil
}

// deleteByID deletes one row and reports shared.ErrNotFound when nothing matched
func deleteByID(db *gorm.DB, model interface{}, id uuid.UUID) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// exists reports whether any row of model matches the condition
func exists(db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
