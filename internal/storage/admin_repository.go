package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reprasp/internal/models"
)

// AdminRepository handles database operations for administrators
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// MigrateTable ensures the admins table exists with the right schema
func (r *AdminRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Admin{})
}

// IsAdmin reports whether id is registered; unknown ids are simply false.
func (r *AdminRepository) IsAdmin(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Add registers id as a regular admin. Adding an existing admin is a no-op.
func (r *AdminRepository) Add(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Admin{ID: id}).Error
}

// Remove deletes a regular admin. The primary admin yields ErrForbidden.
func (r *AdminRepository) Remove(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND is_primary = ?", id, false).
		Delete(&models.Admin{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var primary int64
	err := r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ? AND is_primary = ?", id, true).
		Count(&primary).Error
	if err != nil {
		return err
	}
	if primary > 0 {
		return fmt.Errorf("admin %d is the primary admin: %w", id, models.ErrForbidden)
	}
	return nil
}

// List returns every admin id in ascending order.
func (r *AdminRepository) List(ctx context.Context) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).Model(&models.Admin{}).Order("id ASC").Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Primary returns the primary admin id or ErrNotFound before bootstrap.
func (r *AdminRepository) Primary(ctx context.Context) (int64, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("is_primary = ?", true).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("primary admin: %w", models.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return admin.ID, nil
}

// Initialize designates primaryID as primary admin on a store that has none.
// An initialized store is never modified. The result reports whether
// anything was written.
func (r *AdminRepository) Initialize(ctx context.Context, primaryID int64) (bool, error) {
	if primaryID <= 0 {
		return false, fmt.Errorf("primary admin id %d: %w", primaryID, models.ErrInvalidFormat)
	}

	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Admin{}).Where("is_primary = ?", true).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		result := tx.Model(&models.Admin{}).Where("id = ?", primaryID).Update("is_primary", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := tx.Create(&models.Admin{ID: primaryID, IsPrimary: true}).Error; err != nil {
				return err
			}
		}
		changed = true
		return nil
	})
	return changed, err
}
