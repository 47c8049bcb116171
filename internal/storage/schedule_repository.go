package storage

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reprasp/internal/models"
)

// ScheduleRepository handles database operations for schedule entries
type ScheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// MigrateTable ensures the entries table exists with the right schema
func (r *ScheduleRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.ScheduleEntry{})
}

// List returns all entries in chronological order.
func (r *ScheduleRepository) List(ctx context.Context) ([]models.ScheduleEntry, error) {
	entries := []models.ScheduleEntry{}
	if err := r.db.WithContext(ctx).Order("start_time ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Add inserts the entry; an existing (group, time) pair is left as is.
func (r *ScheduleRepository) Add(ctx context.Context, group string, start time.Time) error {
	entry := models.ScheduleEntry{
		GroupName: group,
		StartTime: models.NormalizeTime(start),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
}

// Remove deletes the entry and reports whether one existed.
func (r *ScheduleRepository) Remove(ctx context.Context, group string, start time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("group_name = ? AND start_time = ?", group, models.NormalizeTime(start)).
		Delete(&models.ScheduleEntry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// PurgeBefore deletes every entry that starts strictly before t.
func (r *ScheduleRepository) PurgeBefore(ctx context.Context, t time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("start_time < ?", t.UTC()).
		Delete(&models.ScheduleEntry{})
	return result.RowsAffected, result.Error
}

func (r *ScheduleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ScheduleEntry{}).Count(&n).Error
	return n, err
}
