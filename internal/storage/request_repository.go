package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reprasp/internal/models"
)

// RequestRepository handles database operations for pending change requests
type RequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// MigrateTable ensures the requests table exists with the right schema
func (r *RequestRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.PendingRequest{})
}

// Enqueue stores req unless a request with the same group, time and action
// is already pending. It returns the id of the stored request and whether a
// new row was created; req is filled with the stored row either way.
func (r *RequestRepository) Enqueue(ctx context.Context, req *models.PendingRequest) (uint, bool, error) {
	if !req.Action.Valid() {
		return 0, false, fmt.Errorf("action %q: %w", req.Action, models.ErrInvalidFormat)
	}
	if req.Source == "" {
		req.Source = models.SourceBot
	}
	req.ID = 0
	req.TargetTime = models.NormalizeTime(req.TargetTime)

	db := r.db.WithContext(ctx)
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(req)
	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected > 0 && req.ID != 0 {
		return req.ID, true, nil
	}

	var existing models.PendingRequest
	err := db.Where("group_name = ? AND target_time = ? AND action = ?", req.GroupName, req.TargetTime, req.Action).
		First(&existing).Error
	if err != nil {
		return 0, false, fmt.Errorf("load pending request: %w", err)
	}
	*req = existing
	return existing.ID, false, nil
}

// List returns pending requests ordered by target time.
func (r *RequestRepository) List(ctx context.Context) ([]models.PendingRequest, error) {
	reqs := []models.PendingRequest{}
	if err := r.db.WithContext(ctx).Order("target_time ASC, id ASC").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// Get returns the pending request or ErrNotFound.
func (r *RequestRepository) Get(ctx context.Context, id uint) (*models.PendingRequest, error) {
	var req models.PendingRequest
	err := r.db.WithContext(ctx).First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("request %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Resolve consumes the request. Of several concurrent callers only the one
// whose delete removes the row succeeds; the others get ErrNotFound.
func (r *RequestRepository) Resolve(ctx context.Context, id uint) (*models.PendingRequest, error) {
	req, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Delete(&models.PendingRequest{}, id)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected != 1 {
		return nil, fmt.Errorf("request %d: %w", id, models.ErrNotFound)
	}
	return req, nil
}

func (r *RequestRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.PendingRequest{}).Count(&n).Error
	return n, err
}
