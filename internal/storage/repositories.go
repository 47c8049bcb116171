package storage

import (
	"context"

	"gorm.io/gorm"

	"reprasp/internal/models"
)

// Repositories bundles the repositories that share one connection or one
// transaction.
type Repositories struct {
	db *gorm.DB

	Schedule *ScheduleRepository
	Admins   *AdminRepository
	Requests *RequestRepository
}

// NewRepositories creates the repositories on top of db
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:       db,
		Schedule: NewScheduleRepository(db),
		Admins:   NewAdminRepository(db),
		Requests: NewRequestRepository(db),
	}
}

// MigrateTables creates or updates all tables
func (r *Repositories) MigrateTables() error {
	for _, m := range []interface{ MigrateTable() error }{r.Schedule, r.Admins, r.Requests} {
		if err := m.MigrateTable(); err != nil {
			return err
		}
	}
	return nil
}

// DropTables removes all tables, used by dbmigrate reset
func (r *Repositories) DropTables() error {
	return r.db.Migrator().DropTable(&models.ScheduleEntry{}, &models.Admin{}, &models.PendingRequest{})
}

// Transaction runs fn with repositories bound to a single transaction.
// Returning an error rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
