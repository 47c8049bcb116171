// Package storagetest provides in-memory databases for tests.
package storagetest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"reprasp/internal/config"
	"reprasp/internal/storage"
)

// NewRepositories returns migrated repositories backed by a private
// in-memory sqlite database that is closed when the test ends.
func NewRepositories(t testing.TB) *storage.Repositories {
	t.Helper()

	db, err := storage.Open(config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		Path:            fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		ConnMaxLifetime: time.Hour,
		LogLevel:        "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close(db) })

	repos := storage.NewRepositories(db)
	require.NoError(t, repos.MigrateTables())
	return repos
}
