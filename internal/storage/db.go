package storage

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"reprasp/internal/config"
	"reprasp/internal/logger"
)

// Initialize opens the configured database and applies the pool settings.
func Initialize(cfg *config.Config) (*gorm.DB, error) {
	return Open(cfg.Database)
}

// Open connects to the database described by dbCfg.
func Open(dbCfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(dbCfg)
	if err != nil {
		return nil, err
	}

	logger.Infof("Connecting to %s database: %s", dbCfg.Driver, describe(dbCfg))

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(dbCfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}

	if dbCfg.Driver == config.DriverSQLite {
		// sqlite serialises writers anyway; one connection avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)

	logger.Infof("Database connection established successfully")
	return db, nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(c config.DatabaseConfig) (gorm.Dialector, error) {
	switch c.Driver {
	case config.DriverSQLite:
		return sqlite.Open(sqliteDSN(c.Path)), nil
	case config.DriverMySQL:
		port := c.Port
		if port == 0 {
			port = 3306
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=UTC",
			c.Username,
			c.Password,
			c.Host,
			port,
			c.DBName,
			c.Charset,
		)
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		port := c.Port
		if port == 0 {
			port = 5432
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			c.Host,
			port,
			c.Username,
			c.Password,
			c.DBName,
			c.SSLMode,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") || strings.Contains(path, ":memory:") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func describe(c config.DatabaseConfig) string {
	if c.Driver == config.DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf("%s:%d/%s", c.Host, c.Port, c.DBName)
}
