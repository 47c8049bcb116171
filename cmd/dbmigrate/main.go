package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"gorm.io/gorm"

	"reprasp/internal/config"
	"reprasp/internal/models"
	"reprasp/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	action := flag.String("action", "migrate", "Action to perform (migrate, reset, status, init)")
	primary := flag.Int64("primary", 0, "Primary admin Telegram id for -action init (defaults to admin.primary_id)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := storage.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer storage.Close(db)

	repos := storage.NewRepositories(db)

	switch *action {
	case "migrate":
		if err := migrateDatabase(repos); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed successfully")
	case "reset":
		if err := resetDatabase(repos); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
		log.Println("Database reset completed successfully")
	case "status":
		if err := checkStatus(db, repos); err != nil {
			log.Fatalf("Status check failed: %v", err)
		}
	case "init":
		id := *primary
		if id == 0 {
			id = cfg.Admin.PrimaryID
		}
		if err := initPrimary(repos, id); err != nil {
			log.Fatalf("Init failed: %v", err)
		}
	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}

// migrateDatabase performs database migration
func migrateDatabase(repos *storage.Repositories) error {
	fmt.Println("Migrating database...")
	return repos.MigrateTables()
}

// resetDatabase drops tables and recreates them
func resetDatabase(repos *storage.Repositories) error {
	fmt.Println("Resetting database...")

	fmt.Print("WARNING: This will delete all data! Are you sure? (y/N): ")
	var confirmation string
	fmt.Scanln(&confirmation)

	if confirmation != "y" && confirmation != "Y" {
		return fmt.Errorf("operation cancelled by user")
	}

	if err := repos.DropTables(); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return migrateDatabase(repos)
}

// checkStatus prints which tables exist and how many rows they hold
func checkStatus(db *gorm.DB, repos *storage.Repositories) error {
	fmt.Println("Checking database status...")
	ctx := context.Background()

	tables := []struct {
		name  string
		model interface{}
		count func(context.Context) (int64, error)
	}{
		{"Schedule", &models.ScheduleEntry{}, repos.Schedule.Count},
		{"Requests", &models.PendingRequest{}, repos.Requests.Count},
		{"Admins", &models.Admin{}, nil},
	}

	for _, table := range tables {
		if !db.Migrator().HasTable(table.model) {
			fmt.Printf("❌ %s table does not exist\n", table.name)
			continue
		}
		fmt.Printf("✅ %s table exists\n", table.name)
		if table.count == nil {
			continue
		}
		count, err := table.count(ctx)
		if err != nil {
			return fmt.Errorf("count %s: %w", table.name, err)
		}
		fmt.Printf("   - Contains %d records\n", count)
	}

	if !db.Migrator().HasTable(&models.Admin{}) {
		return nil
	}
	admins, err := repos.Admins.List(ctx)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}
	fmt.Printf("   - Admins: %v\n", admins)
	if id, err := repos.Admins.Primary(ctx); err == nil {
		fmt.Printf("   - Primary admin: %d\n", id)
	} else {
		fmt.Println("   - No primary admin")
	}
	return nil
}

// initPrimary migrates and designates the primary admin
func initPrimary(repos *storage.Repositories, id int64) error {
	if err := migrateDatabase(repos); err != nil {
		return err
	}
	changed, err := repos.Admins.Initialize(context.Background(), id)
	if err != nil {
		return err
	}
	if changed {
		fmt.Printf("Primary admin set to %d\n", id)
	} else {
		fmt.Printf("Primary admin is already %d\n", id)
	}
	return nil
}
