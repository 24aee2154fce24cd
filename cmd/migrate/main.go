package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hrmanagement/hrm-backend-go/internal/config"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/database"
)

func main() {
	var (
		dsnFlag = flag.String("dsn", "", "database URL (defaults to DATABASE_URL env or the app config)")
		steps   = flag.Int("steps", 0, "number of migrations to roll back with down; 0 rolls back all")
	)
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	dsn, err := effectiveDSN(*dsnFlag)
	if err != nil {
		log.Fatalf("failed to resolve database URL: %v", err)
	}

	if err := runMigration(action, dsn, *steps); err != nil {
		log.Fatalf("migration %s failed: %v", action, err)
	}

	log.Printf("migration %s completed", action)
}

func effectiveDSN(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("DATABASE_URL"); env != "" {
		return env, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.DatabaseURL(), nil
}

func runMigration(action, dsn string, steps int) error {
	switch action {
	case "up":
		return database.MigrateUp(dsn)
	case "down":
		return database.MigrateDown(dsn, steps)
	case "drop":
		return database.MigrateDrop(dsn)
	case "version":
		status, err := database.MigrationVersion(dsn)
		if err != nil {
			return err
		}
		log.Printf("version=%d dirty=%t", status.Version, status.Dirty)
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
