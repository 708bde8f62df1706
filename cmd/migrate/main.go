// Command migrate applies or rolls back SQL migrations without starting
// the API server. The server also migrates on startup; this tool exists
// for rollbacks and for inspecting the schema version.
package main

import (
	"flag"
	"fmt"
	"os"

	"stockfolio/internal/config"
	"stockfolio/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	var (
		dir  = flag.String("dir", "migrations", "migrations directory")
		down = flag.Bool("down", false, "roll back one migration instead of applying all")
	)
	flag.Parse()

	if err := run(*dir, *down, flag.Arg(0) == "version"); err != nil {
		logger.Get().Fatalf("migrate: %v", err)
	}
}

func run(dir string, down, showVersion bool) error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	mig, err := migrate.New("file://"+dir, "sqlite3://"+appConfig.DBPath)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = mig.Close() }()

	if showVersion {
		version, dirty, err := mig.Version()
		if err != nil && err != migrate.ErrNilVersion {
			return err
		}
		logger.Get().Infof("schema version %d (dirty=%v)", version, dirty)
		return nil
	}

	if down {
		if err := mig.Steps(-1); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		logger.Get().Info("Rolled back one migration")
		return nil
	}

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Get().Info("Migrations applied")
	return nil
}
