package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/openinvoice/backend/internal/infrastructure/config"
	"github.com/openinvoice/backend/internal/infrastructure/logger"
	"github.com/openinvoice/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// Applies the database schema without starting the server. Useful for
// PostgreSQL deployments where the schema is rolled forward before the
// new binary, and for preparing a fresh SQLite file.
func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(logLevel))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	log.Info("Schema up to date",
		zap.String("driver", cfg.Database.Driver),
	)
}
