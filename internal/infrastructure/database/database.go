package database

import (
	"fmt"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/config"
	"github.com/PavaniTiago/leads-intelligence-api/internal/infrastructure/database/migrations"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase abre o banco do cache de snapshots (postgres ou sqlite) e aplica as migrações.
func SetupDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 logger.Default.LogMode(logger.Error),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.CacheDriver {
	case config.DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormConfig)
	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not defined in the environment")
		}
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.CacheDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.CacheDriver == config.DriverSQLite {
		// sqlite aceita um único escritor
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
		RegisterMiddlewares(db)
	}

	if err := Prepare(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Prepare aplica migrações e índices. Também usado nos testes com sqlite em memória.
func Prepare(db *gorm.DB) error {
	if err := migrations.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := migrations.AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	if err := migrations.OptimizePerformanceIndexes(db); err != nil {
		return fmt.Errorf("failed to add optimized indexes: %w", err)
	}
	return nil
}
