package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"digitaltalent/career-wizard/internal/models"
)

const (
	wizardDBMaxOpenConns    = 10
	wizardDBMaxIdleConns    = 2
	wizardDBConnMaxIdleTime = 5 * time.Minute
)

// OpenWizardDB connects the postgres session backend, checks that the server
// answers and creates the wizard_entries table if it is missing.
func OpenWizardDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.Server.Env)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open wizard database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get wizard database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(wizardDBMaxOpenConns)
	sqlDB.SetMaxIdleConns(wizardDBMaxIdleConns)
	sqlDB.SetConnMaxIdleTime(wizardDBConnMaxIdleTime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach wizard database at %s:%s: %w", cfg.Database.Host, cfg.Database.Port, err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&models.WizardEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate wizard_entries: %w", err)
	}

	log.Printf("✅ Wizard database ready (%s/%s)\n", cfg.Database.Host, cfg.Database.DBName)
	return db, nil
}

// gormLogLevel logs SQL only while developing.
func gormLogLevel(env string) logger.LogLevel {
	if env == "development" {
		return logger.Info
	}
	return logger.Warn
}
