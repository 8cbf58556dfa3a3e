package db

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/homebarber/internal/config"
	"github.com/BruksfildServices01/homebarber/internal/models"
	"github.com/BruksfildServices01/homebarber/internal/seed"
)

func NewDB(cfg config.PostgresConfig, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Barber{},
		&models.Service{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := SeedReference(db); err != nil {
		return nil, err
	}

	log.Info().Msg("database ready")
	return db, nil
}

// SeedReference inserts the catalog and the initial barber directory.
// Existing rows are left alone.
func SeedReference(db *gorm.DB) error {
	services := seed.Services()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&services).Error; err != nil {
		return fmt.Errorf("seed services: %w", err)
	}

	barbers := seed.Barbers()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&barbers).Error; err != nil {
		return fmt.Errorf("seed barbers: %w", err)
	}
	return nil
}
