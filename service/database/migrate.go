/*
 * @module service/database/migrate
 * @description Schema migration for the QC tables
 * @architecture Data access layer - migration management
 * @stateFlow executed once at startup, before any service is built
 * @rules Model definitions are the source of truth for the schema
 * @dependencies ceramiqc/service/models, gorm.io/gorm
 * @refs service/container.go, testutil/test_helper.go
 */

package database

import (
	"ceramiqc/service/models"
	"log/slog"

	"gorm.io/gorm"
)

// Models lists every persisted QC model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Specification{},
		&models.ControlStage{},
		&models.ControlParameter{},
		&models.ScheduledControl{},
		&models.OptimizedMeasurement{},
		&models.ControlSheet{},
	}
}

// AutoMigrate creates or updates the QC tables.
func AutoMigrate(db *gorm.DB) error {
	slog.Info("running database migration")

	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}

	slog.Info("database migration finished")
	return nil
}
