package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// SchemaExists reports whether the postgres schema is present.
func SchemaExists(db *gorm.DB, schemaName string) (bool, error) {
	var count int64
	err := db.Raw("SELECT COUNT(*) FROM information_schema.schemata WHERE schema_name = ?", schemaName).
		Scan(&count).Error
	return count > 0, err
}

// EnsureSchema creates the schema the QC tables live in when it is missing.
// Only meaningful on postgres; "public" always exists.
func EnsureSchema(db *gorm.DB, schemaName string) error {
	if schemaName == "" || schemaName == "public" {
		return nil
	}
	exists, err := SchemaExists(db, schemaName)
	if err != nil {
		return fmt.Errorf("check schema %s: %w", schemaName, err)
	}
	if exists {
		return nil
	}

	// quoted so reserved words survive
	if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %q", schemaName)).Error; err != nil {
		return fmt.Errorf("create schema %s: %w", schemaName, err)
	}
	slog.Info("schema created", "schema", schemaName)
	return nil
}
