package checks

import (
	"fmt"

	"ads-reconciler/core/database"

	"gorm.io/gorm"
)

// SchemaReport is the result of a schema check.
type SchemaReport struct {
	Driver  string           `json:"driver"`
	Matched bool             `json:"matched"`
	Drift   []database.Drift `json:"drift"`
}

// CheckSchema compares the live schema with the models.
func CheckSchema(db *gorm.DB, models ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	drift, err := database.CheckModels(db, models...)
	if err != nil {
		return nil, err
	}
	if drift == nil {
		drift = []database.Drift{}
	}
	return &SchemaReport{
		Driver:  db.Dialector.Name(),
		Matched: len(drift) == 0,
		Drift:   drift,
	}, nil
}

// FixSchema migrates the models so that missing tables and columns exist.
func FixSchema(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
