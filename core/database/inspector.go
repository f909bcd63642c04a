package database

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ColumnInfo is one column of an existing table.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // NULL default is possible
	Extra   string
}

// Drift describes how a table differs from the model that maps onto it.
type Drift struct {
	Table          string
	MissingTable   bool
	MissingColumns []string
}

// GetTableColumns retrieves the column definitions for a given table.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo

	switch db.Dialector.Name() {
	case DriverSQLite:
		type sqliteColumn struct {
			Cid        int
			Name       string
			Type       string
			Notnull    int
			DefaultVal *string
			Pk         int
		}
		var sqliteCols []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			columns = append(columns, ColumnInfo{
				Field: col.Name,
				Type:  col.Type,
			})
		}
	case DriverPostgres:
		type pgColumn struct {
			ColumnName string
			DataType   string
			IsNullable string
		}
		var pgCols []pgColumn
		err := db.Raw(`SELECT column_name, data_type, is_nullable FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = ? ORDER BY ordinal_position`, tableName).
			Scan(&pgCols).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range pgCols {
			columns = append(columns, ColumnInfo{
				Field: col.ColumnName,
				Type:  col.DataType,
				Null:  col.IsNullable,
			})
		}
	default:
		if err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
	}

	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// CheckModels compares each model's table against the live schema and reports drift.
// An empty result means every table and column exists.
func CheckModels(db *gorm.DB, models ...any) ([]Drift, error) {
	var drifts []Drift
	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(table) {
			drifts = append(drifts, Drift{Table: table, MissingTable: true})
			continue
		}

		columns, err := GetTableColumns(db, table)
		if err != nil {
			return nil, err
		}
		existing := make(map[string]struct{}, len(columns))
		for _, col := range columns {
			existing[col.Field] = struct{}{}
		}

		missing := missingColumns(stmt.Schema, existing)
		if len(missing) > 0 {
			drifts = append(drifts, Drift{Table: table, MissingColumns: missing})
		}
	}
	return drifts, nil
}

func missingColumns(s *schema.Schema, existing map[string]struct{}) []string {
	var missing []string
	for _, name := range s.DBNames {
		if _, ok := existing[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
