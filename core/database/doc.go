// Package database handles database connections and schema inspection.
//
// It wraps GORM and opens MySQL, PostgreSQL or SQLite depending on the configured
// driver. SQLite is limited to a single open connection so that ":memory:" databases
// survive between statements.
//
// # Schema Inspection
//
// GetTableColumns reads live column definitions and CheckModels compares them with
// the GORM models of the snapshot tables and the queue table. The migrate command
// uses it in check mode to report drift without altering anything.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", zap.Error(err))
//	}
//
//	drifts, err := database.CheckModels(db, snapshot.Models()...)
package database
