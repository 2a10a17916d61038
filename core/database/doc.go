// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL connections based on
// the application's configuration, with an SQLite branch used by the test
// suite.
//
// # Schema Inspection
//
// The package includes tools to inspect the database schema, used by the
// integrity feature to verify that the items, loans, workers, and requests
// tables carry the columns the application expects.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "items")
package database
