// Package database handles the optional database used to record unresolved
// requests.
//
// It provides a wrapper around GORM to configure MySQL connections for
// production and SQLite for single-node setups and tests.
//
// # Connect
//
// Connect establishes and pings the connection. The database is optional:
// when it is unreachable binserve keeps serving and simply stops recording
// misses.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the integrity check verify that the
// misses table matches the expected model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logg.Warn("Optional database connection failed", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "misses", []string{"path", "count"})
package database
