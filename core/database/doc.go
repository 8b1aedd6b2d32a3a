// Package database opens the SQL connection used by the database state backend.
//
// It wraps GORM and configures either MySQL (production) or SQLite (single host,
// tests) from the application configuration. Schema management for the
// sync_states table lives next to its model in core/state.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return fmt.Errorf("database state backend: %w", err)
//	}
package database
