// Package database provides SQLite persistence for Auralis Core.
//
// Core persists only the music command audit trail. Presence state is
// held in memory and rebuilt from the broker on restart; it is never
// written here.
//
// The package wraps database/sql with lifecycle management, WAL mode,
// busy-timeout handling, and health checks. Schema creation is owned by
// the repositories that use the database (see internal/audit).
//
// # Usage
//
//	db, err := database.Open(database.Config{
//	    Path:        "./data/auralis.db",
//	    WALMode:     true,
//	    BusyTimeout: 5,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
package database
