// Package database provides the SQLite connection behind the audit store.
//
// Open configures WAL mode and a busy timeout so the coordinator can append
// while parkinglog reads. The file is created with 0600 permissions and
// every query uses placeholders.
//
// Schema changes are embedded *.up.sql / *.down.sql pairs registered by the
// migrations package and applied by Migrate, one transaction per file.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{
//	    Path:        cfg.Database.Path,
//	    WALMode:     cfg.Database.WALMode,
//	    BusyTimeout: cfg.Database.BusyTimeout,
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if _, err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
