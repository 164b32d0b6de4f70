// Package database provides the SQLite connection used by the session
// journal.
//
// The default configuration opens a private in-memory database, so nothing
// outlives the process. Pointing Path at a file keeps the journal on disk
// with WAL mode and owner-only permissions.
//
// Migrations are plain .sql files read from an fs.FS (normally the embedded
// migrations package) and applied in filename order, each in its own
// transaction. Applied versions are tracked in schema_migrations.
//
// Usage:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
package database
