package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database.
// These run on startup to ensure tables exist. Snapshots are opaque
// blobs keyed by ledger ID; the engine's codec owns their contents.
const schema = `
CREATE TABLE IF NOT EXISTS ledger_snapshots (
    ledger_id  TEXT PRIMARY KEY,
    snapshot   BLOB NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// runMigrations applies the schema to the database.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
