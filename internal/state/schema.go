package state

import (
	"database/sql"
	"fmt"

	dbutil "github.com/llehouerou/wavestream/internal/db"
)

// migrations[i] brings the schema from version i to i+1.
var migrations = []string{
	`CREATE TABLE preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE recently_played (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		track_id TEXT NOT NULL,
		title TEXT NOT NULL,
		artist TEXT,
		album TEXT,
		played_at INTEGER NOT NULL
	);
	CREATE INDEX idx_recently_played_at ON recently_played(played_at DESC);

	CREATE TABLE queue_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		current_index INTEGER NOT NULL DEFAULT -1
	);

	CREATE TABLE queue_tracks (
		position INTEGER PRIMARY KEY,
		track_id TEXT NOT NULL,
		title TEXT NOT NULL,
		artist TEXT,
		album TEXT,
		artwork_url TEXT,
		duration_ms INTEGER
	);`,
}

func schemaVersion(db *sql.DB) (int, error) {
	var v int
	err := db.QueryRow(`PRAGMA user_version`).Scan(&v)
	return v, err
}

// migrate applies pending migrations, each in its own transaction.
func migrate(db *sql.DB) error {
	current, err := schemaVersion(db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than supported %d", current, len(migrations))
	}
	for v := current; v < len(migrations); v++ {
		err := dbutil.WithTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(migrations[v]); err != nil {
				return err
			}
			_, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, v+1))
			return err
		})
		if err != nil {
			return fmt.Errorf("migrate to version %d: %w", v+1, err)
		}
	}
	return nil
}
