package resume

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS resume_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			track_index INTEGER NOT NULL DEFAULT -1,
			position_ms INTEGER NOT NULL DEFAULT 0,
			show_id TEXT NOT NULL DEFAULT '',
			recording_id TEXT NOT NULL DEFAULT '',
			format TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS resume_tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position INTEGER NOT NULL,
			track_id TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			duration_ms INTEGER,
			format TEXT,
			ordinal INTEGER,
			recording_id TEXT,
			show_id TEXT,
			show_date TEXT,
			venue TEXT,
			display_title TEXT,
			UNIQUE(position)
		);

		CREATE INDEX IF NOT EXISTS idx_resume_tracks_position ON resume_tracks(position);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
