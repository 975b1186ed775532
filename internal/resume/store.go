// Package resume persists a durable playback snapshot so a session can
// be picked up across process restarts. Storage is a single well-known
// slot; no history of past sessions is retained.
package resume

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver

	dbutil "github.com/sgrimes/tapedeck/internal/db"
	"github.com/sgrimes/tapedeck/internal/track"
)

const (
	appName    = "tapedeck"
	dbFileName = "tapedeck.db"
)

// Snapshot is a point-in-time serialization of the playback session.
type Snapshot struct {
	Tracks      []track.Enriched
	TrackIndex  int
	Position    time.Duration
	ShowID      string
	RecordingID string
	Format      string
}

// valid reports whether the snapshot could actually be restored.
func (s Snapshot) valid() bool {
	return len(s.Tracks) > 0 && s.TrackIndex >= 0 && s.TrackIndex < len(s.Tracks)
}

// Store is the durable snapshot slot.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens the store at the default XDG data location.
func Open(log zerolog.Logger) (*Store, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenAt(dbPath, log)
}

// OpenAt opens the store at an explicit path.
func OpenAt(path string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save overwrites the slot with the given snapshot. An unrestorable
// snapshot (no tracks, or index out of range) is silently dropped so
// the slot never holds a record Restore would have to reject.
func (s *Store) Save(snap Snapshot) error {
	if !snap.valid() {
		s.log.Debug().Int("tracks", len(snap.Tracks)).Int("index", snap.TrackIndex).
			Msg("skipping unrestorable snapshot")
		return nil
	}

	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM resume_tracks`); err != nil {
			return err
		}

		_, err := tx.Exec(`
			INSERT INTO resume_state (id, track_index, position_ms, show_id, recording_id, format)
			VALUES (1, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				track_index = excluded.track_index,
				position_ms = excluded.position_ms,
				show_id = excluded.show_id,
				recording_id = excluded.recording_id,
				format = excluded.format
		`, snap.TrackIndex, snap.Position.Milliseconds(), snap.ShowID, snap.RecordingID, snap.Format)
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO resume_tracks
				(position, track_id, url, title, duration_ms, format, ordinal,
				 recording_id, show_id, show_date, venue, display_title)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range snap.Tracks {
			_, err = stmt.Exec(i, t.ID, t.URL, t.Title, t.Duration.Milliseconds(),
				t.Format, t.Ordinal, t.RecordingID, t.ShowID, t.ShowDate, t.Venue, t.DisplayTitle)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Restore returns the saved snapshot, or nil when the slot is empty.
// A corrupt or unrestorable record is treated as absent, never as an
// error: resuming is best-effort.
func (s *Store) Restore() *Snapshot {
	var snap Snapshot
	row := s.db.QueryRow(`SELECT track_index, position_ms, show_id, recording_id, format FROM resume_state WHERE id = 1`)

	var positionMs int64
	err := row.Scan(&snap.TrackIndex, &positionMs, &snap.ShowID, &snap.RecordingID, &snap.Format)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("resume slot unreadable, treating as absent")
		return nil
	}
	snap.Position = time.Duration(positionMs) * time.Millisecond

	rows, err := s.db.Query(`
		SELECT track_id, url, title, duration_ms, format, ordinal,
		       recording_id, show_id, show_date, venue, display_title
		FROM resume_tracks
		ORDER BY position
	`)
	if err != nil {
		s.log.Warn().Err(err).Msg("resume tracks unreadable, treating as absent")
		return nil
	}
	defer rows.Close()

	for rows.Next() {
		var t track.Enriched
		var durationMs, ordinal sql.NullInt64
		var format, recordingID, showID, showDate, venue, displayTitle sql.NullString

		err := rows.Scan(&t.ID, &t.URL, &t.Title, &durationMs, &format, &ordinal,
			&recordingID, &showID, &showDate, &venue, &displayTitle)
		if err != nil {
			s.log.Warn().Err(err).Msg("resume track row corrupt, treating slot as absent")
			return nil
		}

		t.Duration = time.Duration(dbutil.NullInt64Value(durationMs)) * time.Millisecond
		t.Format = dbutil.NullStringValue(format)
		t.Ordinal = int(dbutil.NullInt64Value(ordinal))
		t.RecordingID = dbutil.NullStringValue(recordingID)
		t.ShowID = dbutil.NullStringValue(showID)
		t.ShowDate = dbutil.NullStringValue(showDate)
		t.Venue = dbutil.NullStringValue(venue)
		t.DisplayTitle = dbutil.NullStringValue(displayTitle)
		snap.Tracks = append(snap.Tracks, t)
	}
	if err := rows.Err(); err != nil {
		s.log.Warn().Err(err).Msg("resume track scan failed, treating slot as absent")
		return nil
	}

	if !snap.valid() {
		return nil
	}
	return &snap
}

// Clear writes the empty sentinel. Used for user-intentional session
// termination, not for transient pause or stop.
func (s *Store) Clear() error {
	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM resume_tracks`); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM resume_state`)
		return err
	})
}
