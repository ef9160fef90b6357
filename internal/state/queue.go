package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/wavestream/internal/db"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// QueueTrack represents a track in the saved queue.
type QueueTrack struct {
	TrackID    string
	Title      string
	Artist     string
	Album      string
	ArtworkURL string
	Duration   time.Duration
}

// QueueState represents the saved queue state.
type QueueState struct {
	CurrentIndex int
	Tracks       []QueueTrack
}

// NewQueueState snapshots tracks and the current index for saving.
func NewQueueState(tracks []playlist.Track, current int) QueueState {
	qs := QueueState{CurrentIndex: current, Tracks: make([]QueueTrack, len(tracks))}
	for i, t := range tracks {
		qs.Tracks[i] = QueueTrack{
			TrackID:    t.ID,
			Title:      t.Title,
			Artist:     t.Artist,
			Album:      t.Album,
			ArtworkURL: t.ArtworkURL,
			Duration:   t.Duration,
		}
	}
	return qs
}

// PlaylistTracks converts the saved entries back to queue tracks. Saved
// metadata is only a placeholder: it is re-resolved before playback.
func (s *QueueState) PlaylistTracks() []playlist.Track {
	out := make([]playlist.Track, len(s.Tracks))
	for i, t := range s.Tracks {
		out[i] = playlist.Track{
			ID:         t.TrackID,
			Title:      t.Title,
			Artist:     t.Artist,
			Album:      t.Album,
			ArtworkURL: t.ArtworkURL,
			Duration:   t.Duration,
		}
	}
	return out
}

// GetQueue returns the saved queue.
func (m *Manager) GetQueue() (*QueueState, error) {
	return getQueue(m.db)
}

// SaveQueue replaces the saved queue.
func (m *Manager) SaveQueue(state QueueState) error {
	return saveQueue(m.db, state)
}

func getQueue(db *sql.DB) (*QueueState, error) {
	var currentIndex int
	row := db.QueryRow(`SELECT current_index FROM queue_state WHERE id = 1`)
	err := row.Scan(&currentIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return &QueueState{CurrentIndex: -1}, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT track_id, title, artist, album, artwork_url, duration_ms
		FROM queue_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []QueueTrack
	for rows.Next() {
		var t QueueTrack
		var artist, album, artwork sql.NullString
		var durationMs sql.NullInt64

		err := rows.Scan(&t.TrackID, &t.Title, &artist, &album, &artwork, &durationMs)
		if err != nil {
			return nil, err
		}

		t.Artist = dbutil.NullStringValue(artist)
		t.Album = dbutil.NullStringValue(album)
		t.ArtworkURL = dbutil.NullStringValue(artwork)
		t.Duration = time.Duration(dbutil.NullInt64Value(durationMs)) * time.Millisecond
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(tracks) == 0 {
		currentIndex = -1
	} else if currentIndex < 0 || currentIndex >= len(tracks) {
		currentIndex = 0
	}

	return &QueueState{
		CurrentIndex: currentIndex,
		Tracks:       tracks,
	}, nil
}

func saveQueue(sqlDB *sql.DB, state QueueState) error {
	return dbutil.WithTx(sqlDB, func(tx *sql.Tx) error {
		// Clear existing queue
		_, err := tx.Exec(`DELETE FROM queue_tracks`)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO queue_state (id, current_index)
			VALUES (1, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index
		`, state.CurrentIndex)
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO queue_tracks (position, track_id, title, artist, album, artwork_url, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range state.Tracks {
			_, err = stmt.Exec(i, t.TrackID, t.Title,
				dbutil.NullString(t.Artist), dbutil.NullString(t.Album),
				dbutil.NullString(t.ArtworkURL), dbutil.NullInt64(t.Duration.Milliseconds()))
			if err != nil {
				return err
			}
		}
		return nil
	})
}
