package state

import (
	"database/sql"
	"time"

	dbutil "github.com/llehouerou/wavestream/internal/db"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// maxRecentlyPlayed caps the recently played table.
const maxRecentlyPlayed = 500

// RecentTrack is one recently played entry.
type RecentTrack struct {
	TrackID  string
	Title    string
	Artist   string
	Album    string
	PlayedAt time.Time
}

// RecordPlay appends t to the recently played list and trims the oldest
// entries beyond the cap.
func (m *Manager) RecordPlay(t playlist.Track) error {
	return recordPlay(m.db, t, time.Now())
}

func recordPlay(sqlDB *sql.DB, t playlist.Track, at time.Time) error {
	return dbutil.WithTx(sqlDB, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO recently_played (track_id, title, artist, album, played_at)
			VALUES (?, ?, ?, ?, ?)
		`, t.ID, t.Title, dbutil.NullString(t.Artist), dbutil.NullString(t.Album), at.UnixMilli())
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			DELETE FROM recently_played WHERE id NOT IN (
				SELECT id FROM recently_played ORDER BY played_at DESC, id DESC LIMIT ?
			)
		`, maxRecentlyPlayed)
		return err
	})
}

// RecentlyPlayed returns up to limit entries, newest first.
func (m *Manager) RecentlyPlayed(limit int) ([]RecentTrack, error) {
	if limit <= 0 || limit > maxRecentlyPlayed {
		limit = maxRecentlyPlayed
	}

	rows, err := m.db.Query(`
		SELECT track_id, title, artist, album, played_at
		FROM recently_played
		ORDER BY played_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecentTrack
	for rows.Next() {
		var r RecentTrack
		var artist, album sql.NullString
		var playedAt int64
		if err := rows.Scan(&r.TrackID, &r.Title, &artist, &album, &playedAt); err != nil {
			return nil, err
		}
		r.Artist = dbutil.NullStringValue(artist)
		r.Album = dbutil.NullStringValue(album)
		r.PlayedAt = time.UnixMilli(playedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}
