package state

import (
	"database/sql"
	"errors"
	"strconv"

	dbutil "github.com/llehouerou/wavestream/internal/db"
)

const (
	prefVolume  = "volume"
	prefShuffle = "shuffle"
	prefRepeat  = "repeat"
)

// Preferences are the persisted playback settings.
type Preferences struct {
	Volume  float64
	Shuffle bool
	Repeat  int
}

// DefaultPreferences is what a fresh database reports.
func DefaultPreferences() Preferences {
	return Preferences{Volume: 1.0}
}

// LoadPreferences returns the stored preferences, with defaults for missing
// or unparsable keys.
func (m *Manager) LoadPreferences() (Preferences, error) {
	prefs := DefaultPreferences()

	rows, err := m.db.Query(`SELECT key, value FROM preferences`)
	if err != nil {
		return prefs, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return prefs, err
		}
		switch key {
		case prefVolume:
			if v, err := strconv.ParseFloat(value, 64); err == nil && v >= 0 && v <= 1 {
				prefs.Volume = v
			}
		case prefShuffle:
			if b, err := strconv.ParseBool(value); err == nil {
				prefs.Shuffle = b
			}
		case prefRepeat:
			if r, err := strconv.Atoi(value); err == nil {
				prefs.Repeat = r
			}
		}
	}
	return prefs, rows.Err()
}

// SaveVolume persists the volume level.
func (m *Manager) SaveVolume(volume float64) error {
	return setPreference(m.db, prefVolume, strconv.FormatFloat(volume, 'f', -1, 64))
}

// SaveModes persists shuffle and repeat in one transaction.
func (m *Manager) SaveModes(shuffle bool, repeat int) error {
	return dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		if err := setPreference(tx, prefShuffle, strconv.FormatBool(shuffle)); err != nil {
			return err
		}
		return setPreference(tx, prefRepeat, strconv.Itoa(repeat))
	})
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func setPreference(db execer, key, value string) error {
	if key == "" {
		return errors.New("empty preference key")
	}
	_, err := db.Exec(`
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
