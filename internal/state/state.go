// Package state persists playback preferences, the play queue and the
// recently played list in SQLite.
package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/wavestream/internal/errmsg"
)

const (
	appName      = "wavestream"
	dbFileName   = "wavestream.db"
	saveDebounce = 500 * time.Millisecond
)

// Manager owns the state database.
type Manager struct {
	db  *sql.DB
	log zerolog.Logger

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *QueueState
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for background save failures.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)

// Open opens the database at path, or at the XDG data location when path is
// empty. ":memory:" opens a private in-memory database.
func Open(path string, opts ...Option) (*Manager, error) {
	if path == "" {
		var err error
		path, err = getDBPath()
		if err != nil {
			return nil, err
		}
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps in-memory databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	m := &Manager{db: db, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	m.flush(pending)
	return m.db.Close()
}

// ScheduleQueueSave saves the queue after a short quiet period. Only the
// latest state is written; Close flushes a pending save.
func (m *Manager) ScheduleQueueSave(state QueueState) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &state

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()
		m.flush(pending)
	})
}

func (m *Manager) flush(qs *QueueState) {
	if qs == nil {
		return
	}
	if err := saveQueue(m.db, *qs); err != nil {
		m.log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpQueueSave, err))
	}
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
