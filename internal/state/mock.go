// internal/state/mock.go
package state

import (
	"sync"
	"time"

	"github.com/llehouerou/wavestream/internal/playlist"
)

// Mock is a test double for Manager. It is safe for concurrent use.
type Mock struct {
	mu         sync.Mutex
	prefs      Preferences
	prefsErr   error
	saveErr    error
	queueState *QueueState
	recent     []RecentTrack
	volumes    []float64
	modeSaves  int
	closed     bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{prefs: DefaultPreferences()}
}

func (m *Mock) LoadPreferences() (Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefsErr != nil {
		return DefaultPreferences(), m.prefsErr
	}
	return m.prefs, nil
}

func (m *Mock) SaveVolume(volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.prefs.Volume = volume
	m.volumes = append(m.volumes, volume)
	return nil
}

func (m *Mock) SaveModes(shuffle bool, repeat int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.prefs.Shuffle = shuffle
	m.prefs.Repeat = repeat
	m.modeSaves++
	return nil
}

func (m *Mock) RecordPlay(t playlist.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recent = append([]RecentTrack{{
		TrackID:  t.ID,
		Title:    t.Title,
		Artist:   t.Artist,
		Album:    t.Album,
		PlayedAt: time.Now(),
	}}, m.recent...)
	return nil
}

func (m *Mock) RecentlyPlayed(limit int) ([]RecentTrack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.recent) {
		limit = len(m.recent)
	}
	out := make([]RecentTrack, limit)
	copy(out, m.recent[:limit])
	return out, nil
}

func (m *Mock) SaveQueue(state QueueState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.queueState = &state
	return nil
}

func (m *Mock) ScheduleQueueSave(state QueueState) {
	_ = m.SaveQueue(state)
}

func (m *Mock) GetQueue() (*QueueState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queueState == nil {
		return &QueueState{CurrentIndex: -1}, nil
	}
	qs := *m.queueState
	return &qs, nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetPreferences(p Preferences) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs = p
}

func (m *Mock) SetPreferencesError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefsErr = err
}

func (m *Mock) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// SavedVolumes returns every volume passed to SaveVolume, in order.
func (m *Mock) SavedVolumes() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.volumes))
	copy(out, m.volumes)
	return out
}

// ModeSaves returns how many times SaveModes succeeded.
func (m *Mock) ModeSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modeSaves
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
