package media

import (
	"sync"
	"time"

	"github.com/llehouerou/wavestream/internal/stream"
)

// DefaultMockDuration is the duration a Mock reports for loaded sources.
const DefaultMockDuration = 3 * time.Minute

// Mock is a test Element. It never emits events on its own; tests drive the
// lifecycle through Emit, which delivers synchronously on the caller's
// goroutine.
type Mock struct {
	mu sync.Mutex

	source   *stream.Resource
	playing  bool
	position time.Duration
	duration time.Duration
	volume   float64
	closed   bool

	loadDuration time.Duration
	loadErr      error
	playErr      error

	loads  []string
	subs   map[int]func(Event)
	nextID int
}

// Verify Mock implements Element at compile time.
var _ Element = (*Mock)(nil)

// NewMock creates a mock element with full volume.
func NewMock() *Mock {
	return &Mock{
		volume:       1,
		loadDuration: DefaultMockDuration,
		subs:         make(map[int]func(Event)),
	}
}

// Load implements Element.
func (m *Mock) Load(res *stream.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loads = append(m.loads, res.TrackID)
	m.playing = false
	m.position = 0
	if m.loadErr != nil {
		m.source = nil
		m.duration = 0
		return m.loadErr
	}
	m.source = res
	m.duration = m.loadDuration
	return nil
}

// Play implements Element.
func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playErr != nil {
		return m.playErr
	}
	m.playing = true
	return nil
}

// Pause implements Element.
func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
}

// Seek implements Element.
func (m *Mock) Seek(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = pos
	return nil
}

// Stop implements Element.
func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source = nil
	m.playing = false
	m.position = 0
	m.duration = 0
}

// SetVolume implements Element.
func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
}

// Position implements Element.
func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// Duration implements Element.
func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

// Subscribe implements Element.
func (m *Mock) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Close implements Element.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.source = nil
	m.playing = false
	return nil
}

// Emit delivers ev to every subscriber. An empty Source is filled with the
// current source ID.
func (m *Mock) Emit(ev Event) {
	m.mu.Lock()
	if ev.Source == "" && m.source != nil {
		ev.Source = m.source.ID
	}
	if ev.Type == EventEnded {
		m.playing = false
		m.position = m.duration
	}
	fns := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// SetLoadError makes subsequent loads fail with err.
func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// SetPlayError makes subsequent Play calls fail with err.
func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// SetLoadDuration sets the duration reported for subsequently loaded sources.
func (m *Mock) SetLoadDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadDuration = d
}

// SetPosition moves the reported position without emitting.
func (m *Mock) SetPosition(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = pos
}

// Source returns the loaded resource, or nil.
func (m *Mock) Source() *stream.Resource {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}

// IsPlaying reports whether Play was the last transport call.
func (m *Mock) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Volume returns the last level passed to SetVolume.
func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Loads returns the track IDs of every Load call, in order.
func (m *Mock) Loads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.loads))
	copy(out, m.loads)
	return out
}

// Subscribers returns the number of registered observers.
func (m *Mock) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
