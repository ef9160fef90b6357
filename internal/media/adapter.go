package media

import (
	"errors"
	"sync"
	"time"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/stream"
)

// ErrClosed is returned by operations on a closed Adapter.
var ErrClosed = errors.New("media adapter closed")

// Update is the state change derived from one element event.
type Update struct {
	Source    string
	Event     EventType
	Phase     Phase
	Buffering bool
	Position  time.Duration
	Duration  time.Duration
	// Err is set for EventError and is classified as a decode failure.
	Err error
}

// Sink receives adapter updates. It is called without any adapter lock held.
type Sink interface {
	MediaUpdated(u Update)
}

// Adapter owns an Element and its active Resource.
//
// At most one Resource is held at a time: loading a new one releases the
// previous one, and Unload and Close release the current one.
type Adapter struct {
	mu sync.Mutex

	el          Element
	sink        Sink
	unsubscribe func()

	res       *stream.Resource
	phase     Phase
	buffering bool
	position  time.Duration
	duration  time.Duration
	closed    bool
}

// NewAdapter wraps el and forwards its events to sink. The adapter
// registers itself as the element's only observer until Close.
func NewAdapter(el Element, sink Sink) *Adapter {
	a := &Adapter{el: el, sink: sink}
	a.unsubscribe = el.Subscribe(a.handle)
	return a
}

// Load makes res the active source. The previous resource is released once
// the element has switched away from it. If the element rejects res, res is
// released too and a decode error is returned.
func (a *Adapter) Load(res *stream.Resource) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		_ = res.Release()
		return ErrClosed
	}

	prev := a.res
	a.res = res
	a.phase = PhaseLoading
	a.buffering = false
	a.position = 0
	a.duration = 0

	err := a.el.Load(res)
	if prev != nil && prev != res {
		_ = prev.Release()
	}
	if err != nil {
		a.el.Stop()
		_ = res.Release()
		a.res = nil
		a.phase = PhaseIdle
		return errmsg.New(errmsg.KindDecode, errmsg.OpStreamDecode, err).WithTrack(res.TrackID)
	}
	return nil
}

// Unload stops the element and releases the active resource.
func (a *Adapter) Unload() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unloadLocked()
}

func (a *Adapter) unloadLocked() {
	if a.res == nil {
		return
	}
	a.el.Stop()
	_ = a.res.Release()
	a.res = nil
	a.phase = PhaseIdle
	a.buffering = false
	a.position = 0
	a.duration = 0
}

// Play starts or resumes the active source.
func (a *Adapter) Play() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.res == nil {
		return errmsg.Newf(errmsg.KindPlaybackRejected, errmsg.OpPlaybackStart, "no source loaded")
	}
	if err := a.el.Play(); err != nil {
		return errmsg.New(errmsg.KindPlaybackRejected, errmsg.OpPlaybackStart, err).WithTrack(a.res.TrackID)
	}
	a.phase = PhasePlaying
	return nil
}

// Pause pauses the active source.
func (a *Adapter) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.res == nil {
		return
	}
	a.el.Pause()
	if a.phase.IsActive() {
		a.phase = PhasePaused
	}
}

// Seek moves to pos clamped into [0, duration] and returns the position
// actually requested. With an unknown duration only the lower bound applies.
func (a *Adapter) Seek(pos time.Duration) (time.Duration, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.res == nil {
		return 0, nil
	}
	pos = max(pos, 0)
	if d := a.durationLocked(); d > 0 {
		pos = min(pos, d)
	}
	if err := a.el.Seek(pos); err != nil {
		return a.position, errmsg.New(errmsg.KindUnknown, errmsg.OpPlaybackSeek, err).WithTrack(a.res.TrackID)
	}
	a.position = pos
	return pos, nil
}

// SetVolume applies a linear level in [0, 1].
func (a *Adapter) SetVolume(level float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.el.SetVolume(min(max(level, 0), 1))
}

// Position returns the element's current position.
func (a *Adapter) Position() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.res == nil {
		return 0
	}
	if p := a.el.Position(); p > 0 {
		return p
	}
	return a.position
}

// Duration returns the active source's duration, 0 if unknown.
func (a *Adapter) Duration() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.durationLocked()
}

func (a *Adapter) durationLocked() time.Duration {
	if a.res == nil {
		return 0
	}
	if a.duration > 0 {
		return a.duration
	}
	return a.el.Duration()
}

// Phase returns the current lifecycle phase.
func (a *Adapter) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Buffering reports whether the element is starved for data.
func (a *Adapter) Buffering() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buffering
}

// Source returns the active resource ID, or "" when nothing is loaded.
func (a *Adapter) Source() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.res == nil {
		return ""
	}
	return a.res.ID
}

// Resource returns the active resource, or nil.
func (a *Adapter) Resource() *stream.Resource {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.res
}

// Close deregisters from the element, releases the active resource and
// closes the element. It is safe to call more than once.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.unloadLocked()
	return a.el.Close()
}

// handle translates one element event. Events for any source other than the
// active resource are dropped.
func (a *Adapter) handle(ev Event) {
	a.mu.Lock()
	if a.closed || a.res == nil || ev.Source != a.res.ID {
		a.mu.Unlock()
		return
	}

	var err error
	switch ev.Type {
	case EventLoadStart:
		if a.phase == PhaseIdle {
			a.phase = PhaseLoading
		}
	case EventLoadedData:
		if a.phase == PhaseLoading {
			a.phase = PhaseReady
		}
		if ev.Duration > 0 {
			a.duration = ev.Duration
		}
	case EventDurationChange:
		a.duration = ev.Duration
	case EventTimeUpdate:
		a.position = ev.Position
	case EventWaiting:
		a.buffering = true
	case EventPlaying:
		a.phase = PhasePlaying
		a.buffering = false
	case EventPause:
		if a.phase.IsActive() {
			a.phase = PhasePaused
		}
	case EventError:
		a.phase = PhaseIdle
		a.buffering = false
		cause := ev.Err
		if cause == nil {
			cause = errors.New("media element error")
		}
		err = errmsg.New(errmsg.KindDecode, errmsg.OpStreamDecode, cause).WithTrack(a.res.TrackID)
	case EventEnded:
		a.phase = PhaseEnded
		a.buffering = false
		if d := a.durationLocked(); d > 0 {
			a.position = d
		}
	}

	u := Update{
		Source:    ev.Source,
		Event:     ev.Type,
		Phase:     a.phase,
		Buffering: a.buffering,
		Position:  a.position,
		Duration:  a.durationLocked(),
		Err:       err,
	}
	sink := a.sink
	a.mu.Unlock()

	if sink != nil {
		sink.MediaUpdated(u)
	}
}
