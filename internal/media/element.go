// Package media adapts a platform audio element to the playback engine.
//
// An Element plays one stream.Resource at a time and reports its lifecycle
// through events. The Adapter owns the element and the active resource,
// turns element events into state updates and drops events that belong to
// a resource that is no longer active.
package media

import (
	"time"

	"github.com/llehouerou/wavestream/internal/stream"
)

// Element is a single audio playback primitive.
//
// Implementations must never deliver events synchronously from inside one of
// their own methods: the caller may hold locks that event handlers need.
type Element interface {
	// Load replaces the current source with res. Events for res carry res.ID
	// as their Source. A non-nil error means the payload was rejected.
	Load(res *stream.Resource) error
	// Play starts or resumes playback. A non-nil error means the platform
	// refused to start.
	Play() error
	Pause()
	Seek(pos time.Duration) error
	// Stop halts playback and drops the current source.
	Stop()
	// SetVolume takes a linear level in [0, 1].
	SetVolume(level float64)
	Position() time.Duration
	Duration() time.Duration
	// Subscribe registers fn for lifecycle events and returns a function that
	// removes it.
	Subscribe(fn func(Event)) (unsubscribe func())
	// Close stops playback and releases the element itself.
	Close() error
}

// EventType names an element lifecycle event.
type EventType int

const (
	EventLoadStart EventType = iota
	EventLoadedData
	EventTimeUpdate
	EventDurationChange
	EventWaiting
	EventPlaying
	EventPause
	EventError
	EventEnded
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventLoadStart:
		return "loadstart"
	case EventLoadedData:
		return "loadeddata"
	case EventTimeUpdate:
		return "timeupdate"
	case EventDurationChange:
		return "durationchange"
	case EventWaiting:
		return "waiting"
	case EventPlaying:
		return "playing"
	case EventPause:
		return "pause"
	case EventError:
		return "error"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is a lifecycle notification from an Element.
type Event struct {
	Type EventType
	// Source is the ID of the resource the event belongs to.
	Source   string
	Position time.Duration
	Duration time.Duration
	Err      error
}
