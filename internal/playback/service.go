package playback

import (
	"context"
	"time"

	"github.com/llehouerou/wavestream/internal/playlist"
	"github.com/llehouerou/wavestream/internal/state"
	"github.com/llehouerou/wavestream/internal/stream"
)

// Service defines the playback controller contract.
type Service interface {
	// Loading and transport
	PlayTrack(ctx context.Context, id string, addToQueue bool) error
	TogglePlay()
	Seek(pos time.Duration)
	SetVolume(level float64)
	ToggleMute()

	// Navigation
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	JumpTo(ctx context.Context, index int) error

	// Modes
	ToggleShuffle() bool
	ToggleRepeat() playlist.RepeatMode

	// Queue manipulation
	AddToQueue(tracks ...playlist.Track)
	RemoveFromQueue(index int) bool
	MoveInQueue(from, to int) bool
	ClearQueue()
	RestoreQueue(tracks []playlist.Track, index int)

	// Queries
	Snapshot() Snapshot
	Queue() []playlist.Track
	History() []playlist.Track

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}

// TrackResolver turns a track identifier into fresh metadata.
type TrackResolver interface {
	Resolve(ctx context.Context, id string) (playlist.Track, error)
}

// StreamLoader opens the audio of a resolved track.
type StreamLoader interface {
	Load(ctx context.Context, track playlist.Track) (*stream.Resource, error)
}

// Preferences persists the user's volume and modes.
type Preferences interface {
	LoadPreferences() (state.Preferences, error)
	SaveVolume(volume float64) error
	SaveModes(shuffle bool, repeat int) error
}

// Recorder is told each time a new track starts playing.
type Recorder interface {
	RecordPlay(t playlist.Track) error
}

// Reporter forwards playback starts to an external service. Failures are
// logged and never affect playback.
type Reporter interface {
	ReportPlayback(ctx context.Context, t playlist.Track) error
}

// Verify Controller implements Service at compile time.
var _ Service = (*Controller)(nil)
