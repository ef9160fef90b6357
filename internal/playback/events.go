package playback

import (
	"time"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// StateChange is emitted whenever the published snapshot changes.
type StateChange struct {
	Snapshot Snapshot
}

// TrackChange is emitted when a different track becomes current.
//
// Emitted when a load commits (PlayTrack, Next, Previous, JumpTo and the
// end-of-track advance) and when a failed load leaves the engine idle on
// the failed track. Restarting the current track does not emit it.
//
// The app handles track-related side effects (notifications, artwork,
// lyrics display) in response to this event.
type TrackChange struct {
	Previous *playlist.Track
	Current  *playlist.Track
	Index    int
	// ArtworkPath is the embedded picture of Current, see Snapshot.
	ArtworkPath string
}

// QueueChange is emitted when the queue contents or position change.
type QueueChange struct {
	Tracks []playlist.Track
	Index  int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	Repeat  playlist.RepeatMode
	Shuffle bool
}

// PositionChange is emitted when a seek occurs.
type PositionChange struct {
	Position time.Duration
}

// ErrorEvent is emitted when a load or playback request fails.
type ErrorEvent struct {
	TrackID string
	Kind    errmsg.Kind
	Message string
	Err     error
}
