package playback

import (
	"time"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/media"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// Snapshot is the externally observable player state.
type Snapshot struct {
	Track     *playlist.Track
	Playing   bool
	Position  time.Duration
	Duration  time.Duration
	Volume    float64
	Shuffle   bool
	Repeat    playlist.RepeatMode
	Loading   bool
	Buffering bool
	// Error is the user-facing message of the last failed request, if any.
	Error     string
	ErrorKind errmsg.Kind
	Phase     media.Phase
	// ArtworkPath is a local copy of the picture embedded in the loaded
	// audio, if any. It disappears once the track is unloaded.
	ArtworkPath string

	QueueIndex int
	QueueLen   int
}

// HasTrack reports whether a track is current.
func (s Snapshot) HasTrack() bool {
	return s.Track != nil
}

// Progress returns the position as a fraction of the duration in [0, 1].
func (s Snapshot) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := float64(s.Position) / float64(s.Duration)
	return min(max(p, 0), 1)
}

// Muted reports whether the volume is zero.
func (s Snapshot) Muted() bool {
	return s.Volume == 0
}
