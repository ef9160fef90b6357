package app

import (
	"time"

	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// TickMsg refreshes the snapshot once a second.
type TickMsg time.Time

// ServiceStateChangedMsg carries a new published snapshot.
type ServiceStateChangedMsg struct {
	Snapshot playback.Snapshot
}

// ServiceTrackChangedMsg is sent when a different track becomes current.
type ServiceTrackChangedMsg struct {
	Current *playlist.Track
	Index   int
}

// ServiceQueueChangedMsg carries the new queue contents.
type ServiceQueueChangedMsg struct {
	Tracks []playlist.Track
	Index  int
}

// ServiceModeChangedMsg carries the new shuffle and repeat modes.
type ServiceModeChangedMsg struct {
	Shuffle bool
	Repeat  playlist.RepeatMode
}

// ServiceSeekedMsg is sent after a seek.
type ServiceSeekedMsg struct {
	Position time.Duration
}

// ServiceErrorMsg is sent when a playback request fails.
type ServiceErrorMsg struct {
	TrackID string
	Message string
}

// ServiceClosedMsg is sent when the playback service is closed.
type ServiceClosedMsg struct{}

// RequestDoneMsg is sent when a blocking playback request returns.
type RequestDoneMsg struct {
	Op  string
	Err error
}
