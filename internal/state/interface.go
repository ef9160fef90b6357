// internal/state/interface.go
package state

import "github.com/llehouerou/wavestream/internal/playlist"

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	LoadPreferences() (Preferences, error)
	SaveVolume(volume float64) error
	SaveModes(shuffle bool, repeat int) error
	RecordPlay(t playlist.Track) error
	RecentlyPlayed(limit int) ([]RecentTrack, error)
	SaveQueue(state QueueState) error
	GetQueue() (*QueueState, error)
	ScheduleQueueSave(state QueueState)
	Close() error
}
