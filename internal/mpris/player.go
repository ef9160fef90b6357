package mpris

import (
	"context"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// Player is the playback surface driven over MPRIS.
type Player interface {
	Snapshot() playback.Snapshot
	TogglePlay()
	Seek(pos time.Duration)
	SetVolume(level float64)
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	ToggleShuffle() bool
	ToggleRepeat() playlist.RepeatMode
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // The app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "wavestream", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and the loop
// and shuffle extensions.
type playerAdapter struct {
	player Player
	// async runs loads triggered over D-Bus off the bus goroutine.
	async func(func())
}

func newPlayerAdapter(p Player) *playerAdapter {
	return &playerAdapter{player: p, async: func(fn func()) { go fn() }}
}

func (p *playerAdapter) Next() error {
	p.async(func() { _ = p.player.Next(context.Background()) })
	return nil
}

func (p *playerAdapter) Previous() error {
	p.async(func() { _ = p.player.Previous(context.Background()) })
	return nil
}

func (p *playerAdapter) Pause() error {
	if p.player.Snapshot().Playing {
		p.player.TogglePlay()
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.player.TogglePlay()
	return nil
}

func (p *playerAdapter) Stop() error {
	if err := p.Pause(); err != nil {
		return err
	}
	p.player.Seek(0)
	return nil
}

func (p *playerAdapter) Play() error {
	if !p.player.Snapshot().Playing {
		p.player.TogglePlay()
	}
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	pos := p.player.Snapshot().Position + time.Duration(offset)*time.Microsecond
	p.player.Seek(pos)
	return nil
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	s := p.player.Snapshot()
	if s.Track == nil || formatTrackID(s.Track.ID) != trackID {
		return nil // Stale request for another track
	}
	p.player.Seek(time.Duration(position) * time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.player.Snapshot()), nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadata(p.player.Snapshot()), nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.player.Snapshot().Volume, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	p.player.SetVolume(v)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.player.Snapshot().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.player.Snapshot().QueueLen > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	s := p.player.Snapshot()
	return s.QueueLen > 0 || s.Track != nil, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.player.Snapshot().Track != nil, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.player.Snapshot().Track != nil, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.player.Snapshot().Duration > 0, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	return loopStatus(p.player.Snapshot().Repeat), nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
// The controller only cycles modes, so this steps until the target is set.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	want, ok := repeatMode(status)
	if !ok {
		return nil
	}
	for range 3 {
		if p.player.Snapshot().Repeat == want {
			return nil
		}
		p.player.ToggleRepeat()
	}
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.player.Snapshot().Shuffle, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	if p.player.Snapshot().Shuffle != shuffle {
		p.player.ToggleShuffle()
	}
	return nil
}
