package mpris

import (
	"context"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/playlist"
)

type fakePlayer struct {
	snap    playback.Snapshot
	toggles int
	seeks   []time.Duration
	next    int
	prev    int
}

func (f *fakePlayer) Snapshot() playback.Snapshot { return f.snap }

func (f *fakePlayer) TogglePlay() {
	f.toggles++
	f.snap.Playing = !f.snap.Playing
}

func (f *fakePlayer) Seek(pos time.Duration) {
	f.seeks = append(f.seeks, pos)
	f.snap.Position = pos
}

func (f *fakePlayer) SetVolume(level float64) { f.snap.Volume = level }

func (f *fakePlayer) Next(context.Context) error {
	f.next++
	return nil
}

func (f *fakePlayer) Previous(context.Context) error {
	f.prev++
	return nil
}

func (f *fakePlayer) ToggleShuffle() bool {
	f.snap.Shuffle = !f.snap.Shuffle
	return f.snap.Shuffle
}

func (f *fakePlayer) ToggleRepeat() playlist.RepeatMode {
	f.snap.Repeat = f.snap.Repeat.Next()
	return f.snap.Repeat
}

func newTestAdapter(snap playback.Snapshot) (*playerAdapter, *fakePlayer) {
	f := &fakePlayer{snap: snap}
	p := newPlayerAdapter(f)
	p.async = func(fn func()) { fn() }
	return p, f
}

func loaded() playback.Snapshot {
	return playback.Snapshot{
		Track:    &playlist.Track{ID: "42", Title: "Song", Artist: "Artist", Album: "Album", ArtworkURL: "https://img/1.jpg"},
		Duration: 3 * time.Minute,
		Position: 10 * time.Second,
		Volume:   0.8,
		QueueLen: 2,
	}
}

func TestPlaybackStatus(t *testing.T) {
	assert.Equal(t, types.PlaybackStatusStopped, playbackStatus(playback.Snapshot{}))

	s := loaded()
	assert.Equal(t, types.PlaybackStatusPaused, playbackStatus(s))
	s.Playing = true
	assert.Equal(t, types.PlaybackStatusPlaying, playbackStatus(s))
}

func TestLoopStatusRoundTrip(t *testing.T) {
	for _, m := range []playlist.RepeatMode{playlist.RepeatOff, playlist.RepeatAll, playlist.RepeatOne} {
		got, ok := repeatMode(loopStatus(m))
		assert.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok := repeatMode(types.LoopStatus("bogus"))
	assert.False(t, ok)
}

func TestMetadata(t *testing.T) {
	meta := metadata(loaded())

	assert.Equal(t, dbus.ObjectPath(formatTrackID("42")), meta.TrackId)
	assert.Equal(t, "Song", meta.Title)
	assert.Equal(t, []string{"Artist"}, meta.Artist)
	assert.Equal(t, types.Microseconds((3 * time.Minute).Microseconds()), meta.Length)
	assert.Equal(t, "https://img/1.jpg", meta.ArtUrl)

	empty := metadata(playback.Snapshot{})
	assert.Equal(t, dbus.ObjectPath(noTrack), empty.TrackId)
}

func TestArtURL_RejectsOpaqueValues(t *testing.T) {
	assert.Equal(t, "", artURL("s3://bucket/cover.jpg", ""))
	assert.Equal(t, "", artURL("cover.jpg", ""))
	assert.Equal(t, "file:///tmp/a.png", artURL("file:///tmp/a.png", ""))
}

func TestMetadata_EmbeddedArtwork(t *testing.T) {
	s := loaded()
	s.ArtworkPath = "/cache/stream-1.cover.jpg"

	assert.Equal(t, "https://img/1.jpg", metadata(s).ArtUrl, "a fetchable URL wins")

	s.Track.ArtworkURL = ""
	assert.Equal(t, "file:///cache/stream-1.cover.jpg", metadata(s).ArtUrl)

	s.Track.ArtworkURL = "s3://bucket/cover.jpg"
	assert.Equal(t, "file:///cache/stream-1.cover.jpg", metadata(s).ArtUrl)
}

func TestFormatTrackID_Stable(t *testing.T) {
	assert.Equal(t, formatTrackID("abc"), formatTrackID("abc"))
	assert.NotEqual(t, formatTrackID("abc"), formatTrackID("abd"))
}

func TestPlayPauseStop(t *testing.T) {
	p, f := newTestAdapter(loaded())

	assert.NoError(t, p.Pause())
	assert.Equal(t, 0, f.toggles, "Pause while paused is a no-op")

	assert.NoError(t, p.Play())
	assert.True(t, f.snap.Playing)
	assert.NoError(t, p.Play())
	assert.Equal(t, 1, f.toggles, "Play while playing is a no-op")

	assert.NoError(t, p.Stop())
	assert.False(t, f.snap.Playing)
	assert.Equal(t, time.Duration(0), f.snap.Position)
}

func TestSeekIsRelative(t *testing.T) {
	p, f := newTestAdapter(loaded())

	assert.NoError(t, p.Seek(types.Microseconds(5_000_000)))
	assert.Equal(t, []time.Duration{15 * time.Second}, f.seeks)
}

func TestSetPosition_IgnoresOtherTrack(t *testing.T) {
	p, f := newTestAdapter(loaded())

	assert.NoError(t, p.SetPosition(formatTrackID("other"), 1_000_000))
	assert.Empty(t, f.seeks)

	assert.NoError(t, p.SetPosition(formatTrackID("42"), 1_000_000))
	assert.Equal(t, []time.Duration{time.Second}, f.seeks)
}

func TestNavigation(t *testing.T) {
	p, f := newTestAdapter(loaded())

	assert.NoError(t, p.Next())
	assert.NoError(t, p.Previous())
	assert.Equal(t, 1, f.next)
	assert.Equal(t, 1, f.prev)
}

func TestSetLoopStatusAndShuffle(t *testing.T) {
	p, f := newTestAdapter(loaded())

	assert.NoError(t, p.SetLoopStatus(types.LoopStatusTrack))
	assert.Equal(t, playlist.RepeatOne, f.snap.Repeat)
	assert.NoError(t, p.SetLoopStatus(types.LoopStatusNone))
	assert.Equal(t, playlist.RepeatOff, f.snap.Repeat)

	assert.NoError(t, p.SetShuffle(true))
	assert.NoError(t, p.SetShuffle(true))
	assert.True(t, f.snap.Shuffle)
}

func TestVolume(t *testing.T) {
	p, f := newTestAdapter(loaded())

	v, err := p.Volume()
	assert.NoError(t, err)
	assert.InDelta(t, 0.8, v, 1e-9)

	assert.NoError(t, p.SetVolume(0.25))
	assert.InDelta(t, 0.25, f.snap.Volume, 1e-9)
}
