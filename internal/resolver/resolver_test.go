package resolver

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/lrclib"
	"github.com/llehouerou/wavestream/internal/playlist"
)

type fakeSource struct {
	calls   atomic.Int32
	gate    chan struct{}
	tracks  map[string]playlist.Track
	err     error
	started chan struct{}
}

func (f *fakeSource) Track(_ context.Context, id string) (playlist.Track, error) {
	f.calls.Add(1)
	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return playlist.Track{}, f.err
	}
	return f.tracks[id], nil
}

type fakeLyrics struct {
	result *lrclib.LyricsResult
	err    error
	calls  int
}

func (f *fakeLyrics) Lookup(context.Context, string, string, time.Duration) (*lrclib.LyricsResult, error) {
	f.calls++
	return f.result, f.err
}

func TestResolve(t *testing.T) {
	src := &fakeSource{tracks: map[string]playlist.Track{"a": {ID: "a", Title: "A"}}}
	r := New(src)

	got, err := r.Resolve(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
}

func TestResolve_EmptyID(t *testing.T) {
	r := New(&fakeSource{})
	_, err := r.Resolve(context.Background(), "  ")
	assert.ErrorIs(t, err, errmsg.ErrResolution)
}

func TestResolve_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errmsg.Kind
	}{
		{"not found kept", errmsg.New(errmsg.KindNotFound, errmsg.OpResolveTrack, errors.New("404")), errmsg.KindNotFound},
		{"network kept", errmsg.New(errmsg.KindNetwork, errmsg.OpResolveTrack, errors.New("reset")), errmsg.KindNetwork},
		{"foreign is resolution", errors.New("weird"), errmsg.KindResolution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&fakeSource{err: tt.err})
			_, err := r.Resolve(context.Background(), "a")
			assert.Equal(t, tt.want, errmsg.KindOf(err))

			var e *errmsg.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, "a", e.TrackID)
		})
	}
}

func TestResolve_MismatchedIDIsResolution(t *testing.T) {
	src := &fakeSource{tracks: map[string]playlist.Track{"a": {ID: "b"}}}
	_, err := New(src).Resolve(context.Background(), "a")
	assert.ErrorIs(t, err, errmsg.ErrResolution)
}

func TestResolve_CoalescesConcurrentCalls(t *testing.T) {
	src := &fakeSource{
		gate:    make(chan struct{}),
		started: make(chan struct{}, 1),
		tracks:  map[string]playlist.Track{"a": {ID: "a"}},
	}
	r := New(src)

	var wg sync.WaitGroup
	results := make([]error, 4)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, results[0] = r.Resolve(context.Background(), "a")
	}()
	<-src.started
	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = r.Resolve(context.Background(), "a")
		}()
	}
	// Give the followers a moment to join the in-flight call.
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	for _, err := range results {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestResolve_CallerCancelDoesNotWaitForSource(t *testing.T) {
	src := &fakeSource{gate: make(chan struct{}), tracks: map[string]playlist.Track{"a": {ID: "a"}}}
	defer close(src.gate)
	r := New(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Resolve(ctx, "a")
	assert.True(t, errmsg.IsCanceled(err))
}

func TestResolve_LyricsFallback(t *testing.T) {
	src := &fakeSource{tracks: map[string]playlist.Track{"a": {ID: "a", Artist: "Band", Title: "Song"}}}
	lyr := &fakeLyrics{result: &lrclib.LyricsResult{PlainLyrics: "words"}}

	got, err := New(src, WithLyrics(lyr)).Resolve(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "words", got.Lyrics)
}

func TestResolve_LyricsFailureIsIgnored(t *testing.T) {
	src := &fakeSource{tracks: map[string]playlist.Track{"a": {ID: "a", Artist: "Band", Title: "Song"}}}
	lyr := &fakeLyrics{err: errors.New("down")}

	got, err := New(src, WithLyrics(lyr)).Resolve(context.Background(), "a")
	require.NoError(t, err)
	assert.Empty(t, got.Lyrics)
	assert.Equal(t, 1, lyr.calls)
}

func TestResolve_BackendLyricsWin(t *testing.T) {
	src := &fakeSource{tracks: map[string]playlist.Track{"a": {ID: "a", Artist: "Band", Title: "Song", Lyrics: "own"}}}
	lyr := &fakeLyrics{result: &lrclib.LyricsResult{PlainLyrics: "other"}}

	got, err := New(src, WithLyrics(lyr)).Resolve(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "own", got.Lyrics)
	assert.Equal(t, 0, lyr.calls)
}
