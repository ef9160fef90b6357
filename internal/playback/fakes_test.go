package playback

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/media"
	"github.com/llehouerou/wavestream/internal/playlist"
	"github.com/llehouerou/wavestream/internal/state"
	"github.com/llehouerou/wavestream/internal/stream"
)

func track(id string) playlist.Track {
	return playlist.Track{ID: id, Title: strings.ToUpper(id), Artist: "artist", Duration: 3 * time.Minute}
}

func tracks(ids ...string) []playlist.Track {
	out := make([]playlist.Track, len(ids))
	for i, id := range ids {
		out[i] = track(id)
	}
	return out
}

// fakeResolver resolves every ID except those with a registered error.
type fakeResolver struct {
	mu    sync.Mutex
	errs  map[string]error
	gates map[string]chan struct{}
	calls int
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{errs: map[string]error{}, gates: map[string]chan struct{}{}}
}

func (r *fakeResolver) fail(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[id] = err
}

// gate blocks resolution of id until the returned channel is closed or the
// request is canceled.
func (r *fakeResolver) gate(id string) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan struct{})
	r.gates[id] = ch
	return ch
}

func (r *fakeResolver) Resolve(ctx context.Context, id string) (playlist.Track, error) {
	r.mu.Lock()
	r.calls++
	err := r.errs[id]
	gate := r.gates[id]
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return playlist.Track{}, errmsg.New(errmsg.KindCanceled, errmsg.OpResolveTrack, ctx.Err()).WithTrack(id)
		}
	}
	if err != nil {
		return playlist.Track{}, err
	}
	if id == "" {
		return playlist.Track{}, errmsg.Newf(errmsg.KindResolution, errmsg.OpResolveTrack, "empty track id")
	}
	return track(id), nil
}

// fakeLoader hands out resources and counts how many are outstanding.
// Gated loads ignore cancellation so stale completions can be observed.
type fakeLoader struct {
	mu       sync.Mutex
	errs     map[string]error
	gates    map[string]chan struct{}
	opened   int
	released int
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{errs: map[string]error{}, gates: map[string]chan struct{}{}}
}

func (l *fakeLoader) fail(id string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs[id] = err
}

func (l *fakeLoader) gate(id string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(chan struct{})
	l.gates[id] = ch
	return ch
}

func (l *fakeLoader) Load(_ context.Context, t playlist.Track) (*stream.Resource, error) {
	l.mu.Lock()
	err := l.errs[t.ID]
	gate := l.gates[t.ID]
	l.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.opened++
	l.mu.Unlock()
	res := stream.NewResource(t.ID, "/tmp/"+t.ID, 1024, "audio/mpeg", func() error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.released++
		return nil
	})
	res.ArtworkPath = "/tmp/" + t.ID + ".cover.jpg"
	return res, nil
}

func (l *fakeLoader) outstanding() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opened - l.released
}

func (l *fakeLoader) opens() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opened
}

// fakeReporter records reported tracks. With hang set it blocks until the
// report context ends.
type fakeReporter struct {
	reported chan string
	err      error
	hang     bool
}

func newFakeReporter() *fakeReporter {
	return &fakeReporter{reported: make(chan string, 32)}
}

func (r *fakeReporter) ReportPlayback(ctx context.Context, t playlist.Track) error {
	select {
	case r.reported <- t.ID:
	default:
	}
	if r.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return r.err
}

type harness struct {
	c        *Controller
	el       *media.Mock
	resolver *fakeResolver
	loader   *fakeLoader
	prefs    *state.Mock
	reporter *fakeReporter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, state.NewMock())
}

func newHarnessWith(t *testing.T, prefs *state.Mock) *harness {
	t.Helper()
	h := &harness{
		el:       media.NewMock(),
		resolver: newFakeResolver(),
		loader:   newFakeLoader(),
		prefs:    prefs,
		reporter: newFakeReporter(),
	}
	c, err := New(Options{
		Element:     h.el,
		Resolver:    h.resolver,
		Loader:      h.loader,
		Preferences: prefs,
		Recorder:    prefs,
		Reporters:   []Reporter{h.reporter},
		Logger:      zerolog.Nop(),
		Rand:        rand.New(rand.NewPCG(1, 2)), //nolint:gosec // deterministic test shuffle
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h.c = c
	t.Cleanup(func() { _ = c.Close() })
	return h
}

// play runs PlayTrack and fails the test on error.
func (h *harness) play(t *testing.T, id string, addToQueue bool) {
	t.Helper()
	if err := h.c.PlayTrack(context.Background(), id, addToQueue); err != nil {
		t.Fatalf("PlayTrack(%q) error = %v", id, err)
	}
}

// endTrack reports the end of the current track and waits for the advance
// it starts.
func (h *harness) endTrack() {
	h.el.Emit(media.Event{Type: media.EventEnded})
	h.c.advancing.Wait()
}

func (h *harness) currentID() string {
	s := h.c.Snapshot()
	if s.Track == nil {
		return ""
	}
	return s.Track.ID
}

var errBoom = errors.New("boom")
