package playback

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/media"
	"github.com/llehouerou/wavestream/internal/state"
)

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("New() with no element should fail")
	}
}

func TestPlayTrack_LoadsAndPlays(t *testing.T) {
	h := newHarness(t)

	h.play(t, "a", false)

	s := h.c.Snapshot()
	if s.Track == nil || s.Track.ID != "a" {
		t.Fatalf("Track = %v, want a", s.Track)
	}
	if !s.Playing {
		t.Error("Playing = false, want true")
	}
	if s.Loading {
		t.Error("Loading = true after load settled")
	}
	if s.Error != "" {
		t.Errorf("Error = %q, want empty", s.Error)
	}
	if s.Duration != media.DefaultMockDuration {
		t.Errorf("Duration = %v, want %v", s.Duration, media.DefaultMockDuration)
	}
	if !h.el.IsPlaying() {
		t.Error("element not playing")
	}
	if got := h.loader.outstanding(); got != 1 {
		t.Errorf("outstanding resources = %d, want 1", got)
	}

	recent, _ := h.prefs.RecentlyPlayed(0)
	if len(recent) != 1 || recent[0].TrackID != "a" {
		t.Errorf("recently played = %v, want [a]", recent)
	}
	if id := <-h.reporter.reported; id != "a" {
		t.Errorf("reported %q, want a", id)
	}
}

func TestPlayTrack_SameTrackToggles(t *testing.T) {
	h := newHarness(t)
	h.play(t, "a", false)

	h.play(t, "a", false)
	if h.c.Snapshot().Playing {
		t.Error("second PlayTrack of the loaded track should pause")
	}
	h.play(t, "a", false)
	if !h.c.Snapshot().Playing {
		t.Error("third PlayTrack of the loaded track should resume")
	}

	if got := h.loader.opens(); got != 1 {
		t.Errorf("stream opened %d times, want 1", got)
	}
	recent, _ := h.prefs.RecentlyPlayed(0)
	if len(recent) != 1 {
		t.Errorf("recorded %d plays, want 1", len(recent))
	}
}

func TestPlayTrack_AddToQueue(t *testing.T) {
	h := newHarness(t)

	h.play(t, "a", true)
	h.play(t, "b", true)

	q := h.c.Queue()
	if len(q) != 2 || q[0].ID != "a" || q[1].ID != "b" {
		t.Fatalf("Queue() = %v, want [a b]", q)
	}
	if idx := h.c.Snapshot().QueueIndex; idx != 1 {
		t.Errorf("QueueIndex = %d, want 1", idx)
	}
	hist := h.c.History()
	if len(hist) != 1 || hist[0].ID != "a" {
		t.Errorf("History() = %v, want [a]", hist)
	}
}

func TestPlayTrack_WithoutQueueLeavesQueueAlone(t *testing.T) {
	h := newHarness(t)
	h.c.RestoreQueue(tracks("x", "y"), 1)

	h.play(t, "a", false)

	if got := h.c.Snapshot(); got.QueueIndex != 1 || got.QueueLen != 2 {
		t.Errorf("queue = index %d len %d, want 1/2", got.QueueIndex, got.QueueLen)
	}
	if len(h.c.History()) != 0 {
		t.Error("history should be untouched")
	}
}

func TestPlayTrack_SupersededLoadReleasesResource(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t)
		gate := h.loader.gate("a")

		errA := make(chan error, 1)
		go func() { errA <- h.c.PlayTrack(context.Background(), "a", false) }()
		synctest.Wait()

		if !h.c.Snapshot().Loading {
			t.Error("Loading = false while a load is in flight")
		}

		h.play(t, "b", false)
		close(gate)

		if err := <-errA; !errmsg.IsCanceled(err) {
			t.Errorf("superseded PlayTrack error = %v, want canceled", err)
		}
		if got := h.currentID(); got != "b" {
			t.Errorf("current = %q, want b", got)
		}
		if got := h.loader.outstanding(); got != 1 {
			t.Errorf("outstanding resources = %d, want 1", got)
		}
		s := h.c.Snapshot()
		if s.Loading || s.Error != "" {
			t.Errorf("snapshot = loading %v error %q, want settled without error", s.Loading, s.Error)
		}
	})
}

func TestPlayTrack_SupersededResolutionIsCanceled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t)
		gate := h.resolver.gate("a")
		defer close(gate)

		errA := make(chan error, 1)
		go func() { errA <- h.c.PlayTrack(context.Background(), "a", false) }()
		synctest.Wait()

		h.play(t, "b", false)

		if err := <-errA; !errmsg.IsCanceled(err) {
			t.Errorf("superseded PlayTrack error = %v, want canceled", err)
		}
		if h.loader.opens() != 1 {
			t.Errorf("stream opened %d times, want 1", h.loader.opens())
		}
		if got := h.currentID(); got != "b" {
			t.Errorf("current = %q, want b", got)
		}
	})
}

func TestPlayTrack_ResolutionFailureKeepsCurrentPlayback(t *testing.T) {
	h := newHarness(t)
	h.play(t, "a", false)
	h.resolver.fail("gone", errmsg.New(errmsg.KindNotFound, errmsg.OpResolveTrack, errBoom).WithTrack("gone"))

	err := h.c.PlayTrack(context.Background(), "gone", false)
	if errmsg.KindOf(err) != errmsg.KindNotFound {
		t.Fatalf("error kind = %v, want not found", errmsg.KindOf(err))
	}

	s := h.c.Snapshot()
	if s.ErrorKind != errmsg.KindNotFound || s.Error == "" {
		t.Errorf("snapshot error = %v %q, want not found message", s.ErrorKind, s.Error)
	}
	if s.Track == nil || s.Track.ID != "a" || !s.Playing {
		t.Errorf("current playback disturbed: track %v playing %v", s.Track, s.Playing)
	}
	if s.Loading {
		t.Error("Loading = true after failure")
	}
}

func TestPlayTrack_EmptyIDIsResolutionError(t *testing.T) {
	h := newHarness(t)

	err := h.c.PlayTrack(context.Background(), "", false)
	if errmsg.KindOf(err) != errmsg.KindResolution {
		t.Errorf("error kind = %v, want resolution", errmsg.KindOf(err))
	}
	if h.loader.opens() != 0 {
		t.Error("no stream should be opened")
	}
}

func TestPlayTrack_StreamFailureGoesIdle(t *testing.T) {
	h := newHarness(t)
	h.play(t, "a", false)
	h.loader.fail("b", errmsg.New(errmsg.KindNetwork, errmsg.OpStreamDownload, errBoom).WithTrack("b"))

	err := h.c.PlayTrack(context.Background(), "b", false)
	if errmsg.KindOf(err) != errmsg.KindNetwork {
		t.Fatalf("error kind = %v, want network", errmsg.KindOf(err))
	}

	s := h.c.Snapshot()
	if s.Track == nil || s.Track.ID != "b" {
		t.Errorf("Track = %v, want the failed track b", s.Track)
	}
	if s.Playing || s.Phase != media.PhaseIdle {
		t.Errorf("playing %v phase %v, want stopped idle", s.Playing, s.Phase)
	}
	if got := h.loader.outstanding(); got != 0 {
		t.Errorf("outstanding resources = %d, want 0", got)
	}
	if s.ErrorKind != errmsg.KindNetwork {
		t.Errorf("ErrorKind = %v, want network", s.ErrorKind)
	}
}

func TestPlayTrack_DecodeFailure(t *testing.T) {
	h := newHarness(t)
	h.el.SetLoadError(errors.New("bad header"))

	err := h.c.PlayTrack(context.Background(), "a", false)
	if errmsg.KindOf(err) != errmsg.KindDecode {
		t.Fatalf("error kind = %v, want decode", errmsg.KindOf(err))
	}
	if got := h.loader.outstanding(); got != 0 {
		t.Errorf("outstanding resources = %d, want 0", got)
	}
	if s := h.c.Snapshot(); s.Playing || s.Loading {
		t.Errorf("snapshot = playing %v loading %v, want neither", s.Playing, s.Loading)
	}
}

func TestPlayTrack_PlaybackRejectedIsRecoverable(t *testing.T) {
	h := newHarness(t)
	h.el.SetPlayError(errors.New("not allowed"))

	err := h.c.PlayTrack(context.Background(), "a", false)
	if errmsg.KindOf(err) != errmsg.KindPlaybackRejected {
		t.Fatalf("error kind = %v, want playback rejected", errmsg.KindOf(err))
	}
	s := h.c.Snapshot()
	if s.Playing || s.ErrorKind != errmsg.KindPlaybackRejected {
		t.Errorf("snapshot = playing %v kind %v", s.Playing, s.ErrorKind)
	}
	if got := h.loader.outstanding(); got != 1 {
		t.Errorf("rejected playback should keep the source loaded, outstanding = %d", got)
	}

	h.el.SetPlayError(nil)
	h.c.TogglePlay()

	s = h.c.Snapshot()
	if !s.Playing || s.Error != "" {
		t.Errorf("after retry: playing %v error %q", s.Playing, s.Error)
	}
}

func TestPlayTrack_CallerCancellationIsSilent(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.resolver.gate("a")

	err := h.c.PlayTrack(ctx, "a", false)
	if !errmsg.IsCanceled(err) {
		t.Fatalf("error = %v, want canceled", err)
	}
	if s := h.c.Snapshot(); s.Error != "" || s.Loading {
		t.Errorf("snapshot = error %q loading %v, want clean", s.Error, s.Loading)
	}
}

func TestPlayTrack_AfterCloseFails(t *testing.T) {
	h := newHarness(t)
	_ = h.c.Close()

	if err := h.c.PlayTrack(context.Background(), "a", false); !errors.Is(err, media.ErrClosed) {
		t.Errorf("error = %v, want ErrClosed", err)
	}
}

func TestClose_ReleasesEverything(t *testing.T) {
	h := newHarness(t)
	sub := h.c.Subscribe()
	h.play(t, "a", false)

	if err := h.c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := h.loader.outstanding(); got != 0 {
		t.Errorf("outstanding resources = %d, want 0", got)
	}
	if !h.el.Closed() {
		t.Error("element not closed")
	}
	select {
	case <-sub.Done:
	default:
		t.Error("subscription not closed")
	}
	if err := h.c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestSubscribe_AfterCloseIsDone(t *testing.T) {
	h := newHarness(t)
	_ = h.c.Close()

	sub := h.c.Subscribe()
	select {
	case <-sub.Done:
	default:
		t.Error("subscription after Close should already be done")
	}
}

func TestSubscribe_TrackAndErrorEvents(t *testing.T) {
	h := newHarness(t)
	sub := h.c.Subscribe()

	h.play(t, "a", false)
	select {
	case e := <-sub.TrackChanged:
		if e.Current == nil || e.Current.ID != "a" || e.Previous != nil {
			t.Errorf("TrackChange = %+v, want nil -> a", e)
		}
	default:
		t.Fatal("no TrackChange after PlayTrack")
	}

	h.loader.fail("b", errmsg.New(errmsg.KindAuth, errmsg.OpStreamDescriptor, errBoom).WithTrack("b"))
	_ = h.c.PlayTrack(context.Background(), "b", false)
	select {
	case e := <-sub.Error:
		if e.Kind != errmsg.KindAuth || e.TrackID != "b" || e.Message == "" {
			t.Errorf("ErrorEvent = %+v, want auth error on b", e)
		}
	default:
		t.Fatal("no ErrorEvent after failed load")
	}
}

func TestPublish_SkipsIdenticalSnapshots(t *testing.T) {
	h := newHarness(t)
	sub := h.c.Subscribe()

	h.c.SetVolume(0.5)
	h.c.SetVolume(0.5)

	count := 0
	for {
		select {
		case <-sub.StateChanged:
			count++
			continue
		default:
		}
		break
	}
	if count != 1 {
		t.Errorf("received %d state changes, want 1", count)
	}
}

func TestNew_RestoresPreferences(t *testing.T) {
	prefs := state.NewMock()
	prefs.SetPreferences(state.Preferences{Volume: 0.4, Shuffle: true, Repeat: 2})

	h := newHarnessWith(t, prefs)

	s := h.c.Snapshot()
	if s.Volume != 0.4 || !s.Shuffle || s.Repeat != 2 {
		t.Errorf("snapshot = volume %v shuffle %v repeat %v, want 0.4/true/one", s.Volume, s.Shuffle, s.Repeat)
	}
	if h.el.Volume() != 0.4 {
		t.Errorf("element volume = %v, want 0.4", h.el.Volume())
	}
}

func TestNew_PreferencesErrorUsesDefaults(t *testing.T) {
	prefs := state.NewMock()
	prefs.SetPreferencesError(errBoom)

	h := newHarnessWith(t, prefs)

	if s := h.c.Snapshot(); s.Volume != 1 || s.Shuffle {
		t.Errorf("snapshot = volume %v shuffle %v, want defaults", s.Volume, s.Shuffle)
	}
}

func TestPlayTrack_ReporterFailureIsNotSurfaced(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t)
		h.reporter.err = errmsg.New(errmsg.KindNetwork, errmsg.OpReportPlayback, errBoom)

		h.play(t, "a", false)
		if id := <-h.reporter.reported; id != "a" {
			t.Errorf("reported %q, want a", id)
		}
		synctest.Wait()

		s := h.c.Snapshot()
		if !s.Playing || s.Loading {
			t.Errorf("playing %v loading %v, want playing and settled", s.Playing, s.Loading)
		}
		if s.Error != "" || s.ErrorKind != errmsg.KindUnknown {
			t.Errorf("Error = %q (%v), want none", s.Error, s.ErrorKind)
		}
	})
}

func TestPlayTrack_HungReporterTimesOut(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t)
		h.reporter.hang = true
		sub := h.c.Subscribe()

		h.play(t, "a", false)
		<-h.reporter.reported

		time.Sleep(DefaultReportTimeout + time.Second)
		synctest.Wait()

		s := h.c.Snapshot()
		if !s.Playing || s.Loading || s.Error != "" {
			t.Errorf("playing %v loading %v error %q, want playing without error", s.Playing, s.Loading, s.Error)
		}
		select {
		case e := <-sub.Error:
			t.Errorf("unexpected error event %+v", e)
		default:
		}
	})
}

func TestPlayTrack_ExposesEmbeddedArtwork(t *testing.T) {
	h := newHarness(t)
	sub := h.c.Subscribe()

	h.play(t, "a", false)

	if got := h.c.Snapshot().ArtworkPath; got != "/tmp/a.cover.jpg" {
		t.Errorf("ArtworkPath = %q, want /tmp/a.cover.jpg", got)
	}
	if e := <-sub.TrackChanged; e.ArtworkPath != "/tmp/a.cover.jpg" {
		t.Errorf("TrackChange.ArtworkPath = %q, want /tmp/a.cover.jpg", e.ArtworkPath)
	}

	h.el.Emit(media.Event{Type: media.EventError, Err: errors.New("corrupt frame")})
	if got := h.c.Snapshot().ArtworkPath; got != "" {
		t.Errorf("ArtworkPath after unload = %q, want empty", got)
	}
}
