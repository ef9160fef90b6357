package playback

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/media"
	"github.com/llehouerou/wavestream/internal/playlist"
)

func TestTogglePlay_NoTrackIsNoop(t *testing.T) {
	h := newHarness(t)

	h.c.TogglePlay()

	if s := h.c.Snapshot(); s.Playing || s.Error != "" {
		t.Errorf("snapshot = playing %v error %q, want untouched", s.Playing, s.Error)
	}
}

func TestTogglePlay_TwiceRestoresState(t *testing.T) {
	h := newHarness(t)
	h.play(t, "a", false)

	h.c.TogglePlay()
	if h.c.Snapshot().Playing || h.el.IsPlaying() {
		t.Fatal("first toggle should pause")
	}
	h.c.TogglePlay()
	if !h.c.Snapshot().Playing || !h.el.IsPlaying() {
		t.Fatal("second toggle should resume")
	}
}

func TestSeek_ClampsIntoTrack(t *testing.T) {
	h := newHarness(t)
	sub := h.c.Subscribe()
	h.play(t, "a", false)

	tests := []struct {
		name string
		pos  time.Duration
		want time.Duration
	}{
		{"negative", -5 * time.Second, 0},
		{"inside", 42 * time.Second, 42 * time.Second},
		{"past end", media.DefaultMockDuration + 100*time.Second, media.DefaultMockDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.c.Seek(tt.pos)
			if got := h.c.Snapshot().Position; got != tt.want {
				t.Errorf("Position = %v, want %v", got, tt.want)
			}
			if got := h.el.Position(); got != tt.want {
				t.Errorf("element position = %v, want %v", got, tt.want)
			}
		})
	}

	select {
	case e := <-sub.PositionChanged:
		if e.Position != 0 {
			t.Errorf("first PositionChange = %v, want 0", e.Position)
		}
	default:
		t.Error("no PositionChange after Seek")
	}
}

func TestSeek_WithoutSourceIsNoop(t *testing.T) {
	h := newHarness(t)

	h.c.Seek(time.Minute)

	if got := h.c.Snapshot().Position; got != 0 {
		t.Errorf("Position = %v, want 0", got)
	}
}

func TestSetVolume_ClampsAndPersists(t *testing.T) {
	h := newHarness(t)

	h.c.SetVolume(1.7)
	h.c.SetVolume(-0.2)
	h.c.SetVolume(0.3)

	got := h.prefs.SavedVolumes()
	want := []float64{1, 0, 0.3}
	if len(got) != len(want) {
		t.Fatalf("SavedVolumes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SavedVolumes()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if h.el.Volume() != 0.3 {
		t.Errorf("element volume = %v, want 0.3", h.el.Volume())
	}
}

func TestToggleMute_RoundTrip(t *testing.T) {
	h := newHarness(t)
	h.c.SetVolume(0.7)

	h.c.ToggleMute()
	if s := h.c.Snapshot(); s.Volume != 0 || !s.Muted() {
		t.Fatalf("Volume = %v after mute, want 0", s.Volume)
	}
	h.c.ToggleMute()
	if v := h.c.Snapshot().Volume; v != 0.7 {
		t.Errorf("Volume = %v after unmute, want 0.7", v)
	}
}

func TestToggleMute_FromZeroRestoresFullVolume(t *testing.T) {
	h := newHarness(t)
	h.c.SetVolume(0)

	h.c.ToggleMute()

	if v := h.c.Snapshot().Volume; v != 1 {
		t.Errorf("Volume = %v, want 1", v)
	}
}

func TestSetVolume_SaveErrorIsLogged(t *testing.T) {
	h := newHarness(t)
	h.prefs.SetSaveError(errors.New("disk full"))

	h.c.SetVolume(0.5)

	if v := h.c.Snapshot().Volume; v != 0.5 {
		t.Errorf("Volume = %v, want 0.5 despite save failure", v)
	}
}

func TestToggleModes_Persist(t *testing.T) {
	h := newHarness(t)
	sub := h.c.Subscribe()

	if !h.c.ToggleShuffle() {
		t.Error("ToggleShuffle() = false, want true")
	}
	if m := h.c.ToggleRepeat(); m != playlist.RepeatAll {
		t.Errorf("ToggleRepeat() = %v, want all", m)
	}

	if n := h.prefs.ModeSaves(); n != 2 {
		t.Errorf("ModeSaves() = %d, want 2", n)
	}
	p, _ := h.prefs.LoadPreferences()
	if !p.Shuffle || p.Repeat != int(playlist.RepeatAll) {
		t.Errorf("persisted = %+v, want shuffle and repeat all", p)
	}

	var last ModeChange
	for range 2 {
		last = <-sub.ModeChanged
	}
	if !last.Shuffle || last.Repeat != playlist.RepeatAll {
		t.Errorf("last ModeChange = %+v", last)
	}
}

func TestMediaUpdated_TracksElementEvents(t *testing.T) {
	h := newHarness(t)
	h.play(t, "a", false)

	h.el.Emit(media.Event{Type: media.EventWaiting})
	if !h.c.Snapshot().Buffering {
		t.Error("Buffering = false after waiting")
	}
	h.el.Emit(media.Event{Type: media.EventPlaying})
	if h.c.Snapshot().Buffering {
		t.Error("Buffering = true after playing")
	}
	h.el.Emit(media.Event{Type: media.EventTimeUpdate, Position: 12 * time.Second})
	if got := h.c.Snapshot().Position; got != 12*time.Second {
		t.Errorf("Position = %v, want 12s", got)
	}
	h.el.Emit(media.Event{Type: media.EventDurationChange, Duration: 4 * time.Minute})
	if got := h.c.Snapshot().Duration; got != 4*time.Minute {
		t.Errorf("Duration = %v, want 4m", got)
	}
}

func TestMediaUpdated_IgnoresStaleSource(t *testing.T) {
	h := newHarness(t)
	h.play(t, "a", false)

	h.el.Emit(media.Event{Type: media.EventTimeUpdate, Source: "previous-resource", Position: time.Minute})
	h.el.Emit(media.Event{Type: media.EventEnded, Source: "previous-resource"})

	s := h.c.Snapshot()
	if s.Position != 0 || !s.Playing {
		t.Errorf("stale events changed state: position %v playing %v", s.Position, s.Playing)
	}
}

func TestMediaUpdated_ErrorUnloads(t *testing.T) {
	h := newHarness(t)
	h.play(t, "a", false)

	h.el.Emit(media.Event{Type: media.EventError, Err: errors.New("corrupt frame")})

	s := h.c.Snapshot()
	if s.Playing || s.Phase != media.PhaseIdle {
		t.Errorf("playing %v phase %v, want idle", s.Playing, s.Phase)
	}
	if s.ErrorKind != errmsg.KindDecode {
		t.Errorf("ErrorKind = %v, want decode", s.ErrorKind)
	}
	if got := h.loader.outstanding(); got != 0 {
		t.Errorf("outstanding resources = %d, want 0", got)
	}
}

func TestSnapshot_Progress(t *testing.T) {
	tests := []struct {
		pos, dur time.Duration
		want     float64
	}{
		{0, 0, 0},
		{30 * time.Second, time.Minute, 0.5},
		{2 * time.Minute, time.Minute, 1},
	}
	for _, tt := range tests {
		if got := (Snapshot{Position: tt.pos, Duration: tt.dur}).Progress(); got != tt.want {
			t.Errorf("Progress(%v/%v) = %v, want %v", tt.pos, tt.dur, got, tt.want)
		}
	}
}

// TestRandomOperations_KeepInvariants drives the controller with a random
// sequence of requests and checks that at most one resource is ever held,
// the queue index stays in range and the volume stays in [0, 1].
func TestRandomOperations_KeepInvariants(t *testing.T) {
	h := newHarness(t)
	h.loader.fail("bad", errmsg.New(errmsg.KindNetwork, errmsg.OpStreamDownload, errBoom))
	ids := []string{"a", "b", "c", "d", "bad"}
	rng := rand.New(rand.NewPCG(7, 11)) //nolint:gosec // deterministic test sequence
	ctx := t.Context()

	for step := range 500 {
		switch rng.IntN(12) {
		case 0, 1:
			_ = h.c.PlayTrack(ctx, ids[rng.IntN(len(ids))], rng.IntN(2) == 0)
		case 2:
			_ = h.c.Next(ctx)
		case 3:
			_ = h.c.Previous(ctx)
		case 4:
			_ = h.c.JumpTo(ctx, rng.IntN(6)-1)
		case 5:
			h.c.TogglePlay()
		case 6:
			h.c.Seek(time.Duration(rng.IntN(400)-100) * time.Second)
		case 7:
			h.c.SetVolume(rng.Float64()*1.4 - 0.2)
		case 8:
			h.c.ToggleMute()
		case 9:
			h.endTrack()
		case 10:
			h.c.RemoveFromQueue(rng.IntN(4))
		case 11:
			h.c.AddToQueue(track(ids[rng.IntN(len(ids))]))
		}

		s := h.c.Snapshot()
		if n := h.loader.outstanding(); n < 0 || n > 1 {
			t.Fatalf("step %d: outstanding resources = %d", step, n)
		}
		if s.QueueLen == 0 && s.QueueIndex != -1 || s.QueueLen > 0 && (s.QueueIndex < 0 || s.QueueIndex >= s.QueueLen) {
			t.Fatalf("step %d: queue index %d out of range for length %d", step, s.QueueIndex, s.QueueLen)
		}
		if s.Volume < 0 || s.Volume > 1 {
			t.Fatalf("step %d: volume %v out of range", step, s.Volume)
		}
		if s.Loading {
			t.Fatalf("step %d: Loading left set after a synchronous request", step)
		}
	}
}
