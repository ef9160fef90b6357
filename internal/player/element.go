// Package player implements media.Element on top of gopxl/beep.
package player

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavestream/internal/media"
	"github.com/llehouerou/wavestream/internal/stream"
)

// ErrNoSource is returned by Play when nothing is loaded.
var ErrNoSource = errors.New("no source loaded")

const (
	eventBufferSize     = 64
	defaultTickInterval = 250 * time.Millisecond
)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// initSpeaker initializes the shared speaker with the first format it sees.
// Later sources with a different rate are resampled.
func initSpeaker(rate beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return err
	}
	speakerSampleRate = rate
	speakerInitialized = true
	return nil
}

// Element plays one resource at a time through the system speaker.
// Events are delivered from a dedicated goroutine in the order they occur.
type Element struct {
	mu sync.Mutex

	state    State
	source   *stream.Resource
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	codec    codec
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	level    float64
	ended    bool

	subs   map[int]func(media.Event)
	nextID int

	events    chan media.Event
	done      chan struct{}
	closeOnce sync.Once
	log       zerolog.Logger
}

// Verify Element implements media.Element at compile time.
var _ media.Element = (*Element)(nil)

// New creates an element and starts its event goroutines.
func New(log zerolog.Logger) *Element {
	e := &Element{
		state:  Stopped,
		level:  1,
		subs:   make(map[int]func(media.Event)),
		events: make(chan media.Event, eventBufferSize),
		done:   make(chan struct{}),
		log:    log,
	}
	go e.dispatch()
	go e.tick(defaultTickInterval)
	return e
}

// Load implements media.Element. The source starts paused.
func (e *Element) Load(res *stream.Resource) error {
	e.mu.Lock()
	e.stopLocked()

	f, streamer, format, c, err := decodeFile(res.Path, res.MIME)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("decode %s: %w", res.MIME, err)
	}

	if err := initSpeaker(format.SampleRate); err != nil {
		streamer.Close()
		f.Close()
		e.mu.Unlock()
		return fmt.Errorf("init speaker: %w", err)
	}

	// Resample if the track's sample rate differs from the speaker's
	var playStreamer beep.Streamer = streamer
	if format.SampleRate != speakerSampleRate {
		playStreamer = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}

	e.source = res
	e.file = f
	e.streamer = streamer
	e.format = format
	e.codec = c
	e.ctrl = &beep.Ctrl{Streamer: playStreamer, Paused: true}
	e.volume = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   levelToVolume(e.level),
		Silent:   e.level <= 0,
	}
	e.state = Paused

	id := res.ID
	duration := format.SampleRate.D(streamer.Len())
	e.startLocked()
	e.mu.Unlock()

	e.log.Debug().
		Str("resource", id).
		Str("codec", c.String()).
		Int("sample_rate", int(format.SampleRate)).
		Dur("duration", duration).
		Msg("source loaded")

	e.emit(media.Event{Type: media.EventLoadStart, Source: id})
	e.emit(media.Event{Type: media.EventDurationChange, Source: id, Duration: duration})
	e.emit(media.Event{Type: media.EventLoadedData, Source: id, Duration: duration})
	return nil
}

// Play implements media.Element.
func (e *Element) Play() error {
	e.mu.Lock()
	if e.ctrl == nil {
		e.mu.Unlock()
		return ErrNoSource
	}
	if e.ended {
		// The speaker dropped the drained sequence; queue it again.
		e.startLocked()
	}
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
	e.state = Playing
	id := e.source.ID
	e.mu.Unlock()

	e.emit(media.Event{Type: media.EventPlaying, Source: id})
	return nil
}

// startLocked hands the current source to the speaker.
func (e *Element) startLocked() {
	id := e.source.ID
	e.ended = false
	speaker.Play(beep.Seq(e.volume, beep.Callback(func() {
		// Runs inside the speaker goroutine with its lock held.
		go e.finished(id)
	})))
}

// Pause implements media.Element.
func (e *Element) Pause() {
	e.mu.Lock()
	if e.state != Playing || e.ctrl == nil {
		e.mu.Unlock()
		return
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	e.state = Paused
	id := e.source.ID
	e.mu.Unlock()

	e.emit(media.Event{Type: media.EventPause, Source: id})
}

// Seek implements media.Element.
func (e *Element) Seek(pos time.Duration) error {
	e.mu.Lock()
	if e.streamer == nil {
		e.mu.Unlock()
		return ErrNoSource
	}
	n := e.format.SampleRate.N(pos)
	n = min(max(n, 0), max(e.streamer.Len()-1, 0))

	speaker.Lock()
	err := e.streamer.Seek(n)
	speaker.Unlock()
	id := e.source.ID
	actual := e.format.SampleRate.D(n)
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.emit(media.Event{Type: media.EventTimeUpdate, Source: id, Position: actual})
	return nil
}

// Stop implements media.Element.
func (e *Element) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Element) stopLocked() {
	if !e.state.loaded() {
		return
	}

	speakerMu.Lock()
	if speakerInitialized {
		speaker.Clear()
	}
	speakerMu.Unlock()

	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	if e.file != nil {
		e.file.Close()
		e.file = nil
	}
	e.ctrl = nil
	e.volume = nil
	e.source = nil
	e.ended = false
	e.state = Stopped
}

// Position implements media.Element.
func (e *Element) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

func (e *Element) positionLocked() time.Duration {
	if e.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := e.format.SampleRate.D(e.streamer.Position())
	speaker.Unlock()
	return pos
}

// Duration implements media.Element.
func (e *Element) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return 0
	}
	return e.format.SampleRate.D(e.streamer.Len())
}

// State returns the transport state.
func (e *Element) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe implements media.Element.
func (e *Element) Subscribe(fn func(media.Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// Close implements media.Element. Pending events are dropped.
func (e *Element) Close() error {
	e.closeOnce.Do(func() {
		e.Stop()
		close(e.done)
	})
	return nil
}

// finished is called when the speaker drained the source identified by id.
func (e *Element) finished(id string) {
	e.mu.Lock()
	if e.source == nil || e.source.ID != id {
		e.mu.Unlock()
		return
	}
	e.state = Paused
	e.ended = true
	e.mu.Unlock()

	e.emit(media.Event{Type: media.EventEnded, Source: id})
}

// emit queues ev for delivery. It must be called without e.mu held.
func (e *Element) emit(ev media.Event) {
	select {
	case e.events <- ev:
	case <-e.done:
	default:
		// Callers may hold locks that subscribers need; hand off rather than block.
		go func() {
			select {
			case e.events <- ev:
			case <-e.done:
			}
		}()
	}
}

func (e *Element) dispatch() {
	for {
		select {
		case ev := <-e.events:
			e.mu.Lock()
			fns := make([]func(media.Event), 0, len(e.subs))
			for _, fn := range e.subs {
				fns = append(fns, fn)
			}
			e.mu.Unlock()
			for _, fn := range fns {
				fn(ev)
			}
		case <-e.done:
			return
		}
	}
}

// tick reports the position while playing.
func (e *Element) tick(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			e.mu.Lock()
			if e.state != Playing || e.source == nil {
				e.mu.Unlock()
				continue
			}
			ev := media.Event{Type: media.EventTimeUpdate, Source: e.source.ID, Position: e.positionLocked()}
			e.mu.Unlock()
			// Position updates are lossy; never block the ticker on a slow consumer.
			select {
			case e.events <- ev:
			default:
			}
		case <-e.done:
			return
		}
	}
}
