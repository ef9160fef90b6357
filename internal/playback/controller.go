package playback

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/media"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// Defaults applied when Options leave a field zero.
const (
	DefaultRestartThreshold = 3 * time.Second
	DefaultReportTimeout    = 10 * time.Second
)

// Options configures a Controller.
type Options struct {
	Element  media.Element
	Resolver TrackResolver
	Loader   StreamLoader

	// Optional collaborators.
	Preferences Preferences
	Recorder    Recorder
	Reporters   []Reporter

	HistoryDepth     int
	RestartThreshold time.Duration
	ReportTimeout    time.Duration
	Logger           zerolog.Logger
	// Rand drives shuffle picks; nil seeds from the clock.
	Rand *rand.Rand
}

// Controller is the single owner of playback state. It composes the track
// resolver, the stream loader, the media adapter and the playing queue.
//
// Every mutation happens under mu. Resolution and stream loading run
// without the lock; each load carries a generation number and only the
// latest generation may commit.
type Controller struct {
	mu sync.Mutex

	adapter  *media.Adapter
	resolver TrackResolver
	loader   StreamLoader
	queue    *playlist.PlayingQueue

	prefs     Preferences
	recorder  Recorder
	reporters []Reporter

	restartThreshold time.Duration
	reportTimeout    time.Duration
	log              zerolog.Logger

	st         Snapshot
	lastVolume float64

	generation uint64
	cancelLoad context.CancelFunc
	// advancing tracks end-of-track loads started from MediaUpdated.
	advancing sync.WaitGroup
	// recorded is the resource ID whose start was last recorded.
	recorded string

	subs       []*Subscription
	subsMu     sync.Mutex
	subsClosed bool
	lastHash   uint64
	hashed     bool

	closed bool
}

// New creates a controller and restores the persisted volume and modes.
func New(opts Options) (*Controller, error) {
	if opts.Element == nil || opts.Resolver == nil || opts.Loader == nil {
		return nil, errors.New("playback: element, resolver and loader are required")
	}
	if opts.RestartThreshold <= 0 {
		opts.RestartThreshold = DefaultRestartThreshold
	}
	if opts.ReportTimeout <= 0 {
		opts.ReportTimeout = DefaultReportTimeout
	}

	c := &Controller{
		resolver:         opts.Resolver,
		loader:           opts.Loader,
		queue:            playlist.NewQueue(opts.HistoryDepth),
		prefs:            opts.Preferences,
		recorder:         opts.Recorder,
		reporters:        opts.Reporters,
		restartThreshold: opts.RestartThreshold,
		reportTimeout:    opts.ReportTimeout,
		log:              opts.Logger.With().Str("component", "playback").Logger(),
		lastVolume:       1,
	}
	c.queue.SetRand(opts.Rand)
	c.st = Snapshot{Volume: 1, QueueIndex: -1}
	c.adapter = media.NewAdapter(opts.Element, c)

	c.restorePreferences()
	c.adapter.SetVolume(c.st.Volume)
	return c, nil
}

func (c *Controller) restorePreferences() {
	if c.prefs == nil {
		return
	}
	p, err := c.prefs.LoadPreferences()
	if err != nil {
		c.log.Warn().Err(err).Msg(string(errmsg.OpPrefsLoad))
		return
	}
	c.st.Volume = clampVolume(p.Volume)
	if c.st.Volume > 0 {
		c.lastVolume = c.st.Volume
	}
	c.queue.SetShuffle(p.Shuffle)
	c.queue.SetRepeatMode(playlist.RepeatMode(p.Repeat))
	c.st.Shuffle = c.queue.Shuffle()
	c.st.Repeat = c.queue.RepeatMode()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := c.st
	if s.Track != nil {
		t := *s.Track
		s.Track = &t
	}
	s.QueueIndex = c.queue.CurrentIndex()
	s.QueueLen = c.queue.Len()
	s.ArtworkPath = c.artworkLocked()
	return s
}

// Subscribe creates a new event subscription. It is closed by Close.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	if c.subsClosed {
		sub.close()
		return sub
	}
	c.subs = append(c.subs, sub)
	return sub
}

// Close aborts any in-flight load, waits for a pending end-of-track
// advance, releases the active resource and closes the element and every
// subscription.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.generation++
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
	c.mu.Unlock()

	c.advancing.Wait()

	c.mu.Lock()
	err := c.adapter.Close()
	c.mu.Unlock()

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsClosed = true
	c.subsMu.Unlock()
	return err
}

func (c *Controller) each(fn func(*Subscription)) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, sub := range c.subs {
		fn(sub)
	}
}

// publishLocked notifies subscribers of the current snapshot unless it is
// identical to the last one published.
func (c *Controller) publishLocked() {
	snap := c.snapshotLocked()
	h, err := hashstructure.Hash(snap, hashstructure.FormatV2, nil)
	if err == nil {
		if c.hashed && h == c.lastHash {
			return
		}
		c.lastHash, c.hashed = h, true
	}
	c.each(func(s *Subscription) { s.sendState(StateChange{Snapshot: snap}) })
}

func (c *Controller) publishQueueLocked() {
	e := QueueChange{Tracks: c.queue.Tracks(), Index: c.queue.CurrentIndex()}
	c.each(func(s *Subscription) { s.sendQueue(e) })
}

func (c *Controller) publishModeLocked() {
	e := ModeChange{Repeat: c.queue.RepeatMode(), Shuffle: c.queue.Shuffle()}
	c.each(func(s *Subscription) { s.sendMode(e) })
}

// setTrackLocked makes t current and emits a TrackChange when the
// identity changes.
func (c *Controller) setTrackLocked(t playlist.Track) {
	prev := c.st.Track
	cur := t
	c.st.Track = &cur
	if prev != nil && prev.ID == t.ID {
		return
	}
	e := TrackChange{Previous: prev, Current: &cur, Index: c.queue.CurrentIndex(), ArtworkPath: c.artworkLocked()}
	c.each(func(s *Subscription) { s.sendTrack(e) })
}

func (c *Controller) artworkLocked() string {
	if res := c.adapter.Resource(); res != nil {
		return res.ArtworkPath
	}
	return ""
}

// setErrorLocked records a user-facing failure. Cancellations are never
// surfaced.
func (c *Controller) setErrorLocked(err error) {
	if err == nil || errmsg.IsCanceled(err) {
		return
	}
	c.st.Error = errmsg.Message(err)
	c.st.ErrorKind = errmsg.KindOf(err)

	var trackID string
	var e *errmsg.Error
	if errors.As(err, &e) {
		trackID = e.TrackID
	}
	ev := ErrorEvent{TrackID: trackID, Kind: c.st.ErrorKind, Message: c.st.Error, Err: err}
	c.each(func(s *Subscription) { s.sendError(ev) })
	c.log.Warn().Err(err).Str("track", trackID).Stringer("kind", c.st.ErrorKind).Msg("playback request failed")
}

func (c *Controller) clearErrorLocked() {
	c.st.Error = ""
	c.st.ErrorKind = errmsg.KindUnknown
}

// startedLocked runs the once-per-resource side effects of playback
// starting: the recently played record and the external reports.
func (c *Controller) startedLocked() {
	res := c.adapter.Resource()
	if res == nil || c.st.Track == nil || c.recorded == res.ID {
		return
	}
	c.recorded = res.ID
	t := *c.st.Track

	if c.recorder != nil {
		if err := c.recorder.RecordPlay(t); err != nil {
			c.log.Warn().Err(err).Msg(string(errmsg.OpRecordPlay))
		}
	}
	for _, r := range c.reporters {
		go c.report(r, t)
	}
}

func (c *Controller) report(r Reporter, t playlist.Track) {
	ctx, cancel := context.WithTimeout(context.Background(), c.reportTimeout)
	defer cancel()
	if err := r.ReportPlayback(ctx, t); err != nil {
		c.log.Debug().Err(err).Str("track", t.ID).Msg(string(errmsg.OpReportPlayback))
	}
}
