package playback

import (
	"context"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/media"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// loadRequest is one pass through resolve, open and commit.
type loadRequest struct {
	ctx    context.Context
	cancel context.CancelFunc
	gen    uint64
	id     string

	// fallback is the queue entry being navigated to. A failed resolution
	// settles on it so the snapshot shows which entry failed.
	fallback *playlist.Track
	// toggleCurrent turns a request for the track that is already loaded
	// into a play/pause toggle.
	toggleCurrent bool
	// commit applies queue side effects once the new source is loaded.
	commit func(t playlist.Track)
	// settle applies the queue position when a failed load leaves the
	// engine idle on the failed entry.
	settle func()
}

// PlayTrack resolves id, opens its audio and starts playback.
//
// When the resolved track is the one already loaded, PlayTrack toggles
// play/pause instead. With addToQueue the previous track is pushed onto
// the history and the new one is appended and selected, once loading
// succeeds.
//
// PlayTrack blocks until the request settles; other goroutines observe
// progress through Snapshot().Loading. A later request supersedes this
// one, in which case a cancellation error is returned and nothing is
// surfaced to the user.
func (c *Controller) PlayTrack(ctx context.Context, id string, addToQueue bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return media.ErrClosed
	}
	req := c.beginLoadLocked(ctx, id)
	req.toggleCurrent = true
	if addToQueue {
		req.commit = func(t playlist.Track) {
			c.pushHistoryLocked()
			c.queue.AddAndSelect(t)
			c.publishQueueLocked()
		}
	}
	c.publishLocked()
	c.mu.Unlock()

	return c.run(req)
}

// beginLoadLocked supersedes any in-flight load and starts a new one.
func (c *Controller) beginLoadLocked(parent context.Context, id string) loadRequest {
	c.abortLoadLocked()
	ctx, cancel := context.WithCancel(parent)
	c.cancelLoad = cancel
	c.st.Loading = true
	c.clearErrorLocked()
	return loadRequest{ctx: ctx, cancel: cancel, gen: c.generation, id: id}
}

// abortLoadLocked invalidates the in-flight load, if any.
func (c *Controller) abortLoadLocked() {
	c.generation++
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
	c.st.Loading = false
}

func (c *Controller) isCurrentLocked(gen uint64) bool {
	return !c.closed && gen == c.generation
}

func (c *Controller) finishLoadLocked(req loadRequest) {
	req.cancel()
	c.cancelLoad = nil
	c.st.Loading = false
}

func superseded(id string) error {
	return errmsg.New(errmsg.KindCanceled, errmsg.OpPlaybackLoad, context.Canceled).WithTrack(id)
}

// run drives req to completion. Only the latest generation may touch the
// adapter; a stale result releases whatever it opened.
func (c *Controller) run(req loadRequest) error {
	defer req.cancel()

	track, err := c.resolver.Resolve(req.ctx, req.id)
	if err != nil {
		return c.failLoad(req, req.fallback, err)
	}

	if req.toggleCurrent {
		c.mu.Lock()
		if c.isCurrentLocked(req.gen) && c.st.Track != nil && c.st.Track.ID == track.ID && c.adapter.Source() != "" {
			c.finishLoadLocked(req)
			c.st.Track = &track
			err := c.togglePlayLocked()
			c.publishLocked()
			c.mu.Unlock()
			return err
		}
		c.mu.Unlock()
	}

	res, err := c.loader.Load(req.ctx, track)
	if err != nil {
		return c.failLoad(req, &track, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCurrentLocked(req.gen) {
		_ = res.Release()
		return superseded(req.id)
	}
	if err := c.adapter.Load(res); err != nil {
		return c.failLoadLocked(req, &track, err)
	}
	c.finishLoadLocked(req)

	if req.commit != nil {
		req.commit(track)
	}
	c.setTrackLocked(track)
	c.st.Position = 0
	c.st.Duration = c.adapter.Duration()
	if c.st.Duration <= 0 {
		c.st.Duration = track.Duration
	}
	c.st.Buffering = false
	c.st.Phase = c.adapter.Phase()
	c.clearErrorLocked()

	err = c.playLocked()
	c.publishLocked()
	return err
}

func (c *Controller) failLoad(req loadRequest, track *playlist.Track, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failLoadLocked(req, track, err)
}

// failLoadLocked settles a failed load. Stale failures are discarded.
// Without a track (resolution failed outside navigation) whatever was
// playing keeps playing. Otherwise the previous source is released and the
// engine goes idle on the failed track.
func (c *Controller) failLoadLocked(req loadRequest, track *playlist.Track, err error) error {
	if !c.isCurrentLocked(req.gen) {
		return superseded(req.id)
	}
	c.finishLoadLocked(req)

	if errmsg.IsCanceled(err) {
		c.publishLocked()
		return err
	}
	if track != nil {
		if req.settle != nil {
			req.settle()
		}
		c.adapter.Unload()
		c.setTrackLocked(*track)
		c.st.Playing = false
		c.st.Buffering = false
		c.st.Position = 0
		c.st.Duration = track.Duration
		c.st.Phase = media.PhaseIdle
	}
	c.setErrorLocked(err)
	c.publishLocked()
	return err
}

// playLocked starts the loaded source and records the start.
func (c *Controller) playLocked() error {
	if err := c.adapter.Play(); err != nil {
		c.st.Playing = false
		c.setErrorLocked(err)
		return err
	}
	c.st.Playing = true
	c.st.Phase = c.adapter.Phase()
	c.clearErrorLocked()
	c.startedLocked()
	return nil
}

func (c *Controller) pushHistoryLocked() {
	if c.st.Track != nil {
		c.queue.History().Push(*c.st.Track)
	}
}

// popHistoryLocked drops the top history entry if it is still id.
func (c *Controller) popHistoryLocked(id string) {
	h := c.queue.History()
	if t, ok := h.Peek(); ok && t.ID == id {
		h.Pop()
	}
}
