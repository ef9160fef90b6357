package playback

import (
	"context"

	"github.com/llehouerou/wavestream/internal/media"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// Verify Controller implements media.Sink at compile time.
var _ media.Sink = (*Controller)(nil)

// MediaUpdated folds one adapter update into the snapshot. Updates for a
// source other than the active one are ignored. When a track ends the next
// load runs on its own goroutine so the element's dispatch is never held
// by resolution or download.
func (c *Controller) MediaUpdated(u media.Update) {
	c.mu.Lock()
	if c.closed || u.Source == "" || u.Source != c.adapter.Source() {
		c.mu.Unlock()
		return
	}

	c.st.Phase = u.Phase
	c.st.Buffering = u.Buffering

	var next loadRequest
	advance := false
	switch u.Event {
	case media.EventTimeUpdate:
		c.st.Position = u.Position
	case media.EventDurationChange, media.EventLoadedData:
		if u.Duration > 0 {
			c.st.Duration = u.Duration
		}
	case media.EventPlaying:
		c.st.Playing = true
	case media.EventPause:
		c.st.Playing = false
	case media.EventError:
		c.adapter.Unload()
		c.st.Playing = false
		c.st.Buffering = false
		c.st.Phase = media.PhaseIdle
		c.setErrorLocked(u.Err)
	case media.EventEnded:
		c.st.Position = u.Position
		next, advance = c.endedLocked()
	case media.EventLoadStart, media.EventWaiting:
	}
	if advance {
		c.advancing.Go(func() { _ = c.run(next) })
	}
	c.publishLocked()
	c.mu.Unlock()
}

// endedLocked applies the end-of-track policy: repeat-one restarts, a
// queue with more entries (or repeat-all) advances, anything else stops
// at zero with the track still loaded.
func (c *Controller) endedLocked() (loadRequest, bool) {
	c.st.Playing = false

	switch {
	case c.queue.RepeatMode() == playlist.RepeatOne:
		_ = c.restartLocked(true)
	case c.queue.IsEmpty():
		c.stopAtEndLocked()
	case c.queue.RepeatMode() == playlist.RepeatAll || !c.queue.IsLast():
		idx, ok := c.queue.ResolveNext()
		if !ok {
			c.stopAtEndLocked()
			break
		}
		return c.enterLocked(context.Background(), idx, historyPush)
	default:
		c.stopAtEndLocked()
	}
	return loadRequest{}, false
}

func (c *Controller) stopAtEndLocked() {
	pos, err := c.adapter.Seek(0)
	if err != nil {
		c.log.Debug().Err(err).Msg("rewind after end")
	}
	c.st.Position = pos
	c.st.Playing = false
}
