package playback

import (
	"context"

	"github.com/llehouerou/wavestream/internal/playlist"
)

// historyOp says what entering a track does to the back-navigation history
// once the entry plays.
type historyOp int

const (
	historyKeep historyOp = iota
	historyPush
	historyPop
)

// Next plays the entry that follows the current one, wrapping at the end
// or picking at random with shuffle. The current track is pushed onto the
// history.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	idx, ok := c.queue.ResolveNext()
	if !ok {
		c.mu.Unlock()
		return nil
	}
	req, ok := c.enterLocked(ctx, idx, historyPush)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return c.run(req)
}

// Previous restarts the current track once it has played past the restart
// threshold. Otherwise it plays the most recent history entry, falling
// back to the previous queue entry. The history is not pushed; a history
// entry is popped once it plays.
func (c *Controller) Previous(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}

	elapsed := c.st.Position
	loaded := c.adapter.Source() != ""
	if !loaded {
		elapsed = 0
	}

	var req loadRequest
	ok := false
	prev := c.queue.ResolvePrevious(elapsed, c.restartThreshold)
	switch prev.Kind {
	case playlist.PreviousNone:
	case playlist.PreviousRestart:
		if loaded {
			_ = c.restartLocked(false)
			c.publishLocked()
		} else if idx := c.queue.CurrentIndex(); idx >= 0 {
			req, ok = c.enterLocked(ctx, idx, historyKeep)
		}
	case playlist.PreviousHistory:
		req, ok = c.playEntryLocked(ctx, prev.Track, prev.Index, historyPop)
	case playlist.PreviousIndex:
		req, ok = c.enterLocked(ctx, prev.Index, historyKeep)
	}
	c.mu.Unlock()

	if !ok {
		return nil
	}
	return c.run(req)
}

// JumpTo plays the queue entry at index. Out-of-range indexes are ignored.
func (c *Controller) JumpTo(ctx context.Context, index int) error {
	c.mu.Lock()
	if c.closed || c.queue.Track(index) == nil {
		c.mu.Unlock()
		return nil
	}
	req, ok := c.enterLocked(ctx, index, historyPush)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return c.run(req)
}

// enterLocked prepares playback of the queue entry at index.
func (c *Controller) enterLocked(ctx context.Context, index int, op historyOp) (loadRequest, bool) {
	t := c.queue.Track(index)
	if t == nil {
		return loadRequest{}, false
	}
	return c.playEntryLocked(ctx, *t, index, op)
}

// playEntryLocked returns the load request for t, the queue entry at index
// (or a history track outside the queue when index is negative). The queue
// position and the history only change once the load commits; a failed
// load still moves the position so the snapshot shows the failed entry.
// When t is already loaded it restarts in place and returns false.
func (c *Controller) playEntryLocked(ctx context.Context, t playlist.Track, index int, op historyOp) (loadRequest, bool) {
	if c.st.Track != nil && c.st.Track.ID == t.ID && c.adapter.Source() != "" {
		c.abortLoadLocked()
		if op == historyPop {
			c.popHistoryLocked(t.ID)
		}
		c.selectEntryLocked(index, t.ID)
		_ = c.restartLocked(true)
		c.publishLocked()
		return loadRequest{}, false
	}

	req := c.beginLoadLocked(ctx, t.ID)
	req.fallback = &t
	req.commit = func(playlist.Track) {
		switch op {
		case historyPush:
			c.pushHistoryLocked()
		case historyPop:
			c.popHistoryLocked(t.ID)
		case historyKeep:
		}
		c.selectEntryLocked(index, t.ID)
	}
	req.settle = func() { c.selectEntryLocked(index, t.ID) }
	c.publishLocked()
	return req, true
}

// selectEntryLocked moves the queue to the entry for id, preferring index
// while the queue still holds that entry there.
func (c *Controller) selectEntryLocked(index int, id string) {
	if t := c.queue.Track(index); t == nil || t.ID != id {
		index = c.queue.IndexOf(id)
	}
	if c.queue.JumpTo(index) == nil {
		return
	}
	c.publishQueueLocked()
}

// restartLocked seeks the loaded track back to zero, optionally starting it.
func (c *Controller) restartLocked(play bool) error {
	pos, err := c.adapter.Seek(0)
	if err != nil {
		c.log.Debug().Err(err).Msg("restart")
	}
	c.st.Position = pos
	c.each(func(s *Subscription) { s.sendPosition(pos) })
	if play {
		return c.playLocked()
	}
	return nil
}
