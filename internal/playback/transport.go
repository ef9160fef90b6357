package playback

import (
	"time"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// TogglePlay pauses a playing track or resumes a paused one. It is a
// no-op when nothing is loaded.
func (c *Controller) TogglePlay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	_ = c.togglePlayLocked()
	c.publishLocked()
}

func (c *Controller) togglePlayLocked() error {
	if c.st.Track == nil || c.adapter.Source() == "" {
		return nil
	}
	if c.st.Playing {
		c.adapter.Pause()
		c.st.Playing = false
		c.st.Phase = c.adapter.Phase()
		return nil
	}
	return c.playLocked()
}

// Seek moves the playhead. The target is clamped into [0, duration] and
// the snapshot is updated before the element confirms.
func (c *Controller) Seek(pos time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.adapter.Source() == "" {
		return
	}
	actual, err := c.adapter.Seek(pos)
	if err != nil {
		c.log.Debug().Err(err).Msg(string(errmsg.OpPlaybackSeek))
	}
	c.st.Position = actual
	c.each(func(s *Subscription) { s.sendPosition(actual) })
	c.publishLocked()
}

func clampVolume(v float64) float64 {
	return min(max(v, 0), 1)
}

// SetVolume applies a level in [0, 1] and persists it. A non-zero level
// also becomes the level ToggleMute restores.
func (c *Controller) SetVolume(level float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setVolumeLocked(clampVolume(level))
}

func (c *Controller) setVolumeLocked(v float64) {
	c.st.Volume = v
	if v > 0 {
		c.lastVolume = v
	}
	c.adapter.SetVolume(v)
	if c.prefs != nil {
		if err := c.prefs.SaveVolume(v); err != nil {
			c.log.Warn().Err(err).Msg(string(errmsg.OpPrefsSave))
		}
	}
	c.publishLocked()
}

// ToggleMute sets the volume to zero, or back to the last non-zero level.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.Volume > 0 {
		c.setVolumeLocked(0)
		return
	}
	c.setVolumeLocked(c.lastVolume)
}

// ToggleShuffle flips shuffle, persists it and returns the new value.
func (c *Controller) ToggleShuffle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	on := c.queue.ToggleShuffle()
	c.modesChangedLocked()
	return on
}

// ToggleRepeat cycles off, all, one and back to off, persists the mode and
// returns it.
func (c *Controller) ToggleRepeat() playlist.RepeatMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.queue.CycleRepeatMode()
	c.modesChangedLocked()
	return m
}

func (c *Controller) modesChangedLocked() {
	c.st.Shuffle = c.queue.Shuffle()
	c.st.Repeat = c.queue.RepeatMode()
	if c.prefs != nil {
		if err := c.prefs.SaveModes(c.st.Shuffle, int(c.st.Repeat)); err != nil {
			c.log.Warn().Err(err).Msg(string(errmsg.OpPrefsSave))
		}
	}
	c.publishModeLocked()
	c.publishLocked()
}
