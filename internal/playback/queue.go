package playback

import "github.com/llehouerou/wavestream/internal/playlist"

// AddToQueue appends tracks without interrupting playback.
func (c *Controller) AddToQueue(tracks ...playlist.Track) {
	if len(tracks) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.Add(tracks...)
	c.queueChangedLocked()
}

// RemoveFromQueue removes the entry at index. The current track keeps
// playing even when its entry is removed.
func (c *Controller) RemoveFromQueue(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.queue.RemoveAt(index) {
		return false
	}
	c.queueChangedLocked()
	return true
}

// MoveInQueue moves an entry, keeping the current position on the same
// logical track.
func (c *Controller) MoveInQueue(from, to int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.queue.Move(from, to) {
		return false
	}
	c.queueChangedLocked()
	return true
}

// ClearQueue empties the queue. Playback and history are untouched.
func (c *Controller) ClearQueue() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.Clear()
	c.queueChangedLocked()
}

// RestoreQueue installs a saved queue without starting playback.
func (c *Controller) RestoreQueue(tracks []playlist.Track, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.Replace(tracks, index)
	c.queueChangedLocked()
}

// Queue returns a copy of the queue entries.
func (c *Controller) Queue() []playlist.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Tracks()
}

// History returns the back-navigation stack, most recent last.
func (c *Controller) History() []playlist.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.History().Tracks()
}

func (c *Controller) queueChangedLocked() {
	c.publishQueueLocked()
	c.publishLocked()
}
