package playlist

import (
	"math/rand/v2"
	"time"
)

// PlayingQueue wraps a Playlist with a current position, navigation modes and
// a back-navigation history.
//
// Invariant: 0 <= CurrentIndex() < Len() whenever Len() > 0, and
// CurrentIndex() == -1 when the queue is empty.
//
// PlayingQueue is not safe for concurrent use; the playback controller
// serializes access.
type PlayingQueue struct {
	playlist     *Playlist
	history      *History
	currentIndex int
	// currentRemoved is set once the current entry has been removed and
	// currentIndex points at the entry that slid into its place, which has
	// not played yet.
	currentRemoved bool
	repeatMode     RepeatMode
	shuffle        bool
	rng            *rand.Rand
}

// NewQueue creates a new empty playing queue whose history keeps at most
// historyDepth tracks. A non-positive depth selects DefaultHistoryDepth.
func NewQueue(historyDepth int) *PlayingQueue {
	return &PlayingQueue{
		playlist:     NewPlaylist(),
		history:      NewHistory(historyDepth),
		currentIndex: -1,
		rng:          rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)), //nolint:gosec // shuffle order, not security
	}
}

// SetRand replaces the random source used for shuffle picks.
func (q *PlayingQueue) SetRand(r *rand.Rand) {
	if r != nil {
		q.rng = r
	}
}

// Current returns the track at the current position, or nil if none.
func (q *PlayingQueue) Current() *Track {
	return q.playlist.Track(q.currentIndex)
}

// CurrentIndex returns the current position (-1 if the queue is empty).
func (q *PlayingQueue) CurrentIndex() int {
	return q.currentIndex
}

// IsLast reports whether the current position is the last queue position
// and nothing is left to advance to.
func (q *PlayingQueue) IsLast() bool {
	return !q.currentRemoved && q.currentIndex == q.playlist.Len()-1
}

// Track returns the track at index, or nil if out of bounds.
func (q *PlayingQueue) Track(index int) *Track {
	return q.playlist.Track(index)
}

// IndexOf returns the first position of the track with the given ID, or -1.
func (q *PlayingQueue) IndexOf(id string) int {
	return q.playlist.IndexOf(id)
}

// JumpTo sets the current index to the specified position.
// Returns the track at that position, or nil if invalid.
func (q *PlayingQueue) JumpTo(index int) *Track {
	if index < 0 || index >= q.playlist.Len() {
		return nil
	}
	q.currentIndex = index
	q.currentRemoved = false
	return q.Current()
}

// Add appends tracks to the queue without changing the current position,
// except that the first tracks added to an empty queue become current.
func (q *PlayingQueue) Add(tracks ...Track) {
	q.playlist.Add(tracks...)
	if q.currentIndex < 0 && q.playlist.Len() > 0 {
		q.currentIndex = 0
	}
}

// AddAndSelect appends a track and positions the index at it.
// Returns the new index.
func (q *PlayingQueue) AddAndSelect(t Track) int {
	q.playlist.Add(t)
	q.currentIndex = q.playlist.Len() - 1
	q.currentRemoved = false
	return q.currentIndex
}

// Replace clears the queue and installs tracks with the given current index.
// An out-of-range index is clamped.
func (q *PlayingQueue) Replace(tracks []Track, index int) {
	q.playlist.Clear()
	q.playlist.Add(tracks...)
	q.currentRemoved = false
	switch {
	case q.playlist.Len() == 0:
		q.currentIndex = -1
	case index < 0:
		q.currentIndex = 0
	case index >= q.playlist.Len():
		q.currentIndex = q.playlist.Len() - 1
	default:
		q.currentIndex = index
	}
}

// RemoveAt removes the track at the given index.
// Removing before the current position moves the index back by one, and so
// does removing the current entry itself, so that the following advance
// neither skips nor repeats a track. When the removed current entry was at
// the head there is nothing to step back to: the index stays on the entry
// that slid into place and the next advance resolves to it.
func (q *PlayingQueue) RemoveAt(index int) bool {
	if !q.playlist.Remove(index) {
		return false
	}

	switch {
	case index < q.currentIndex:
		q.currentIndex--
	case index == q.currentIndex:
		if index == 0 || q.currentRemoved {
			q.currentRemoved = true
		} else {
			q.currentIndex--
		}
	}
	q.clampIndex()
	return true
}

// Move moves a track and keeps the index on the same logical track.
func (q *PlayingQueue) Move(from, to int) bool {
	if !q.playlist.Move(from, to) {
		return false
	}
	switch {
	case from == q.currentIndex:
		q.currentIndex = to
	case from < q.currentIndex && to >= q.currentIndex:
		q.currentIndex--
	case from > q.currentIndex && to <= q.currentIndex:
		q.currentIndex++
	}
	return true
}

func (q *PlayingQueue) clampIndex() {
	n := q.playlist.Len()
	switch {
	case n == 0:
		q.currentIndex = -1
		q.currentRemoved = false
	case q.currentIndex < 0:
		q.currentIndex = 0
	case q.currentIndex >= n:
		q.currentIndex = n - 1
		q.currentRemoved = false
	}
}

// Clear removes all tracks. The history is kept so that back-navigation
// still works after the queue is emptied.
func (q *PlayingQueue) Clear() {
	q.playlist.Clear()
	q.currentIndex = -1
	q.currentRemoved = false
}

// Tracks returns all tracks in the queue.
func (q *PlayingQueue) Tracks() []Track {
	return q.playlist.Tracks()
}

// Len returns the number of tracks in the queue.
func (q *PlayingQueue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *PlayingQueue) IsEmpty() bool {
	return q.playlist.Len() == 0
}

// History returns the back-navigation stack.
func (q *PlayingQueue) History() *History {
	return q.history
}

// RepeatMode returns the current repeat mode.
func (q *PlayingQueue) RepeatMode() RepeatMode {
	return q.repeatMode
}

// SetRepeatMode sets the repeat mode. Unknown modes are ignored.
func (q *PlayingQueue) SetRepeatMode(m RepeatMode) {
	if m.Valid() {
		q.repeatMode = m
	}
}

// CycleRepeatMode advances Off → All → One → Off and returns the new mode.
func (q *PlayingQueue) CycleRepeatMode() RepeatMode {
	q.repeatMode = q.repeatMode.Next()
	return q.repeatMode
}

// Shuffle reports whether shuffle is enabled.
func (q *PlayingQueue) Shuffle() bool {
	return q.shuffle
}

// SetShuffle enables or disables shuffle.
func (q *PlayingQueue) SetShuffle(enabled bool) {
	q.shuffle = enabled
}

// ToggleShuffle flips shuffle and returns the new value.
func (q *PlayingQueue) ToggleShuffle() bool {
	q.shuffle = !q.shuffle
	return q.shuffle
}

// ResolveNext computes the index that follows the current one.
// It does not honor RepeatOff end-of-queue stopping; that policy belongs to
// the end-of-track handler. With shuffle the pick is uniform over every
// position except the current one. A single-entry queue resolves to index 0.
// After the current entry was removed the entry now at the current index is
// next. The boolean is false only for an empty queue.
func (q *PlayingQueue) ResolveNext() (int, bool) {
	n := q.playlist.Len()
	if n == 0 {
		return -1, false
	}
	if n == 1 {
		return 0, true
	}
	if q.currentRemoved {
		if q.shuffle {
			return q.rng.IntN(n), true
		}
		return q.currentIndex, true
	}
	if q.shuffle {
		return q.randomOther(n), true
	}
	return (q.currentIndex + 1) % n, true
}

// randomOther picks uniformly among [0, n) excluding the current index.
func (q *PlayingQueue) randomOther(n int) int {
	if q.currentIndex < 0 || q.currentIndex >= n {
		return q.rng.IntN(n)
	}
	pick := q.rng.IntN(n - 1)
	if pick >= q.currentIndex {
		pick++
	}
	return pick
}

// PreviousKind tells the caller how to perform a "previous" request.
type PreviousKind int

const (
	// PreviousNone means there is nothing to go back to.
	PreviousNone PreviousKind = iota
	// PreviousRestart means the current track should restart from zero.
	PreviousRestart
	// PreviousHistory means the top history entry should be played.
	PreviousHistory
	// PreviousIndex means the queue entry at Index should be played.
	PreviousIndex
)

// Previous is the outcome of ResolvePrevious.
type Previous struct {
	Kind  PreviousKind
	Index int
	Track Track
}

// ResolvePrevious decides what "previous" means given the elapsed time in the
// current track. Past the threshold it means restart. Otherwise the most
// recent history entry wins; it stays on the history until the caller pops
// it once the entry actually plays. With an empty history it falls back to a
// shuffle pick or to (index - 1 + len) mod len.
func (q *PlayingQueue) ResolvePrevious(elapsed, threshold time.Duration) Previous {
	if elapsed > threshold {
		return Previous{Kind: PreviousRestart}
	}
	if t, ok := q.history.Peek(); ok {
		return Previous{Kind: PreviousHistory, Track: t, Index: q.playlist.IndexOf(t.ID)}
	}
	n := q.playlist.Len()
	if n == 0 {
		return Previous{Kind: PreviousNone}
	}
	if n == 1 {
		return Previous{Kind: PreviousRestart}
	}
	if q.shuffle {
		return Previous{Kind: PreviousIndex, Index: q.randomOther(n)}
	}
	return Previous{Kind: PreviousIndex, Index: (q.currentIndex - 1 + n) % n}
}
