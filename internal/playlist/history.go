package playlist

// DefaultHistoryDepth bounds the back-navigation stack when no depth is configured.
const DefaultHistoryDepth = 100

// History is a bounded stack of previously-current tracks.
// It backs "true previous" navigation, which is distinct from stepping the
// queue index backwards.
type History struct {
	entries []Track
	maxSize int
}

// NewHistory creates a history holding at most maxSize tracks.
func NewHistory(maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultHistoryDepth
	}
	return &History{
		entries: make([]Track, 0, min(maxSize, 16)),
		maxSize: maxSize,
	}
}

// Push records a track as the most recent history entry.
// The oldest entry is dropped once the stack is full.
func (h *History) Push(t Track) {
	h.entries = append(h.entries, t)
	if len(h.entries) > h.maxSize {
		excess := len(h.entries) - h.maxSize
		h.entries = append(h.entries[:0], h.entries[excess:]...)
	}
}

// Pop removes and returns the most recent entry.
func (h *History) Pop() (Track, bool) {
	if len(h.entries) == 0 {
		return Track{}, false
	}
	last := len(h.entries) - 1
	t := h.entries[last]
	h.entries = h.entries[:last]
	return t, true
}

// Peek returns the most recent entry without removing it.
func (h *History) Peek() (Track, bool) {
	if len(h.entries) == 0 {
		return Track{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Tracks returns a copy of the entries, oldest first.
func (h *History) Tracks() []Track {
	out := make([]Track, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Cap returns the maximum number of entries kept.
func (h *History) Cap() int {
	return h.maxSize
}

// Clear drops every entry.
func (h *History) Clear() {
	h.entries = h.entries[:0]
}
