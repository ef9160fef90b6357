// Package queuepanel renders the play queue and turns key presses into
// queue requests.
package queuepanel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavestream/internal/playlist"
)

// overhead is the border plus the header and separator rows.
const overhead = 4

// JumpToTrackMsg asks to play the queue entry at Index.
type JumpToTrackMsg struct {
	Index int
}

// RemoveTrackMsg asks to remove the queue entry at Index.
type RemoveTrackMsg struct {
	Index int
}

// MoveTrackMsg asks to move the queue entry at From to To.
type MoveTrackMsg struct {
	From, To int
}

// Model is the queue panel state. It mirrors the controller's queue and
// never edits it directly.
type Model struct {
	tracks  []playlist.Track
	playing int
	shuffle bool
	repeat  playlist.RepeatMode

	cursor  int
	offset  int
	width   int
	height  int
	focused bool
}

// New creates an empty queue panel.
func New() Model {
	return Model{playing: -1}
}

// SetQueue replaces the displayed queue. The cursor follows the playing
// entry when the panel is not focused.
func (m *Model) SetQueue(tracks []playlist.Track, playing int) {
	m.tracks = tracks
	m.playing = playing
	if !m.focused && playing >= 0 {
		m.cursor = playing
	}
	m.clampCursor()
}

// SetModes updates the shuffle and repeat flags shown in the header.
func (m *Model) SetModes(shuffle bool, repeat playlist.RepeatMode) {
	m.shuffle = shuffle
	m.repeat = repeat
}

// SetFocused sets whether the panel receives keys.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// IsFocused returns whether the panel is focused.
func (m Model) IsFocused() bool {
	return m.focused
}

// SetSize sets the panel dimensions, borders included.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampCursor()
}

// Cursor returns the highlighted entry.
func (m Model) Cursor() int {
	return m.cursor
}

// Update handles key messages while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused || len(m.tracks) == 0 {
		return m, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.moveCursor(-len(m.tracks))
	case "G", "end":
		m.moveCursor(len(m.tracks))
	case "enter":
		return m, emit(JumpToTrackMsg{Index: m.cursor})
	case "d", "delete":
		return m, emit(RemoveTrackMsg{Index: m.cursor})
	case "J", "shift+down":
		if m.cursor < len(m.tracks)-1 {
			from := m.cursor
			m.moveCursor(1)
			return m, emit(MoveTrackMsg{From: from, To: m.cursor})
		}
	case "K", "shift+up":
		if m.cursor > 0 {
			from := m.cursor
			m.moveCursor(-1)
			return m, emit(MoveTrackMsg{From: from, To: m.cursor})
		}
	}
	return m, nil
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m Model) listHeight() int {
	return max(m.height-overhead, 0)
}

// clampCursor keeps the cursor on an entry and inside the visible window.
func (m *Model) clampCursor() {
	m.cursor = min(max(m.cursor, 0), max(len(m.tracks)-1, 0))
	h := m.listHeight()
	if h == 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = min(m.offset, max(len(m.tracks)-h, 0))
}
