package queuepanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/playlist"
	"github.com/llehouerou/wavestream/internal/ui/render"
	"github.com/llehouerou/wavestream/internal/ui/styles"
)

// View renders the queue panel.
func (m Model) View() string {
	if m.width <= 2 || m.height <= overhead {
		return ""
	}
	innerWidth := m.width - 2

	content := m.renderHeader(innerWidth) + "\n" +
		render.Separator(innerWidth) + "\n" +
		m.renderTrackList(innerWidth)

	return styles.PanelStyle(m.focused).Width(innerWidth).Render(content)
}

func (m Model) renderHeader(innerWidth int) string {
	current := 0
	if m.playing >= 0 {
		current = m.playing + 1
	}
	left := fmt.Sprintf("Queue (%d/%d)", current, len(m.tracks))

	modes := m.modeText()
	if modes == "" {
		return headerStyle().Render(render.Fit(left, innerWidth))
	}
	leftWidth := innerWidth - render.Width(modes) - 1
	return headerStyle().Render(render.Fit(left, leftWidth)) + modeStyle().Render(modes) + " "
}

func (m Model) modeText() string {
	var parts []string
	if m.shuffle {
		parts = append(parts, shuffleSymbol)
	}
	switch m.repeat {
	case playlist.RepeatAll:
		parts = append(parts, repeatSymbol)
	case playlist.RepeatOne:
		parts = append(parts, repeatSymbol+"1")
	case playlist.RepeatOff:
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderTrackList(innerWidth int) string {
	h := m.listHeight()
	lines := make([]string, 0, h)
	for i := range h {
		idx := m.offset + i
		if idx >= len(m.tracks) {
			lines = append(lines, strings.Repeat(" ", innerWidth))
			continue
		}
		lines = append(lines, m.renderTrackLine(idx, innerWidth))
	}
	return strings.Join(lines, "\n")
}

// renderTrackLine renders "▶ title  artist  3:07" in two columns.
func (m Model) renderTrackLine(idx, width int) string {
	t := m.tracks[idx]

	prefix := "  "
	if idx == m.playing {
		prefix = playingSymbol + " "
	}
	length := ""
	if t.Duration > 0 {
		d := t.Duration
		length = fmt.Sprintf(" %d:%02d", int(d.Minutes()), int(d.Seconds())%60)
	}

	contentWidth := max(width-2-len(length), 0)
	titleWidth := contentWidth / 2
	line := prefix +
		render.Fit(t.Title, titleWidth) +
		render.Fit(t.Artist, contentWidth-titleWidth) +
		length

	return m.lineStyle(idx).Render(line)
}

func (m Model) lineStyle(idx int) lipgloss.Style {
	isCursor := m.focused && idx == m.cursor
	isPlaying := idx == m.playing
	isPlayed := m.playing >= 0 && idx < m.playing

	var style lipgloss.Style
	switch {
	case isPlaying:
		style = playingStyle()
	case isPlayed:
		style = playedStyle()
	default:
		style = trackStyle()
	}
	if isCursor {
		return cursorStyle.Inherit(style)
	}
	return style
}
