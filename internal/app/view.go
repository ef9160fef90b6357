package app

import (
	"strings"

	"github.com/llehouerou/wavestream/internal/keymap"
	"github.com/llehouerou/wavestream/internal/ui/playerbar"
	"github.com/llehouerou/wavestream/internal/ui/render"
	"github.com/llehouerou/wavestream/internal/ui/styles"
)

const headerHeight = 1

func (m Model) barHeight() int {
	if !m.snap.HasTrack() && m.snap.Error == "" {
		return 0
	}
	return playerbar.Height(m.barMode)
}

// resize gives the queue panel whatever the header and player bar leave.
func (m *Model) resize() {
	m.queue.SetSize(m.width, max(m.height-headerHeight-m.barHeight(), 0))
}

// View renders the header, the queue panel and the player bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	parts := []string{m.renderHeader()}
	if q := m.queue.View(); q != "" {
		parts = append(parts, q)
	}
	if bar := playerbar.Render(m.snap, m.width, m.barMode); bar != "" {
		parts = append(parts, bar)
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderHeader() string {
	s := styles.T().S()
	title := s.Title.Render("wavestream")
	if m.status == "" {
		return render.Row(title, s.Subtle.Render(headerHints()), m.width)
	}
	msg := render.TruncateEllipsis(m.status, max(m.width-render.Width(title)-1, 0))
	return render.Row(title, s.Error.Render(msg), m.width)
}

func headerHints() string {
	hints := make([]string, 0, 3)
	for _, a := range []keymap.Action{keymap.ActionSwitchFocus, keymap.ActionToggleView, keymap.ActionQuit} {
		hints = append(hints, keys.KeysFor(a)[0]+": "+hintLabels[a])
	}
	return strings.Join(hints, "  ")
}

var hintLabels = map[keymap.Action]string{
	keymap.ActionSwitchFocus: "queue",
	keymap.ActionToggleView:  "view",
	keymap.ActionQuit:        "quit",
}
