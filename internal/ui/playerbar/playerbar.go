// Package playerbar renders the player bar from a playback snapshot.
package playerbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/ui/render"
)

// DisplayMode controls the player bar appearance.
type DisplayMode int

const (
	ModeCompact  DisplayMode = iota // Single-line view
	ModeExpanded                    // Title, details, progress and status rows
)

const (
	minBarWidth      = 10
	minExpandedWidth = 40
	expandedRows     = 4
)

// Height returns the total height of the player bar for the given mode.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return expandedRows + 2
	}
	return 3
}

// Render returns the player bar for the given width.
// Returns an empty string when there is neither a track nor an error.
func Render(s playback.Snapshot, width int, mode DisplayMode) string {
	if !s.HasTrack() && s.Error == "" {
		return ""
	}
	if mode == ModeExpanded && width-2 >= minExpandedWidth {
		return renderExpanded(s, width)
	}
	return renderCompact(s, width)
}

// statusSymbol picks the symbol shown before the progress bar.
func statusSymbol(s playback.Snapshot) string {
	switch {
	case s.Loading:
		return pendingStyle().Render(loadingSymbol)
	case s.Buffering:
		return pendingStyle().Render(bufferingSymbol)
	case s.Playing:
		return playSymbol
	default:
		return pauseSymbol
	}
}

func trackTitle(s playback.Snapshot) string {
	if s.Track == nil || s.Track.Title == "" {
		return "Unknown Track"
	}
	return s.Track.Title
}

func trackInfo(s playback.Snapshot) string {
	if s.Track == nil {
		return ""
	}
	var parts []string
	if s.Track.Artist != "" {
		parts = append(parts, s.Track.Artist)
	}
	if s.Track.Album != "" {
		parts = append(parts, s.Track.Album)
	}
	return strings.Join(parts, " · ")
}

func queuePosition(s playback.Snapshot) string {
	if s.QueueLen == 0 || s.QueueIndex < 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", s.QueueIndex+1, s.QueueLen)
}

func renderCompact(s playback.Snapshot, width int) string {
	innerWidth := max(width-6, 0)
	style := barStyle().Padding(0, 2).Width(max(width-2, 0))

	if !s.HasTrack() {
		return style.Render(errorStyle().Render(render.TruncateEllipsis(s.Error, innerWidth)))
	}

	title := render.Sanitize(trackTitle(s))
	info := render.Sanitize(trackInfo(s))
	if s.Error != "" {
		info = s.Error
	}
	queuePos := queuePosition(s)
	status := statusSymbol(s)
	timeStr := fmt.Sprintf("%s / %s", formatDuration(s.Position), formatTotal(s.Duration))
	volume := RenderVolume(s.Volume, s.Muted())
	modes := modeText(s.Shuffle, s.Repeat)

	const separator = "   "
	sepWidth := len(separator)
	statusWidth := render.Width(status) + 2
	fixed := statusWidth + render.Width(timeStr) + sepWidth*3 + render.Width(volume)
	if queuePos != "" {
		fixed += render.Width(queuePos) + sepWidth
	}
	if modes != "" {
		fixed += render.Width(modes) + sepWidth
	}
	available := innerWidth - fixed - minBarWidth

	titleWidth := render.Width(title)
	infoWidth := render.Width(info)

	var styledTitle, styledInfo string
	var used int
	switch {
	case titleWidth+sepWidth+infoWidth <= available:
		styledTitle = titleStyle().Render(title)
		used = titleWidth
		if info != "" {
			styledInfo = infoStyle(s).Render(info)
			used += sepWidth + infoWidth
		}
	case titleWidth+sepWidth < available && info != "":
		maxInfo := available - titleWidth - sepWidth
		styledTitle = titleStyle().Render(title)
		styledInfo = infoStyle(s).Render(render.TruncateEllipsis(info, maxInfo))
		used = titleWidth + sepWidth + maxInfo
	default:
		maxTitle := max(available, minBarWidth)
		cut := render.TruncateEllipsis(title, maxTitle)
		styledTitle = titleStyle().Render(cut)
		used = render.Width(cut)
	}

	barWidth := max(innerWidth-used-fixed, 5)
	if used+fixed+barWidth > innerWidth {
		return style.Render(narrowLine(title, status, timeStr, innerWidth))
	}

	var b strings.Builder
	b.WriteString(styledTitle)
	if styledInfo != "" {
		b.WriteString(separator)
		b.WriteString(styledInfo)
	}
	if queuePos != "" {
		b.WriteString(separator)
		b.WriteString(metaStyle().Render(queuePos))
	}
	b.WriteString(separator)
	b.WriteString(status)
	b.WriteString("  ")
	b.WriteString(bar(s.Position, s.Duration, barWidth))
	b.WriteString(separator)
	b.WriteString(progressTimeStyle().Render(timeStr))
	if modes != "" {
		b.WriteString(separator)
		b.WriteString(activeModeStyle().Render(modes))
	}
	b.WriteString(separator)
	b.WriteString(volume)

	return style.Render(b.String())
}

// narrowLine keeps only the status, the title and the times.
func narrowLine(title, status, timeStr string, width int) string {
	room := width - render.Width(status) - render.Width(timeStr) - 2
	if room < 1 {
		return render.TruncateEllipsis(timeStr, width)
	}
	return render.Row(status+" "+titleStyle().Render(render.TruncateEllipsis(title, room)), timeStr, width)
}

func infoStyle(s playback.Snapshot) lipgloss.Style {
	if s.Error != "" {
		return errorStyle()
	}
	return artistStyle()
}

func renderExpanded(s playback.Snapshot, width int) string {
	innerWidth := width - 2
	contentWidth := innerWidth - 2

	title := titleStyle().Render(render.TruncateEllipsis(trackTitle(s), contentWidth-8))
	lines := []string{
		render.Row(title, metaStyle().Render(queuePosition(s)), contentWidth),
		artistStyle().Render(render.Fit(trackInfo(s), contentWidth)),
		RenderProgressBar(s.Position, s.Duration, contentWidth, statusSymbol(s)),
		statusLine(s, contentWidth),
	}
	return barStyle().Padding(0, 1).Width(innerWidth).Render(strings.Join(lines, "\n"))
}

// statusLine shows the error, or the pending state, or the modes, with the
// volume on the right.
func statusLine(s playback.Snapshot, width int) string {
	volume := RenderVolume(s.Volume, s.Muted())
	left := width - render.Width(volume) - 1

	var text string
	switch {
	case s.Error != "":
		text = errorStyle().Render(render.TruncateEllipsis(s.Error, left))
	case s.Loading:
		text = pendingStyle().Render("Loading…")
	case s.Buffering:
		text = pendingStyle().Render("Buffering…")
	default:
		text = activeModeStyle().Render(render.TruncateEllipsis(modeText(s.Shuffle, s.Repeat), left))
	}
	return render.Row(text, volume, width)
}
