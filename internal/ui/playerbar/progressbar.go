package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/llehouerou/wavestream/internal/ui/render"
)

const (
	filledBlock = "━"
	emptyBlock  = "─"
)

// RenderProgressBar renders a status symbol, the elapsed time, a bar and
// the total time in width cells.
// Format: ▶  1:23  ━━━━━─────  4:56
func RenderProgressBar(position, duration time.Duration, width int, status string) string {
	posStr := formatDuration(position)
	durStr := formatTotal(duration)

	fixedWidth := render.Width(status) + 2 + render.Width(posStr) + 2 + 2 + render.Width(durStr)
	barWidth := width - fixedWidth
	if barWidth < 3 {
		return status + "  " + posStr + " / " + durStr
	}

	return status + "  " +
		progressTimeStyle().Render(posStr) + "  " +
		bar(position, duration, barWidth) + "  " +
		progressTimeStyle().Render(durStr)
}

func bar(position, duration time.Duration, width int) string {
	filled := filledCells(position, duration, width)
	return progressBarFilled().Render(strings.Repeat(filledBlock, filled)) +
		progressBarEmpty().Render(strings.Repeat(emptyBlock, width-filled))
}

func filledCells(position, duration time.Duration, width int) int {
	if duration <= 0 || position <= 0 {
		return 0
	}
	ratio := float64(position) / float64(duration)
	return min(int(float64(width)*ratio), width)
}

func formatDuration(d time.Duration) string {
	d = max(d, 0)
	if d >= time.Hour {
		return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// formatTotal renders an unknown duration as "--:--".
func formatTotal(d time.Duration) string {
	if d <= 0 {
		return "--:--"
	}
	return formatDuration(d)
}
