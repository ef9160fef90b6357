package playerbar

import (
	"fmt"
	"strings"

	"github.com/llehouerou/wavestream/internal/playlist"
)

// RenderVolume renders the volume indicator.
// Format: "vol  70%" or "vol mute".
func RenderVolume(volume float64, muted bool) string {
	if muted {
		return progressTimeStyle().Render("vol mute")
	}
	return progressTimeStyle().Render(fmt.Sprintf("vol %3d%%", int(volume*100+0.5)))
}

// modeText returns the plain shuffle and repeat flags, empty when both are off.
func modeText(shuffle bool, repeat playlist.RepeatMode) string {
	var parts []string
	if shuffle {
		parts = append(parts, shuffleSymbol)
	}
	switch repeat {
	case playlist.RepeatAll:
		parts = append(parts, repeatSymbol)
	case playlist.RepeatOne:
		parts = append(parts, repeatSymbol+"1")
	case playlist.RepeatOff:
	}
	return strings.Join(parts, " ")
}
