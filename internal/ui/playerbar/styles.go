package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/ui/styles"
)

const (
	playSymbol      = "▶"
	pauseSymbol     = "⏸"
	loadingSymbol   = "⋯"
	bufferingSymbol = "◌"
	shuffleSymbol   = "⇄"
	repeatSymbol    = "⟳"
)

func barStyle() lipgloss.Style {
	return styles.PanelStyle(false)
}

func titleStyle() lipgloss.Style        { return styles.T().S().Title }
func artistStyle() lipgloss.Style       { return styles.T().S().Muted }
func metaStyle() lipgloss.Style         { return styles.T().S().Subtle }
func progressBarFilled() lipgloss.Style { return styles.T().S().Playing }
func progressBarEmpty() lipgloss.Style  { return styles.T().S().Subtle }
func progressTimeStyle() lipgloss.Style { return styles.T().S().Muted }
func pendingStyle() lipgloss.Style      { return styles.T().S().Pending }
func errorStyle() lipgloss.Style        { return styles.T().S().Error }
func activeModeStyle() lipgloss.Style   { return styles.T().S().Playing }
