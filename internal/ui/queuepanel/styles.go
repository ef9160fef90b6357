package queuepanel

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/ui/styles"
)

const (
	playingSymbol = "▶"
	shuffleSymbol = "⇄"
	repeatSymbol  = "⟳"
)

var cursorStyle = lipgloss.NewStyle().
	Background(lipgloss.Color("236")).
	Foreground(lipgloss.Color("252"))

func headerStyle() lipgloss.Style  { return styles.T().S().Title }
func trackStyle() lipgloss.Style   { return styles.T().S().Base }
func playingStyle() lipgloss.Style { return styles.T().S().Playing }
func playedStyle() lipgloss.Style  { return styles.T().S().Subtle }
func modeStyle() lipgloss.Style    { return styles.T().S().Playing }
