package keymap

import (
	"fmt"
	"strings"
)

// Binding maps keys to an action. Bindings without an action are
// documentation only; the focused component handles those keys itself.
type Binding struct {
	Keys        []string
	Action      Action
	Description string
	Context     string
}

// All contains every key binding, in help order.
var All = []Binding{
	{[]string{"space", " "}, ActionPlayPause, "Play/pause", ContextGlobal},
	{[]string{"n"}, ActionNext, "Next track", ContextGlobal},
	{[]string{"p"}, ActionPrevious, "Previous track", ContextGlobal},
	{[]string{"left"}, ActionSeekBack, "Seek -5s", ContextGlobal},
	{[]string{"right"}, ActionSeekForward, "Seek +5s", ContextGlobal},
	{[]string{"+", "="}, ActionVolumeUp, "Volume up", ContextGlobal},
	{[]string{"-"}, ActionVolumeDown, "Volume down", ContextGlobal},
	{[]string{"m"}, ActionMute, "Mute", ContextGlobal},
	{[]string{"s"}, ActionShuffle, "Toggle shuffle", ContextGlobal},
	{[]string{"r"}, ActionRepeat, "Cycle repeat mode", ContextGlobal},
	{[]string{"x"}, ActionRemoveCurrent, "Remove the current track", ContextGlobal},
	{[]string{"c"}, ActionClearQueue, "Clear the queue", ContextGlobal},
	{[]string{"tab"}, ActionSwitchFocus, "Focus the queue", ContextGlobal},
	{[]string{"v"}, ActionToggleView, "Compact/expanded player bar", ContextGlobal},
	{[]string{"q", "ctrl+c"}, ActionQuit, "Quit", ContextGlobal},

	{[]string{"j", "down"}, "", "Move down", ContextQueue},
	{[]string{"k", "up"}, "", "Move up", ContextQueue},
	{[]string{"g", "home"}, "", "First entry", ContextQueue},
	{[]string{"G", "end"}, "", "Last entry", ContextQueue},
	{[]string{"enter"}, "", "Play entry", ContextQueue},
	{[]string{"d", "delete"}, "", "Remove entry", ContextQueue},
	{[]string{"J", "shift+down"}, "", "Move entry down", ContextQueue},
	{[]string{"K", "shift+up"}, "", "Move entry up", ContextQueue},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Help renders the bindings of a context as aligned "keys  description"
// lines. The raw " " alias is not shown.
func Help(context string) string {
	bindings := ByContext(context)
	labels := make([]string, len(bindings))
	width := 0
	for i, b := range bindings {
		var keys []string
		for _, k := range b.Keys {
			if k != " " {
				keys = append(keys, k)
			}
		}
		labels[i] = strings.Join(keys, ", ")
		width = max(width, len(labels[i]))
	}

	var sb strings.Builder
	for i, b := range bindings {
		fmt.Fprintf(&sb, "  %-*s  %s\n", width, labels[i], b.Description)
	}
	return sb.String()
}
