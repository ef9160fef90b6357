// Package keymap defines the player's key bindings and resolves key
// presses to actions.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	ActionQuit        Action = "quit"
	ActionSwitchFocus Action = "switch_focus"
	ActionToggleView  Action = "toggle_view"

	ActionPlayPause   Action = "play_pause"
	ActionNext        Action = "next"
	ActionPrevious    Action = "previous"
	ActionSeekBack    Action = "seek_back"
	ActionSeekForward Action = "seek_forward"
	ActionVolumeUp    Action = "volume_up"
	ActionVolumeDown  Action = "volume_down"
	ActionMute        Action = "mute"
	ActionShuffle     Action = "shuffle"
	ActionRepeat      Action = "repeat"

	ActionRemoveCurrent Action = "remove_current"
	ActionClearQueue    Action = "clear_queue"
)

// Contexts.
const (
	ContextGlobal = "global"
	ContextQueue  = "queue"
)
