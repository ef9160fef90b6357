package player

// State is the transport state of the element.
//
//	Stopped ──load──▶ Paused ◀──pause/play──▶ Playing
//	   ▲                 │                       │
//	   └──────stop───────┴──────stop/ended───────┘
//
// A freshly loaded source starts Paused; the caller decides when audio
// begins.
type State int

const (
	Stopped State = iota
	Paused
	Playing
)

var stateNames = [...]string{"stopped", "paused", "playing"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// loaded reports whether a source is attached.
func (s State) loaded() bool {
	return s != Stopped
}
