package media

// Phase is the adapter's view of the element lifecycle.
//
//	Idle → Loading → Ready → Playing ⇄ Paused → Ended
//
// Buffering is tracked separately and may accompany Playing or Paused.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhasePlaying
	PhasePaused
	PhaseEnded
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseLoading:
		return "Loading"
	case PhaseReady:
		return "Ready"
	case PhasePlaying:
		return "Playing"
	case PhasePaused:
		return "Paused"
	case PhaseEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a source is loaded and playable.
func (p Phase) IsActive() bool {
	return p == PhaseReady || p == PhasePlaying || p == PhasePaused || p == PhaseEnded
}
