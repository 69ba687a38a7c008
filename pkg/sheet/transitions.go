package sheet

// Transition is a legal move between resting states.
type Transition struct {
	From State
	To   State
}

// Transitions returns every resting-state transition the dialog performs.
// Closed is only a target when minimizing is disabled.
func Transitions() []Transition {
	return []Transition{
		// From closed
		{From: StateClosed, To: StateOpen},
		{From: StateClosed, To: StateMinimized},

		// From open
		{From: StateOpen, To: StateMinimized},
		{From: StateOpen, To: StateClosed},

		// From minimized
		{From: StateMinimized, To: StateOpen},
		{From: StateMinimized, To: StateClosed},
	}
}

// TransitionName returns a human-readable name for the transition.
func TransitionName(from, to State) string {
	switch {
	case from == to:
		return "stay"
	case from == StateMinimized && to == StateOpen:
		return "expand"
	case from == StateClosed && to == StateOpen:
		return "open"
	case to == StateMinimized:
		return "minimize"
	case from == StateMinimized && to == StateClosed:
		return "dismiss"
	case to == StateClosed:
		return "close"
	default:
		return from.String() + " → " + to.String()
	}
}

// CanTransition reports whether from → to is in the transition table.
func CanTransition(from, to State) bool {
	for _, t := range Transitions() {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}
