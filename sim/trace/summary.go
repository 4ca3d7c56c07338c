package trace

// Summary condenses a trace into counts suitable for logging or comparing
// two runs cheaply.
type Summary struct {
	Executed int
	Skipped  int
	Advances int
	// EndClock is the virtual time of the last recorded activity.
	EndClock int64
}

// Summarize walks the trace once and returns its Summary.
func (et *ExecutionTrace) Summarize() Summary {
	var s Summary
	for _, r := range et.Callbacks {
		switch r.Kind {
		case KindSkipped:
			s.Skipped++
		default:
			s.Executed++
		}
		if r.Clock > s.EndClock {
			s.EndClock = r.Clock
		}
	}
	s.Advances = len(et.Advances)
	for _, a := range et.Advances {
		if a.To > s.EndClock {
			s.EndClock = a.To
		}
	}
	return s
}

// Equal reports whether two traces recorded the same execution.
func (et *ExecutionTrace) Equal(other *ExecutionTrace) bool {
	if len(et.Callbacks) != len(other.Callbacks) || len(et.Advances) != len(other.Advances) {
		return false
	}
	for i, r := range et.Callbacks {
		if other.Callbacks[i] != r {
			return false
		}
	}
	for i, a := range et.Advances {
		if other.Advances[i] != a {
			return false
		}
	}
	return true
}
