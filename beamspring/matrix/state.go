package matrix

// State is the mutable per-cycle data of the scan loop.
//
// Snapshot holds the latest sample of every position. Counters holds the debounce
// counter of every position: zero is settled released, n > 0 is pressed with n
// below-threshold samples still required before the release is reported.
//
// A State belongs to exactly one control loop and is not safe for concurrent use.
type State struct {
	Snapshot []uint16
	Counters []uint8
}

// NewState allocates a zeroed State sized for l.
func NewState(l *Layout) *State {
	n := l.Positions()
	return &State{
		Snapshot: make([]uint16, n),
		Counters: make([]uint8, n),
	}
}

// Reset returns every key to settled released, as after a cold start.
func (s *State) Reset() {
	for i := range s.Counters {
		s.Counters[i] = 0
	}
	for i := range s.Snapshot {
		s.Snapshot[i] = 0
	}
}

// Held reports whether k currently has a positive debounce counter.
func (s *State) Held(k KeyIndex) bool {
	return int(k) < len(s.Counters) && s.Counters[k] > 0
}
