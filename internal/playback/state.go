package playback

// State is the coarse playback state.
//
//	Stopped --play--> Playing --pause--> Paused
//	   ^                 |                  |
//	   +------stop-------+-------stop-------+
//
// A failed play always lands in Stopped.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "PLAYING"
	case Paused:
		return "PAUSED"
	default:
		return "STOPPED"
	}
}

// Snapshot is a copy of the machine's observable state.
type Snapshot struct {
	Index   int
	Playing bool
	Paused  bool
	Shuffle bool
}

// State derives the coarse state from the flags.
func (s Snapshot) State() State {
	switch {
	case s.Playing && s.Paused:
		return Paused
	case s.Playing:
		return Playing
	default:
		return Stopped
	}
}
