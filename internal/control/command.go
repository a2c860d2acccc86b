package control

// Command is one user intent read from a back end.
type Command int

const (
	None Command = iota
	MoveSelectionUp
	MoveSelectionDown
	ConfirmPlaySelected
	TogglePause
	NextTrack
	PrevTrack
	ToggleShuffle
	Quit
)

var commandNames = [...]string{
	None:                "none",
	MoveSelectionUp:     "up",
	MoveSelectionDown:   "down",
	ConfirmPlaySelected: "play",
	TogglePause:         "pause",
	NextTrack:           "next",
	PrevTrack:           "prev",
	ToggleShuffle:       "shuffle",
	Quit:                "quit",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[c]
}
