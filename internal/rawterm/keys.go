package rawterm

import "github.com/olivier-w/aerial/internal/control"

const (
	keyEsc   = 0x1b
	keyCtrlC = 0x03
)

// decode consumes one key from buf. ok is false when buf holds nothing
// usable yet; otherwise n bytes were consumed and cmd may be None for keys
// without a binding.
func decode(buf []byte) (cmd control.Command, n int, ok bool) {
	if len(buf) == 0 {
		return control.None, 0, false
	}

	switch b := buf[0]; b {
	case keyEsc:
		return decodeEscape(buf)
	case '\r':
		if len(buf) > 1 && buf[1] == '\n' {
			return control.ConfirmPlaySelected, 2, true
		}
		return control.ConfirmPlaySelected, 1, true
	case '\n':
		return control.ConfirmPlaySelected, 1, true
	case ' ':
		return control.TogglePause, 1, true
	case 'n', 'N':
		return control.NextTrack, 1, true
	case 'p', 'P':
		return control.PrevTrack, 1, true
	case 's', 'S':
		return control.ToggleShuffle, 1, true
	case 'k':
		return control.MoveSelectionUp, 1, true
	case 'j':
		return control.MoveSelectionDown, 1, true
	case 'q', 'Q', keyCtrlC:
		return control.Quit, 1, true
	default:
		return control.None, 1, true
	}
}

// decodeEscape handles ESC [ A / ESC O A style arrows. Other CSI sequences
// are consumed whole and ignored. A lone ESC is the Esc key and quits, as in
// the tea back end; ESC before any other byte is an alt chord and ignored.
func decodeEscape(buf []byte) (control.Command, int, bool) {
	if len(buf) < 2 {
		return control.Quit, 1, true
	}
	if buf[1] != '[' && buf[1] != 'O' {
		return control.None, 2, true
	}
	for i := 2; i < len(buf); i++ {
		final := buf[i]
		if final < 0x40 || final > 0x7e {
			continue
		}
		switch {
		case i == 2 && final == 'A':
			return control.MoveSelectionUp, 3, true
		case i == 2 && final == 'B':
			return control.MoveSelectionDown, 3, true
		default:
			return control.None, i + 1, true
		}
	}
	// Unterminated sequence: drop what we have.
	return control.None, len(buf), true
}
