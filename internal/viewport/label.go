package viewport

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// Truncate shortens name to at most width terminal cells. Names that need
// cutting end in "..." when there is room for more than the ellipsis.
func Truncate(name string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(name) <= width {
		return name
	}
	if width <= len(ellipsis) {
		return runewidth.Truncate(name, width, "")
	}
	return runewidth.Truncate(name, width, ellipsis)
}

// Label strips control characters from a file name and truncates it.
func Label(name string, width int) string {
	return Truncate(sanitize(name), width)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
