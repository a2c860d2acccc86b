package ui

import (
	"fmt"

	"github.com/olivier-w/aerial/internal/control"
)

// Frame layout shared by both terminal back ends.
const (
	// HeaderRows counts the header, now playing, help and separator lines.
	HeaderRows = 4
	// FooterRows is the error line under the list.
	FooterRows = 1
	// RowPrefixWidth covers "> ▶ 1234. " in front of every label.
	RowPrefixWidth = 10

	indent = "  "
)

// HelpText is the plain key summary for back ends without bubbles/help.
const HelpText = "↑/↓ navigate  enter play  space pause  n/p next/prev  s shuffle  q quit"

// FrameBounds converts a terminal size into the label width and list row
// budget left after the frame's own lines.
func FrameBounds(width, height int) control.Bounds {
	return control.Bounds{
		Width: max(0, width-len(indent)-RowPrefixWidth),
		Rows:  max(0, height-HeaderRows-FooterRows),
	}
}

func shuffleText(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func renderHeader(v control.View) string {
	return headerStyle.Render("aerial") + statusStyle.Render(fmt.Sprintf("  |  %-7s  |  Shuffle: %s  |  Track %d/%d",
		v.Status, shuffleText(v.Shuffle), v.Position, v.Total))
}

func renderNowPlaying(v control.View) string {
	return statusStyle.Render("Now: ") + titleStyle.Render(v.Current)
}

func renderRow(r control.Row) string {
	cursor := " "
	if r.Selected {
		cursor = ">"
	}
	marker := " "
	if r.Playing {
		marker = "▶"
	}

	style := rowStyle
	if r.Current {
		style = currentRowStyle
	}
	if r.Selected {
		style = style.Reverse(true)
	}
	return style.Render(fmt.Sprintf("%s %s %4d. %s", cursor, marker, r.Index+1, r.Label))
}

// Lines renders a whole frame, one string per terminal line. help is the
// rendered key summary.
func Lines(v control.View, help string, width int) []string {
	lines := make([]string, 0, HeaderRows+len(v.Rows)+FooterRows)
	lines = append(lines,
		indent+renderHeader(v),
		indent+renderNowPlaying(v),
		indent+helpStyle.Render(help),
		indent+helpStyle.Render(separator(width-len(indent))),
	)
	for _, r := range v.Rows {
		lines = append(lines, indent+renderRow(r))
	}
	errLine := ""
	if v.Error != "" {
		errLine = indent + errorStyle.Render("error: "+v.Error)
	}
	return append(lines, errLine)
}

func separator(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]rune, n)
	for i := range b {
		b[i] = '─'
	}
	return string(b)
}
