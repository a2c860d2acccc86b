// Package viewport decides which slice of the track list is visible and how
// long labels are shortened to fit.
package viewport

import "github.com/samber/lo"

// Window is the half-open range [Start, End) of visible list rows.
type Window struct {
	Start int
	End   int
}

// Len returns the number of visible rows.
func (w Window) Len() int {
	return w.End - w.Start
}

// Compute returns the window of at most budget rows out of total that keeps
// selected roughly centred. It never scrolls past either end.
func Compute(selected, total, budget int) Window {
	if budget <= 0 || total <= 0 {
		return Window{}
	}
	if total <= budget {
		return Window{Start: 0, End: total}
	}
	start := lo.Clamp(selected-budget/2, 0, total-budget)
	return Window{Start: start, End: start + budget}
}
