package ui

import "github.com/olivier-w/aerial/internal/control"

// viewMsg carries a frame from the control loop into the program.
type viewMsg control.View
