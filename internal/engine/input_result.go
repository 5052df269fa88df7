package engine

import "logmedic/internal/rules"

// InputResult is the outcome of loading and analysing one input document.
//
// It is emitted by the scheduler and consumed by the engine during
// streaming batch execution.
type InputResult struct {
	// Index is the position of the input on the command line.
	Index  int
	Path   string
	Report rules.Report
}
