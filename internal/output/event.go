package output

import (
	"io"

	"logmedic/internal/rules"
)

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line):
// - run.started
// - input.report
// - run.finished
//
// JSON mode remains an aggregate of rules.Report values.
type Event struct {
	Type   string `json:"type"`
	Source string `json:"source,omitempty"`
	*rules.Report
	Inputs   int `json:"inputs,omitempty"`
	Rules    int `json:"rules,omitempty"`
	ExitCode int `json:"exit_code,omitempty"`
}

func eventFromReport(r rules.Report) Event {
	return Event{Type: "input.report", Source: r.Source, Report: &r}
}

type flusher interface {
	Flush() error
}

func flushIfPossible(w io.Writer) error {
	f, ok := w.(flusher)
	if !ok {
		return nil
	}
	return f.Flush()
}
