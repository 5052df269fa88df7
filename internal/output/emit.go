package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"logmedic/internal/rules"
)

// EmitSink writes an additional structured stream next to the console.
//
// Formats:
//   - json: aggregates reports and writes a single JSON array on Close
//   - ndjson: streams Event values (one JSON object per line)
type EmitSink struct {
	writer  io.Writer
	format  string // "json" | "ndjson"
	mu      sync.Mutex
	reports []rules.Report
}

func NewEmitSink(w io.Writer, format string) (*EmitSink, error) {
	if w == nil {
		return nil, fmt.Errorf("emit sink writer must not be nil")
	}
	if format != "json" && format != "ndjson" {
		return nil, fmt.Errorf("unsupported emit format: %s", format)
	}
	return &EmitSink{writer: w, format: format}, nil
}

func (s *EmitSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		if r, ok := v.(rules.Report); ok {
			s.reports = append(s.reports, r)
		}
		return nil
	}

	var e Event
	switch t := v.(type) {
	case Event:
		e = t
	case rules.Report:
		e = eventFromReport(t)
	default:
		return nil
	}
	if err := json.NewEncoder(s.writer).Encode(e); err != nil {
		return err
	}
	return flushIfPossible(s.writer)
}

func (s *EmitSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format != "json" {
		return nil
	}
	encoder := json.NewEncoder(s.writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(nonNilReports(s.reports)); err != nil {
		return err
	}
	return flushIfPossible(s.writer)
}
