package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

var severityColors = map[notes.Severity]color.Attribute{
	notes.Critical:     color.FgRed,
	notes.Warning:      color.FgYellow,
	notes.Prehistoric:  color.FgMagenta,
	notes.Ancient:      color.FgMagenta,
	notes.VeryOld:      color.FgMagenta,
	notes.Old:          color.FgMagenta,
	notes.Info:         color.FgCyan,
	notes.Confirmation: color.FgGreen,
	notes.Special:      color.FgBlue,
}

type ConsoleSink struct {
	writer          io.Writer
	format          string // "text", "json", "ndjson"
	mu              sync.Mutex
	reports         []rules.Report // For JSON array output
	allowedStatuses map[rules.Status]bool

	// SpecialMarker replaces the marker of special notes in text mode.
	SpecialMarker string
	NoColor       bool
}

func NewConsoleSink(w io.Writer, format string, filterStatuses []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
	}

	if len(filterStatuses) > 0 {
		s.allowedStatuses = make(map[rules.Status]bool)
		for _, st := range filterStatuses {
			s.allowedStatuses[rules.ParseStatus(st)] = true
		}
	}

	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if s.NoColor {
		c.DisableColor()
	}
	return c
}

func (s *ConsoleSink) writeLocked(v any) error {
	// Apply filtering if configured
	if len(s.allowedStatuses) > 0 {
		if r, ok := v.(rules.Report); ok {
			if !s.allowedStatuses[r.Status] {
				return nil
			}
		}
	}

	switch s.format {
	case "json":
		r, ok := v.(rules.Report)
		if !ok {
			// Ignore lifecycle events in JSON console mode.
			return nil
		}
		s.reports = append(s.reports, r)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case rules.Report:
			if err := encoder.Encode(eventFromReport(t)); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	case "text":
		r, ok := v.(rules.Report)
		if !ok {
			// Ignore events in text mode.
			return nil
		}
		if err := s.writeText(r); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) writeText(r rules.Report) error {
	var b strings.Builder
	bold := s.paint(color.Bold)
	if r.Failed() {
		b.WriteString(bold.Sprintf("== %s [error]", r.Source))
		b.WriteString("\n")
		b.WriteString(s.paint(color.FgRed).Sprint(r.Error))
		b.WriteString("\n\n")
		_, err := io.WriteString(s.writer, b.String())
		return err
	}

	b.WriteString(bold.Sprintf("== %s [%s]", r.Source, r.Status))
	b.WriteString("\n")
	if r.FatalError != "" {
		fmt.Fprintf(&b, "Fatal error: %s\n", r.FatalError)
	}
	for _, n := range notes.Sort(r.Notes) {
		line := n.Line(s.SpecialMarker)
		if attr, ok := severityColors[n.Severity]; ok {
			line = s.paint(attr).Sprint(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(r.Notes) == 0 {
		b.WriteString("No issues found\n")
	}
	if len(r.MissingLicenses) > 0 {
		fmt.Fprintf(&b, "Missing licenses: %s\n", strings.Join(r.MissingLicenses, ", "))
	}
	b.WriteString("\n")
	_, err := io.WriteString(s.writer, b.String())
	return err
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(nonNilReports(s.reports)); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}

// nonNilReports keeps an empty aggregate encoded as [] rather than null.
func nonNilReports(reports []rules.Report) []rules.Report {
	if reports == nil {
		return []rules.Report{}
	}
	return reports
}
