package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

// ReportSink writes a Markdown summary of the whole run on Close.
type ReportSink struct {
	path          string
	file          *os.File
	specialMarker string

	mu           sync.Mutex
	reports      []rules.Report
	exitCode     int
	haveExitCode bool
}

func NewReportSink(path string, specialMarker string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}

	f, err := createWithDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	return &ReportSink{
		path:          path,
		file:          f,
		specialMarker: specialMarker,
	}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch t := v.(type) {
	case rules.Report:
		s.reports = append(s.reports, t)
	case Event:
		if t.Type == "run.finished" {
			s.exitCode = t.ExitCode
			s.haveExitCode = true
		}
	}
	return nil
}

// reportStats counts one report's notes by display group.
type reportStats struct {
	Critical int
	Warning  int
	Age      int // prehistoric through old
	Other    int
}

func statsFor(r rules.Report) reportStats {
	var st reportStats
	for _, n := range r.Notes {
		switch {
		case n.Severity == notes.Critical:
			st.Critical++
		case n.Severity == notes.Warning:
			st.Warning++
		case n.Severity >= notes.Prehistoric && n.Severity <= notes.Old:
			st.Age++
		default:
			st.Other++
		}
	}
	return st
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.WriteString(s.render()); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}

func (s *ReportSink) render() string {
	var analysed, failed []rules.Report
	for _, r := range s.reports {
		if r.Failed() {
			failed = append(failed, r)
		} else {
			analysed = append(analysed, r)
		}
	}

	byStatus := make(map[rules.Status]int)
	withCritical := 0
	for _, r := range analysed {
		byStatus[r.Status]++
		if r.Critical() > 0 {
			withCritical++
		}
	}

	var b strings.Builder
	b.WriteString("# LogMedic Report\n\n")

	// --- Summary ---
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Inputs: %d\n", len(s.reports))
	fmt.Fprintf(&b, "- Analysed: %d\n", len(analysed))
	fmt.Fprintf(&b, "- With critical notes: %d\n", withCritical)
	fmt.Fprintf(&b, "- Could not be analysed: %d\n", len(failed))
	if s.haveExitCode {
		fmt.Fprintf(&b, "- Exit code: %d\n", s.exitCode)
	}
	if len(byStatus) > 0 {
		statuses := make([]rules.Status, 0, len(byStatus))
		for st := range byStatus {
			statuses = append(statuses, st)
		}
		sort.Slice(statuses, func(i, j int) bool { return statuses[i].Worse(statuses[j]) })
		parts := make([]string, 0, len(statuses))
		for _, st := range statuses {
			parts = append(parts, fmt.Sprintf("%s %d", st, byStatus[st]))
		}
		fmt.Fprintf(&b, "- Status breakdown: %s\n", strings.Join(parts, ", "))
	}
	b.WriteString("\n")

	// --- Per-input table ---
	b.WriteString("## Per-input status\n\n")
	if len(s.reports) == 0 {
		b.WriteString("No inputs.\n\n")
	} else {
		b.WriteString("| Input | Status | Critical | Warning | Build age | Other |\n")
		b.WriteString("| --- | --- | ---: | ---: | ---: | ---: |\n")
		for _, r := range s.reports {
			if r.Failed() {
				fmt.Fprintf(&b, "| %s | error | - | - | - | - |\n", escapeCell(r.Source))
				continue
			}
			st := statsFor(r)
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %d |\n",
				escapeCell(r.Source), r.Status, st.Critical, st.Warning, st.Age, st.Other)
		}
		b.WriteString("\n")
	}

	// --- Critical findings ---
	b.WriteString("## Critical findings\n\n")
	if withCritical == 0 {
		b.WriteString("- None\n\n")
	} else {
		for _, r := range analysed {
			if r.Critical() == 0 {
				continue
			}
			fmt.Fprintf(&b, "### %s\n", r.Source)
			for _, n := range r.Notes {
				if n.Severity == notes.Critical {
					fmt.Fprintf(&b, "- %s\n", n.Line(s.specialMarker))
				}
			}
			b.WriteString("\n")
		}
	}

	// --- Errors ---
	b.WriteString("## Errors\n\n")
	if len(failed) == 0 {
		b.WriteString("- None\n\n")
	} else {
		for _, r := range failed {
			fmt.Fprintf(&b, "- **%s**: %s\n", r.Source, r.Error)
		}
		b.WriteString("\n")
	}

	// --- Details ---
	b.WriteString("## Details\n\n")
	if len(analysed) == 0 {
		b.WriteString("- None\n\n")
	}
	for _, r := range analysed {
		fmt.Fprintf(&b, "### %s (%s)\n\n", r.Source, r.Status)
		if r.FatalError != "" {
			fmt.Fprintf(&b, "Fatal error:\n\n```\n%s\n```\n\n", r.FatalError)
		}
		if len(r.Notes) == 0 {
			b.WriteString("No issues found.\n\n")
		} else {
			for _, n := range notes.Sort(r.Notes) {
				fmt.Fprintf(&b, "- %s\n", n.Line(s.specialMarker))
			}
			b.WriteString("\n")
		}
		if len(r.MissingLicenses) > 0 {
			fmt.Fprintf(&b, "Missing licenses: %s\n\n", strings.Join(r.MissingLicenses, ", "))
		}
		if len(r.Skipped) > 0 {
			ids := make([]string, 0, len(r.Skipped))
			for id := range r.Skipped {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			b.WriteString("Skipped rules:\n")
			for _, id := range ids {
				fmt.Fprintf(&b, "- %s (%s)\n", id, r.Skipped[id])
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
