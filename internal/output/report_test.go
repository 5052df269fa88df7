package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

func writeReport(t *testing.T, values ...any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out", "report.md")
	s, err := NewReportSink(path, "*")
	if err != nil {
		t.Fatalf("NewReportSink error: %v", err)
	}
	for _, v := range values {
		if err := s.Write(v); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	return string(data)
}

func TestReportSink(t *testing.T) {
	clean := rules.Report{Source: "clean.yaml", Status: rules.StatusPlayable}
	skipped := rules.Report{
		Source:          "allowed|pipe.yaml",
		Status:          rules.StatusNothing,
		Notes:           []notes.Note{notes.New(notes.Warning, "Please make sure you've selected the right game")},
		MissingLicenses: []string{"EP0001.rap"},
		Skipped:         map[string]string{"known-game-hints": "allow.serials=BLUS30443"},
		FatalError:      "Verification failed",
	}

	got := writeReport(t,
		Event{Type: "run.started"},
		sampleReport("a.yaml"),
		clean,
		failedReport("missing.yaml"),
		skipped,
		Event{Type: "run.finished", ExitCode: 2},
	)

	for _, want := range []string{
		"# LogMedic Report",
		"- Inputs: 4\n",
		"- Analysed: 3\n",
		"- With critical notes: 1\n",
		"- Could not be analysed: 1\n",
		"- Exit code: 2\n",
		"- Status breakdown: Nothing 1, Ingame 1, Playable 1\n",
		"| a.yaml | Ingame | 1 | 0 | 1 | 2 |",
		"| clean.yaml | Playable | 0 | 0 | 0 | 0 |",
		"| missing.yaml | error | - | - | - | - |",
		`| allowed\|pipe.yaml | Nothing | 0 | 1 | 0 | 0 |`,
		"## Critical findings\n\n### a.yaml\n- ❌ Unsupported GPU\n",
		"- **missing.yaml**: open input: no such file",
		"### a.yaml (Ingame)\n\n- ❌ Unsupported GPU\n- ❗ This RPCS3 build",
		"- * Custom build",
		"### clean.yaml (Playable)\n\nNo issues found.",
		"Fatal error:\n\n```\nVerification failed\n```",
		"Missing licenses: EP0001.rap",
		"- known-game-hints (allow.serials=BLUS30443)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q\n---\n%s", want, got)
		}
	}
}

func TestReportSink_Empty(t *testing.T) {
	got := writeReport(t)
	for _, want := range []string{"- Inputs: 0", "No inputs.", "## Critical findings\n\n- None", "## Errors\n\n- None"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q\n---\n%s", want, got)
		}
	}
	if strings.Contains(got, "Exit code") {
		t.Errorf("exit code must be omitted without run.finished\n%s", got)
	}
}

func TestNewReportSink_RequiresPath(t *testing.T) {
	if _, err := NewReportSink("", ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
