package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"logmedic/internal/fields"
	"logmedic/internal/rules"
)

func echoAnalyze(_ context.Context, in fields.Input) rules.Report {
	return rules.Report{Source: in.Source, Status: rules.ParseStatus(in.Status)}
}

func collect(t *testing.T, s *Scheduler, ctx context.Context, paths []string) ([]InputResult, error) {
	t.Helper()
	resCh, errCh := s.Execute(ctx, paths)
	var results []InputResult
	timeout := time.After(5 * time.Second)
	for resCh != nil {
		select {
		case res, ok := <-resCh:
			if !ok {
				resCh = nil
				continue
			}
			results = append(results, res)
		case <-timeout:
			t.Fatal("timed out waiting for results channel to close")
		}
	}
	var err error
	for e := range errCh {
		if e != nil {
			err = e
		}
	}
	return results, err
}

func TestNewScheduler_Validation(t *testing.T) {
	if _, err := NewScheduler(nil, 1); err == nil {
		t.Fatal("expected error for nil analyze func")
	}
	if _, err := NewScheduler(echoAnalyze, 0); err == nil {
		t.Fatal("expected error for zero concurrency")
	}
}

func TestScheduler_Execute_NInputsExactlyNResults(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.yaml", "b.yaml", "c.yaml", "d.yaml", "e.yaml"} {
		paths = append(paths, writeDoc(t, dir, name, "status: Ingame\n"))
	}
	paths = append(paths, filepath.Join(dir, "missing.yaml"))

	s, err := NewScheduler(echoAnalyze, 2)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	results, err := collect(t, s, context.Background(), paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("want %d results, got %d", len(paths), len(results))
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	for i, res := range results {
		if res.Index != i || res.Path != paths[i] || res.Report.Source != paths[i] {
			t.Fatalf("result %d mismatched: %+v", i, res)
		}
	}
	last := results[len(results)-1].Report
	if !last.Failed() || last.Status != rules.StatusUnknown || !strings.Contains(last.Error, "open input") {
		t.Fatalf("expected load failure for missing file, got %+v", last)
	}
	if results[0].Report.Status != rules.StatusIngame {
		t.Fatalf("expected decoded status, got %s", results[0].Report.Status)
	}
}

func TestScheduler_Execute_RespectsConcurrencyLimit(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.yaml", "b.yaml", "c.yaml", "d.yaml", "e.yaml", "f.yaml", "g.yaml", "h.yaml"} {
		paths = append(paths, writeDoc(t, dir, name, ""))
	}

	var running, peak atomic.Int32
	analyze := func(ctx context.Context, in fields.Input) rules.Report {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return echoAnalyze(ctx, in)
	}

	s, err := NewScheduler(analyze, 3)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	results, err := collect(t, s, context.Background(), paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("want %d results, got %d", len(paths), len(results))
	}
	if got := peak.Load(); got > 3 {
		t.Fatalf("peak concurrency %d exceeds limit 3", got)
	}
}

func TestScheduler_Execute_Stdin(t *testing.T) {
	s, err := NewScheduler(echoAnalyze, 1)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	s.stdin = strings.NewReader("status: Intro\n")

	results, err := collect(t, s, context.Background(), []string{StdinPath})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Report.Source != "stdin" || results[0].Report.Status != rules.StatusIntro {
		t.Fatalf("unexpected stdin result: %+v", results)
	}
}

func TestScheduler_Execute_FatalErrors(t *testing.T) {
	s, err := NewScheduler(echoAnalyze, 1)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	results, err := collect(t, s, context.Background(), []string{StdinPath, "x.yaml", StdinPath})
	if err == nil || !strings.Contains(err.Error(), "standard input") {
		t.Fatalf("expected stdin error, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}

	var nilScheduler *Scheduler
	if _, err := collect(t, nilScheduler, context.Background(), []string{"x.yaml"}); err == nil {
		t.Fatal("expected error for nil scheduler")
	}
}

func TestScheduler_Execute_CancellationStopsPromptly(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 50; i++ {
		paths = append(paths, writeDoc(t, dir, fmt.Sprintf("in%02d.yaml", i), ""))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var started atomic.Int32
	analyze := func(ctx context.Context, in fields.Input) rules.Report {
		if started.Add(1) == 1 {
			cancel()
		}
		<-ctx.Done()
		return echoAnalyze(ctx, in)
	}

	s, err := NewScheduler(analyze, 2)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	start := time.Now()
	results, err := collect(t, s, ctx, paths)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) >= len(paths) {
		t.Fatalf("expected cancellation to stop scheduling, got %d results", len(results))
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("cancellation took too long: %s", elapsed)
	}
}
