package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"logmedic/internal/fields"
	"logmedic/internal/rules"
)

// StdinPath names standard input on the command line.
const StdinPath = "-"

// AnalyzeFunc runs one analysis pass.
type AnalyzeFunc func(ctx context.Context, in fields.Input) rules.Report

type Scheduler struct {
	analyze     AnalyzeFunc
	concurrency int
	stdin       io.Reader
}

func NewScheduler(analyze AnalyzeFunc, concurrency int) (*Scheduler, error) {
	if analyze == nil {
		return nil, errors.New("analyze func is nil")
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}
	return &Scheduler{analyze: analyze, concurrency: concurrency, stdin: os.Stdin}, nil
}

// Execute streams one InputResult per path as each analysis completes.
//
// Channel semantics:
//   - In the normal (non-canceled) case, exactly one InputResult is sent per path.
//     Inputs that fail to load still produce a result, with Report.Error set.
//   - On context cancellation, the scheduler stops promptly; it may emit fewer results.
//   - The results channel and error channel are both closed reliably.
//   - The error channel carries fatal errors and cancellation only.
func (s *Scheduler) Execute(ctx context.Context, paths []string) (<-chan InputResult, <-chan error) {
	resultsCh := make(chan InputResult)
	errCh := make(chan error, 1)

	go func() {
		defer close(resultsCh)
		defer close(errCh)

		trySendErr := func(err error) {
			if err == nil {
				return
			}
			select {
			case errCh <- err:
			default:
			}
		}

		if ctx == nil {
			trySendErr(errors.New("context is nil"))
			return
		}
		if s == nil || s.analyze == nil {
			trySendErr(errors.New("scheduler is nil"))
			return
		}
		if countStdin(paths) > 1 {
			trySendErr(errors.New("standard input can be analysed only once per run"))
			return
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)

	scheduleLoop:
		for i, path := range paths {
			if gctx.Err() != nil {
				break
			}
			// Go blocks while the limit is reached; a cancelled run stops
			// handing out new inputs.
			g.Go(func() error {
				if gctx.Err() != nil {
					return nil
				}
				res := InputResult{Index: i, Path: path}
				in, err := s.load(path)
				if err != nil {
					res.Report = rules.Report{Source: path, Status: rules.StatusUnknown, Error: err.Error()}
				} else {
					res.Report = s.analyze(gctx, in)
				}
				select {
				case resultsCh <- res:
				case <-gctx.Done():
				}
				return nil
			})
			select {
			case <-gctx.Done():
				break scheduleLoop
			default:
			}
		}

		_ = g.Wait()
		trySendErr(ctx.Err())
	}()

	return resultsCh, errCh
}

func (s *Scheduler) load(path string) (fields.Input, error) {
	if path == StdinPath {
		return fields.Decode("stdin", s.stdin)
	}
	return fields.Load(path)
}

func countStdin(paths []string) int {
	n := 0
	for _, p := range paths {
		if p == StdinPath {
			n++
		}
	}
	return n
}
