package engine

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"logmedic/internal/catalog"
	"logmedic/internal/config"
	"logmedic/internal/fields"
	gh "logmedic/internal/github"
	"logmedic/internal/output"
	"logmedic/internal/rules"
	"logmedic/internal/update"
	"logmedic/internal/version"
)

func exitCodeForRun(fatal, partial, critical bool) int {
	// Exit code contract:
	// 0 = every input analysed, no critical notes
	// 1 = critical notes reported
	// 2 = partial failure (some inputs could not be loaded)
	// 3 = fatal error (analysis did not run)
	if fatal {
		return 3
	}
	if partial {
		return 2
	}
	if critical {
		return 1
	}
	return 0
}

type Engine struct {
	// Catalog verifies dumps against the reference catalog. Nil skips the check.
	Catalog *catalog.Checker
	// Updates dates the build against the latest release. Nil skips the lookup.
	Updates update.Checker
	Logger  *zap.Logger

	// Rules run in order; nil means every registered rule.
	Rules         []rules.Rule
	Thresholds    version.AgeThresholds
	SpecialMarker string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewEngine wires the catalog and update collaborators described by cfg.
// A nil client limits the engine to a local catalog and no update lookup.
func NewEngine(cfg *config.Config, client *gh.Client, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		Logger:        logger,
		Thresholds:    thresholdsFromConfig(cfg.Thresholds),
		SpecialMarker: cfg.Output.SpecialMarker,
	}

	if cfg.Catalog.Enabled {
		var source catalog.Source
		switch {
		case cfg.Catalog.LocalDir != "":
			source = catalog.DirSource{Dir: cfg.Catalog.LocalDir}
		case client != nil:
			source = &catalog.GitHubSource{
				Client: client,
				Owner:  cfg.Catalog.Owner,
				Repo:   cfg.Catalog.Repo,
				Ref:    cfg.Catalog.Ref,
				Dir:    cfg.Catalog.Path,
			}
		default:
			logger.Warn("catalog check disabled: no GitHub client and no local catalog directory")
		}
		if source != nil {
			e.Catalog = &catalog.Checker{
				Client: catalog.NewCachedClient(source,
					catalog.WithTTL(cfg.Catalog.CacheTTL),
					catalog.WithFetchTimeout(cfg.Catalog.Timeout),
					catalog.WithLogger(logger),
				),
				CacheDir: cfg.Catalog.CacheDir,
				Timeout:  cfg.Catalog.Timeout,
				Logger:   logger,
			}
		}
	}

	if cfg.Update.Enabled && client != nil {
		e.Updates = &update.GitHubChecker{Client: client, Owner: cfg.Update.Owner, Repo: cfg.Update.Repo}
	}
	return e
}

func thresholdsFromConfig(t config.Thresholds) version.AgeThresholds {
	return version.AgeThresholds{
		Prehistoric: t.Prehistoric,
		Ancient:     t.Ancient,
		VeryOld:     t.VeryOld,
		Old:         t.Old,
	}
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Engine) stdout() io.Writer {
	if e.Stdout == nil {
		return os.Stdout
	}
	return e.Stdout
}

func (e *Engine) stderr() io.Writer {
	if e.Stderr == nil {
		return os.Stderr
	}
	return e.Stderr
}

func (e *Engine) rules() []rules.Rule {
	if e.Rules == nil {
		return rules.List()
	}
	return e.Rules
}

// Analyze runs one analysis pass. It never fails: collaborator errors are
// logged and a panicking rule is skipped.
func (e *Engine) Analyze(ctx context.Context, in fields.Input) rules.Report {
	log := e.logger().With(zap.String("source", in.Source))

	p := rules.NewPass(in)
	if !e.Thresholds.IsZero() {
		p.Thresholds = e.Thresholds
	}

	if e.Catalog != nil {
		p.Verdict = e.Catalog.Check(ctx, p.Fields)
	}
	if e.Updates != nil {
		info, err := e.Updates.CheckForUpdate(ctx, p.Fields)
		if err != nil {
			log.Debug("update lookup failed", zap.Error(err))
		} else {
			p.Update = info
		}
	}

	// Enforce the rules contract: a rule reads only the fields it declared
	// in Fields(). Violations are reported, not fatal.
	base := p.Fields
	for _, r := range e.rules() {
		tracked := fields.NewTrackingReader(in.Fields)
		p.Fields = fields.NewView(tracked)
		e.evaluate(r, p, log)
		if undeclared := fields.Undeclared(tracked.AccessedKeys(), r.Fields()); len(undeclared) > 0 {
			log.Debug("rule read undeclared fields", zap.String("rule", r.ID()), zap.Strings("fields", undeclared))
		}
	}
	p.Fields = base

	return p.Report(e.SpecialMarker)
}

func (e *Engine) evaluate(r rules.Rule, p *rules.Pass, log *zap.Logger) {
	defer func() {
		if v := recover(); v != nil {
			log.Error("rule panicked", zap.String("rule", r.ID()), zap.Any("panic", v))
		}
	}()
	r.Evaluate(p)
}

func setupOutputManager(cfg *config.Config, stdout io.Writer) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console Sink
	if !cfg.Output.NoConsole {
		cs := output.NewConsoleSink(stdout, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterStatus)
		cs.SpecialMarker = cfg.Output.SpecialMarker
		cs.NoColor = cfg.Output.NoColor
		if err := outMgr.AddSink(cs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Emit Sinks (additional structured streams)
	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(stdout, emit)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(es); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Report Sink
	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report, cfg.Output.SpecialMarker)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(rs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

// applyRuleOptionsIfAny applies per-rule configuration supplied via repeated
// --set flags or the [rules] set list.
//
// --set values are parsed as "ruleID.option=value" and routed to the matching
// rule's Configure method (only rules that implement rules.ConfigurableRule).
//
// Example:
//
//	logmedic analyze run.yaml --set cpu-threads.min_threads=6
func applyRuleOptionsIfAny(cfg *config.Config) error {
	if len(cfg.Rules.Set) == 0 {
		return nil
	}

	assignments, err := config.ParseRuleOptionAssignments(cfg.Rules.Set)
	if err != nil {
		return err
	}

	for ruleID, opts := range assignments {
		r, ok := rules.Lookup(ruleID)
		if !ok {
			return fmt.Errorf("unknown rule ID %q", ruleID)
		}
		cr, ok := r.(rules.ConfigurableRule)
		if !ok {
			return fmt.Errorf("rule %q does not support options", ruleID)
		}

		allowed := make(map[string]struct{})
		for _, opt := range cr.Options() {
			allowed[opt.Name] = struct{}{}
		}
		for name := range opts {
			if _, ok := allowed[name]; !ok {
				return fmt.Errorf("unknown option %q for rule %q", name, ruleID)
			}
		}

		if err := cr.Configure(opts); err != nil {
			return fmt.Errorf("configure rule %q: %w", ruleID, err)
		}
	}

	return nil
}

func (e *Engine) resolveAndConfigureRules(cfg *config.Config) ([]rules.Rule, bool) {
	selectedRules, err := rules.Resolve(cfg.Rules.Selector)
	if err != nil {
		fmt.Fprintf(e.stderr(), "Error resolving rules: %v\n", err)
		return nil, false
	}

	if err := applyRuleOptionsIfAny(cfg); err != nil {
		fmt.Fprintf(e.stderr(), "Error configuring rules: %v\n", err)
		return nil, false
	}
	return selectedRules, true
}

// writeInOrder forwards streamed results to the sinks in command-line order,
// holding back results that finish early.
func writeInOrder(resCh <-chan InputResult, outMgr *output.Manager) (hasErrors bool, hasCritical bool) {
	pending := make(map[int]InputResult)
	next := 0

	write := func(res InputResult) {
		if res.Report.Failed() {
			hasErrors = true
		}
		if res.Report.Critical() > 0 {
			hasCritical = true
		}
		_ = outMgr.Write(res.Report)
	}

	for res := range resCh {
		pending[res.Index] = res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			write(r)
			next++
		}
	}

	// A cancelled run leaves gaps; flush what arrived, still in order.
	for len(pending) > 0 {
		if r, ok := pending[next]; ok {
			delete(pending, next)
			write(r)
		}
		next++
	}
	return hasErrors, hasCritical
}

// Run analyses every input and writes the reports to the configured sinks.
// It returns the process exit code.
func (e *Engine) Run(ctx context.Context, cfg *config.Config, paths []string) int {
	if len(paths) == 0 {
		fmt.Fprintln(e.stderr(), "Error: no input documents given")
		return exitCodeForRun(true, false, false)
	}

	selectedRules, ok := e.resolveAndConfigureRules(cfg)
	if !ok {
		return exitCodeForRun(true, false, false)
	}
	e.Rules = selectedRules

	outMgr, err := setupOutputManager(cfg, e.stdout())
	if err != nil {
		fmt.Fprintf(e.stderr(), "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, false, false)
	}
	defer outMgr.Close()

	scheduler, err := NewScheduler(e.Analyze, cfg.Runtime.Concurrency)
	if err != nil {
		fmt.Fprintf(e.stderr(), "Error: %v\n", err)
		return exitCodeForRun(true, false, false)
	}
	if e.Stdin != nil {
		scheduler.stdin = e.Stdin
	}

	_ = outMgr.Write(output.Event{Type: "run.started", Inputs: len(paths), Rules: len(selectedRules)})

	runCtx, cancel := context.WithTimeout(ctx, cfg.Runtime.Timeout)
	defer cancel()

	resCh, errCh := scheduler.Execute(runCtx, paths)
	hasErrors, hasCritical := writeInOrder(resCh, outMgr)

	var schedErr error
	// Drain scheduler errors; keep one non-nil error.
	for err := range errCh {
		if err != nil {
			schedErr = err
		}
	}
	if schedErr != nil {
		fmt.Fprintf(e.stderr(), "Error: analysis aborted: %v\n", schedErr)
	}

	code := exitCodeForRun(schedErr != nil, hasErrors, hasCritical)
	_ = outMgr.Write(output.Event{Type: "run.finished", ExitCode: code})
	return code
}
