package checks

import (
	"fmt"
	"strconv"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

const defaultMinThreads = 4

type CPUThreadsRule struct {
	minThreads int
}

func (r *CPUThreadsRule) ID() string {
	return "cpu-threads"
}

func (r *CPUThreadsRule) Title() string {
	return "CPU Thread Count"
}

func (r *CPUThreadsRule) Description() string {
	return "Warns when the CPU exposes fewer hardware threads than emulation needs."
}

func (r *CPUThreadsRule) Fields() []string {
	return []string{fields.ThreadCount}
}

func (r *CPUThreadsRule) Options() []rules.Option {
	return []rules.Option{
		{
			Name:        "min_threads",
			Description: "Hardware thread count below which the rule warns.",
			Default:     strconv.Itoa(defaultMinThreads),
		},
	}
}

func (r *CPUThreadsRule) Configure(opts map[string]string) error {
	r.minThreads = defaultMinThreads
	if val, ok := opts["min_threads"]; ok && val != "" {
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid min_threads: %q", val)
		}
		r.minThreads = n
	}
	return nil
}

func (r *CPUThreadsRule) Evaluate(p *rules.Pass) {
	minThreads := r.minThreads
	if minThreads == 0 {
		minThreads = defaultMinThreads
	}
	n, ok := p.Fields.Int(fields.ThreadCount)
	if !ok || n >= minThreads {
		return
	}
	suffix := "s"
	if n == 1 {
		suffix = ""
	}
	p.AddNote(notes.New(notes.Warning, "This CPU only has %d hardware thread%s enabled", n, suffix))
}
