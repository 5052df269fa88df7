package checks

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"logmedic/internal/fields"
	"logmedic/internal/rules"
)

func newPass(m fields.Map) *rules.Pass {
	return rules.NewPass(fields.Input{Fields: m})
}

// lines renders the pass notes in insertion order.
func lines(p *rules.Pass) []string {
	var out []string
	for _, n := range p.Notes() {
		out = append(out, n.String())
	}
	return out
}

func runRules(p *rules.Pass, rs ...rules.Rule) {
	for _, r := range rs {
		r.Evaluate(p)
	}
}

// ruleCase is the common shape of single-rule tests.
type ruleCase struct {
	name   string
	fields fields.Map
	setup  func(p *rules.Pass)
	want   []string
}

func runRuleCases(t *testing.T, newRule func() rules.Rule, tests []ruleCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPass(tt.fields)
			if tt.setup != nil {
				tt.setup(p)
			}
			newRule().Evaluate(p)
			if diff := cmp.Diff(tt.want, lines(p)); diff != "" {
				t.Fatalf("notes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
