package rules

import (
	"slices"

	"logmedic/internal/fields"
)

// AllowListWrapper skips the wrapped rule for allow-listed product codes.
type AllowListWrapper struct {
	Rule
	allowList AllowList
}

// Unwrap returns the wrapped rule.
func (w *AllowListWrapper) Unwrap() Rule {
	return w.Rule
}

// Fields adds the serial, which the wrapper reads itself.
func (w *AllowListWrapper) Fields() []string {
	declared := w.Rule.Fields()
	if slices.Contains(declared, fields.Serial) {
		return declared
	}
	return append(slices.Clone(declared), fields.Serial)
}

func (w *AllowListWrapper) Evaluate(p *Pass) {
	if allowed, reason := w.allowList.IsAllowed(p.Fields.String(fields.Serial)); allowed {
		p.skip(w.ID(), reason)
		return
	}
	w.Rule.Evaluate(p)
}

// Options returns the combined options of the allowlist and the inner rule (if configurable).
func (w *AllowListWrapper) Options() []Option {
	opts := w.allowList.Options()
	if cr, ok := w.Rule.(ConfigurableRule); ok {
		opts = append(opts, cr.Options()...)
	}
	return opts
}

// Configure configures the allowlist and the inner rule (if configurable).
func (w *AllowListWrapper) Configure(opts map[string]string) error {
	w.allowList.Configure(opts)
	if cr, ok := w.Rule.(ConfigurableRule); ok {
		return cr.Configure(opts)
	}
	return nil
}
