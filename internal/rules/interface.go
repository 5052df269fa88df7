package rules

// Rule is one step of the analysis pipeline.
type Rule interface {
	ID() string
	Title() string
	Description() string

	// Fields declares every log field the rule may read.
	Fields() []string

	// Evaluate inspects the pass and appends notes or downgrades its status.
	// Rules run in pipeline order and MUST NOT block.
	Evaluate(p *Pass)
}

type Option struct {
	Name        string
	Description string
	Default     string
}

type ConfigurableRule interface {
	Rule
	Options() []Option
	Configure(opts map[string]string) error
}
