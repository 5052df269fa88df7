package checks

import (
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

type LogTruncatedRule struct{}

func (r *LogTruncatedRule) ID() string {
	return "log-truncated"
}

func (r *LogTruncatedRule) Title() string {
	return "Truncated Log"
}

func (r *LogTruncatedRule) Description() string {
	return "Notes that only the last run was analysed because the log exceeded the size limit."
}

func (r *LogTruncatedRule) Fields() []string {
	return nil
}

func (r *LogTruncatedRule) Evaluate(p *rules.Pass) {
	if p.SizeLimited {
		p.AddNote(notes.New(notes.Info, "The log was too large, so only the last processed run is shown"))
	}
}
