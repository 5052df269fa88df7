package checks

import (
	"fmt"
	"strconv"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

const defaultAudioErrorThreshold = 100

type AudioBackendRule struct {
	threshold int
}

func (r *AudioBackendRule) ID() string {
	return "audio-backend"
}

func (r *AudioBackendRule) Title() string {
	return "Audio Backend Instability"
}

func (r *AudioBackendRule) Description() string {
	return "Reports audio backend problems when buffer enqueue errors repeat more often than the threshold."
}

func (r *AudioBackendRule) Fields() []string {
	return []string{fields.EnqueueBufferError, fields.OSType}
}

func (r *AudioBackendRule) Options() []rules.Option {
	return []rules.Option{
		{
			Name:        "threshold",
			Description: "Number of enqueue errors that must be exceeded before the rule fires.",
			Default:     strconv.Itoa(defaultAudioErrorThreshold),
		},
	}
}

func (r *AudioBackendRule) Configure(opts map[string]string) error {
	r.threshold = defaultAudioErrorThreshold
	if val, ok := opts["threshold"]; ok && val != "" {
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid threshold: %q", val)
		}
		r.threshold = n
	}
	return nil
}

func (r *AudioBackendRule) Evaluate(p *rules.Pass) {
	if !p.Fields.NonEmpty(fields.EnqueueBufferError) {
		return
	}
	threshold := r.threshold
	if threshold == 0 {
		threshold = defaultAudioErrorThreshold
	}
	if count, ok := p.HitStats.Count(fields.EnqueueBufferError); !ok || count <= threshold {
		return
	}
	if p.Fields.String(fields.OSType) == "Windows" {
		p.AddNote(notes.New(notes.Warning, "Audio backend issues detected; it could be caused by a bad driver or 3rd party software"))
		return
	}
	p.AddNote(notes.New(notes.Warning, "Audio backend issues detected; check for high audio driver/sink latency"))
}
