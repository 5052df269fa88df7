package rules

import (
	"logmedic/internal/catalog"
	"logmedic/internal/notes"
	"logmedic/internal/update"
)

// Report is the outcome of one analysis pass.
type Report struct {
	Source string       `json:"source"`
	Status Status       `json:"status"`
	Notes  []notes.Note `json:"notes"`
	// Text is Notes rendered as one block, most severe first.
	Text    string          `json:"text"`
	Catalog catalog.Verdict `json:"catalog"`
	Update  *update.Info    `json:"update,omitempty"`

	FatalError      string   `json:"fatal_error,omitempty"`
	MissingLicenses []string `json:"missing_licenses,omitempty"`

	// Skipped maps allow-listed rule IDs to the option that silenced them.
	Skipped map[string]string `json:"skipped,omitempty"`

	// Error is set when the input could not be analysed at all.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the input never reached the rules.
func (r Report) Failed() bool {
	return r.Error != ""
}

// Critical counts critical notes.
func (r Report) Critical() int {
	return notes.CountAtOrAbove(r.Notes, notes.Critical)
}
