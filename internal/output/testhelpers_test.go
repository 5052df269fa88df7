package output

import (
	"logmedic/internal/notes"
	"logmedic/internal/rules"
)

func sampleReport(source string) rules.Report {
	ns := []notes.Note{
		notes.New(notes.Info, "Main hash: `PPU-aaa`"),
		notes.New(notes.Critical, "Unsupported GPU"),
		notes.New(notes.Old, "This RPCS3 build is 1 month old, please consider updating it"),
		notes.New(notes.Special, "Custom build"),
	}
	return rules.Report{
		Source: source,
		Status: rules.StatusIngame,
		Notes:  ns,
		Text:   notes.Render(ns, ""),
	}
}

func failedReport(source string) rules.Report {
	return rules.Report{Source: source, Status: rules.StatusUnknown, Error: "open input: no such file"}
}
