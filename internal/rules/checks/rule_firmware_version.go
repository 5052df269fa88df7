package checks

import (
	"fmt"

	"logmedic/internal/fields"
	"logmedic/internal/notes"
	"logmedic/internal/rules"
	"logmedic/internal/version"
)

type FirmwareVersionRule struct {
	minimum version.Version
}

func (r *FirmwareVersionRule) ID() string {
	return "firmware-version"
}

func (r *FirmwareVersionRule) Title() string {
	return "Firmware Version"
}

func (r *FirmwareVersionRule) Description() string {
	return "Warns about custom firmware and about official firmware older than the recommended version."
}

func (r *FirmwareVersionRule) Fields() []string {
	return []string{fields.FirmwareVersionInstalled}
}

func (r *FirmwareVersionRule) Options() []rules.Option {
	return []rules.Option{
		{
			Name:        "min_version",
			Description: "Oldest recommended firmware version.",
			Default:     minimumFirmwareVersion.String(),
		},
	}
}

func (r *FirmwareVersionRule) Configure(opts map[string]string) error {
	r.minimum = minimumFirmwareVersion
	if val, ok := opts["min_version"]; ok && val != "" {
		v, ok := version.Parse(val)
		if !ok {
			return fmt.Errorf("invalid min_version: %q", val)
		}
		r.minimum = v
	}
	return nil
}

func (r *FirmwareVersionRule) min() version.Version {
	if r.minimum.IsZero() {
		return minimumFirmwareVersion
	}
	return r.minimum
}

func (r *FirmwareVersionRule) Evaluate(p *rules.Pass) {
	if !p.Fields.NonEmpty(fields.FirmwareVersionInstalled) {
		return
	}
	fw, ok := p.Fields.Version(fields.FirmwareVersionInstalled)
	if !ok {
		p.AddNote(notes.New(notes.Warning, "Custom firmware is not supported, please use the latest official one"))
		return
	}
	if fw.Less(r.min()) {
		p.AddNote(notes.New(notes.Warning, "Firmware version %s or later is recommended", r.min()))
	}
}
