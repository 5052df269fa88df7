package fields

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Input is everything a single analysis pass consumes.
type Input struct {
	// Source names where the fields came from (usually a file path).
	Source string

	Fields   Map
	HitStats HitStats

	// SizeLimited is set when the parser stopped early because the log was too large.
	SizeLimited bool

	// Status is the compatibility status known before analysis (may be empty).
	Status string
}

// document is the on-disk shape of an extracted field set.
// JSON documents decode too, since JSON is a subset of YAML.
type document struct {
	Status    string                `yaml:"status"`
	SizeLimit bool                  `yaml:"size_limit"`
	Fields    map[string]fieldValue `yaml:"fields"`
	HitStats  map[string]int        `yaml:"hit_stats"`
}

// fieldValue accepts either a scalar or a list of scalars.
type fieldValue []string

func (f *fieldValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*f = fieldValue{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := node.Decode(&ss); err != nil {
			return err
		}
		*f = ss
		return nil
	default:
		return fmt.Errorf("line %d: field value must be a string or a list of strings", node.Line)
	}
}

// Load reads an input document from a file.
func Load(path string) (Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return Input{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return Decode(path, f)
}

// Decode reads an input document from r.
func Decode(source string, r io.Reader) (Input, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Input{}, fmt.Errorf("read input %s: %w", source, err)
	}
	var doc document
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return Input{}, fmt.Errorf("decode input %s: %w", source, err)
		}
	}

	in := Input{
		Source:      source,
		Fields:      make(Map, len(doc.Fields)),
		SizeLimited: doc.SizeLimit,
		Status:      strings.TrimSpace(doc.Status),
	}
	for k, v := range doc.Fields {
		in.Fields[k] = strings.Join(v, Separator)
	}
	if len(doc.HitStats) > 0 {
		in.HitStats = make(HitStats, len(doc.HitStats))
		for k, n := range doc.HitStats {
			in.HitStats[k] = n
		}
	}
	return in, nil
}
