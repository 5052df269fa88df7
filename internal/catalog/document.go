package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidDocument wraps every parse or schema failure of a catalog document.
var ErrInvalidDocument = errors.New("invalid catalog document")

const documentSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["product_code", "discs"],
  "properties": {
    "product_code": {"type": "string", "pattern": "^[A-Z]{4}[0-9]{5}$"},
    "discs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["files"],
        "properties": {
          "title": {"type": "string"},
          "app_version": {"type": "string"},
          "files": {"type": "array", "items": {"type": "string", "minLength": 1}}
        }
      }
    }
  }
}`

var documentSchema = jsonschema.MustCompileString("catalog.schema.json", documentSchemaJSON)

// Document is the reference file list published for one product code.
type Document struct {
	ProductCode string `json:"product_code"`
	Discs       []Disc `json:"discs"`
}

// Disc is one image of a product; it satisfies Entry.
type Disc struct {
	Title      string   `json:"title,omitempty"`
	AppVersion string   `json:"app_version,omitempty"`
	Files      []string `json:"files"`
}

func (d Disc) Filenames() []string {
	return d.Files
}

// Entries adapts the document's discs to the Client contract.
func (d *Document) Entries() []Entry {
	if d == nil {
		return []Entry{}
	}
	out := make([]Entry, 0, len(d.Discs))
	for _, disc := range d.Discs {
		out = append(out, disc)
	}
	return out
}

func ParseDocument(raw []byte) (*Document, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := documentSchema.Validate(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}
