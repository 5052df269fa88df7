package catalog

import (
	"errors"
	"testing"
)

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantErr   bool
		wantFiles int
	}{
		{
			name:      "valid",
			raw:       `{"product_code":"BLUS30443","discs":[{"title":"Demon's Souls","files":["/PS3_GAME/PARAM.SFO","/PS3_DISC.SFB"]}]}`,
			wantFiles: 2,
		},
		{name: "not json", raw: `{`, wantErr: true},
		{name: "missing discs", raw: `{"product_code":"BLUS30443"}`, wantErr: true},
		{name: "bad product code", raw: `{"product_code":"blus30443","discs":[]}`, wantErr: true},
		{name: "disc without files", raw: `{"product_code":"BLUS30443","discs":[{"title":"x"}]}`, wantErr: true},
		{name: "empty filename", raw: `{"product_code":"BLUS30443","discs":[{"files":[""]}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.raw))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDocument) {
					t.Fatalf("want ErrInvalidDocument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDocument error: %v", err)
			}
			n := 0
			for _, e := range doc.Entries() {
				n += len(e.Filenames())
			}
			if n != tt.wantFiles {
				t.Fatalf("want %d files, got %d", tt.wantFiles, n)
			}
		})
	}
}
