package fields

import "sort"

// TrackingReader wraps another Reader and records every key callers attempt
// to read via Get().
//
// The engine uses it to spot rules that read fields they did not declare.
type TrackingReader struct {
	inner    Reader
	accessed map[string]struct{}
}

func NewTrackingReader(inner Reader) *TrackingReader {
	return &TrackingReader{
		inner:    inner,
		accessed: make(map[string]struct{}),
	}
}

func (r *TrackingReader) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	r.accessed[key] = struct{}{}
	if r.inner == nil {
		return "", false
	}
	return r.inner.Get(key)
}

// AccessedKeys returns the sorted set of keys read so far.
func (r *TrackingReader) AccessedKeys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.accessed))
	for k := range r.accessed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset forgets recorded accesses.
func (r *TrackingReader) Reset() {
	if r == nil {
		return
	}
	clear(r.accessed)
}

// Undeclared returns the accessed keys missing from declared, sorted.
func Undeclared(accessed []string, declared []string) []string {
	if len(accessed) == 0 {
		return nil
	}
	decl := make(map[string]struct{}, len(declared))
	for _, d := range declared {
		decl[d] = struct{}{}
	}
	var out []string
	for _, k := range accessed {
		if _, ok := decl[k]; ok {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
