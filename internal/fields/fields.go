package fields

// Separator joins the values of a multi-value field.
const Separator = "\n"

// Reader provides extracted log fields to rules.
type Reader interface {
	Get(key string) (string, bool)
}

// Map is a simple read-only map-based Reader.
//
// An empty string value is present; a missing key is absent.
type Map map[string]string

func (m Map) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}

// Len reports the number of extracted fields.
func (m Map) Len() int {
	return len(m)
}

// Recognized reports the number of fields the parser is known to produce.
func (m Map) Recognized() int {
	n := 0
	for k := range m {
		if IsKnown(k) {
			n++
		}
	}
	return n
}

// HitStats maps a field name to how many times its value was seen across the whole log.
type HitStats map[string]int

func (h HitStats) Count(key string) (int, bool) {
	if h == nil {
		return 0, false
	}
	n, ok := h[key]
	return n, ok
}
