package fields

import "strings"

// Value is an extracted field. Present is false when the field's line was
// not found, which is distinct from a line with an empty value.
type Value struct {
	Text    string
	Present bool
}

// RawFieldMap is the result of one extraction. It covers every requested
// field name and is never modified after Extract returns it.
type RawFieldMap struct {
	names  []string
	values map[string]Value
}

// Get returns the value extracted for name and whether it was present.
func (m RawFieldMap) Get(name string) (string, bool) {
	v := m.values[name]
	return v.Text, v.Present
}

// Value returns the full Value for name.
func (m RawFieldMap) Value(name string) Value {
	return m.values[name]
}

// Names returns the requested field names in request order.
func (m RawFieldMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len reports how many field names the map covers.
func (m RawFieldMap) Len() int {
	return len(m.names)
}

// Extract scans text for lines of the form "<name>: <value>" and returns
// the trimmed value of the first such line for every name. A line only
// matches when it starts with the name immediately followed by ": ".
// Names with no matching line are returned as absent.
func Extract(text string, names []string) RawFieldMap {
	m := RawFieldMap{
		names:  make([]string, 0, len(names)),
		values: make(map[string]Value, len(names)),
	}
	for _, name := range names {
		if _, seen := m.values[name]; seen {
			continue
		}
		m.names = append(m.names, name)
		m.values[name] = Value{}
	}

	lines := strings.Split(text, "\n")
	for _, name := range m.names {
		prefix := name + ": "
		for _, line := range lines {
			if rest, ok := strings.CutPrefix(line, prefix); ok {
				m.values[name] = Value{Text: strings.TrimSpace(rest), Present: true}
				break
			}
		}
	}
	return m
}
