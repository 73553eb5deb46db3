// FILE: lixenwraith/layerconf/mapping.go
package layerconf

import "strings"

// Filter is an allow-list of keys. A nil or empty Filter allows everything.
type Filter struct {
	keys map[string]struct{}
}

// NewFilter creates a filter allowing exactly the given paths.
func NewFilter(keys ...Path) *Filter {
	f := &Filter{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		f.Add(k)
	}
	return f
}

// Add allows one more key. Empty paths are ignored.
func (f *Filter) Add(key Path) {
	if len(key) == 0 {
		return
	}
	if f.keys == nil {
		f.keys = make(map[string]struct{})
	}
	f.keys[key.id()] = struct{}{}
}

// Allows reports whether the path, or its flat form for length-1 paths, is in the filter.
func (f *Filter) Allows(p Path) bool {
	if f.empty() {
		return true
	}
	_, ok := f.keys[p.id()]
	return ok
}

func (f *Filter) empty() bool {
	return f == nil || len(f.keys) == 0
}

// Mapping replaces a key with another before a source looks it up.
// It is implemented by TableMapping and MapFunc.
type Mapping interface {
	MapPath(p Path) Path
}

// TableMapping maps fixed keys to replacement keys, unmatched keys pass through unchanged.
type TableMapping struct {
	table map[string]Path
}

// NewTableMapping creates an empty table mapping.
func NewTableMapping() *TableMapping {
	return &TableMapping{table: make(map[string]Path)}
}

// MapNames creates a table mapping between flat names. Names are not split on Separator.
func MapNames(names map[string]string) *TableMapping {
	m := NewTableMapping()
	for from, to := range names {
		m.Map(Path{from}, Path{to})
	}
	return m
}

// Map adds an entry and returns the mapping for chaining.
func (m *TableMapping) Map(from, to Path) *TableMapping {
	if len(from) == 0 || len(to) == 0 {
		return m
	}
	m.table[from.id()] = to.Clone()
	return m
}

// MapPath returns the replacement for p, or p when there is no entry.
func (m *TableMapping) MapPath(p Path) Path {
	if to, ok := m.table[p.id()]; ok {
		return to.Clone()
	}
	return p
}

// MapFunc is a mapping computed by a function. It is applied to every key that passes the filter.
type MapFunc func(p Path) Path

// MapPath calls f.
func (f MapFunc) MapPath(p Path) Path {
	return f(p)
}

// NameFunc adapts a flat-name function into a MapFunc.
// The function sees the flat name of single-segment paths and its result is used as a
// single-segment path; longer paths pass through unchanged.
func NameFunc(fn func(name string) string) MapFunc {
	return func(p Path) Path {
		if len(p) != 1 {
			return p
		}
		return Path{fn(p[0])}
	}
}

// EnvTransform maps any path to an environment variable name:
// the prefix followed by the upper-cased segments joined by "_" ("server__port" -> "APP_SERVER_PORT").
func EnvTransform(prefix string) MapFunc {
	return func(p Path) Path {
		env := strings.ToUpper(strings.Join(p, "_"))
		return Path{prefix + env}
	}
}

// filterMap runs the shared source pipeline on a canonical path.
// It returns nil when the filter rejects the path.
func filterMap(include *Filter, mapping Mapping, p Path) Path {
	if !include.Allows(p) {
		return nil
	}
	if mapping != nil {
		return mapping.MapPath(p)
	}
	return p
}
