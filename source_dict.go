// FILE: lixenwraith/layerconf/source_dict.go
package layerconf

import "reflect"

// DictSource reads values from nested maps. A path walks one map level per segment.
// The map is read live, so changes made by the caller are visible to keys not yet cached by a Config.
type DictSource struct {
	base
	data any
}

// NewDict creates a source over data, which should be a map with string keys.
func NewDict(data any, opts ...SourceOption) *DictSource {
	o := applySourceOptions(string(KindDict), opts)
	return &DictSource{base: newBase(KindDict, o), data: data}
}

// Get walks data along p and returns nil as soon as a segment is missing or a value is not a map.
func (s *DictSource) Get(p Path) any {
	return s.lookup(p, func(p Path) any {
		return walk(s.data, p, index)
	})
}

// walk applies step for each segment, stopping on the first miss or nil value.
// Nil pointers and interfaces count as nil.
func walk(obj any, p Path, step func(any, string) (any, bool)) any {
	if obj == nil {
		return nil
	}
	current := obj
	for _, segment := range p {
		next, ok := step(current, segment)
		if !ok || isNil(next) {
			return nil
		}
		current = next
	}
	return current
}

// index looks up key in a map with string-kind keys.
func index(obj any, key string) (any, bool) {
	switch m := obj.(type) {
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case map[string]string:
		v, ok := m[key]
		return v, ok
	}

	rv := indirect(reflect.ValueOf(obj))
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	if (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) && v.IsNil() {
		return nil, false
	}
	return v.Interface(), true
}

// isNil reports whether v is nil, a nil pointer or a nil interface.
func isNil(v any) bool {
	return v == nil || !indirect(reflect.ValueOf(v)).IsValid()
}

// indirect dereferences pointers and interfaces, returning the zero Value for nil.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
