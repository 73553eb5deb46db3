// FILE: lixenwraith/layerconf/source_props.go
package layerconf

import (
	"reflect"
	"strings"
)

// PropsSource reads attributes from an object graph, one attribute per path segment.
// Struct attributes are exported fields named by their `toml` tag or, without a tag, by the field name.
// Tag options such as omitempty do not hide a field, and fields of embedded structs are promoted.
// Maps with string keys expose their keys as attributes, which is how script namespaces are read.
type PropsSource struct {
	base
	obj any
}

// NewProps creates a source over obj.
func NewProps(obj any, opts ...SourceOption) *PropsSource {
	o := applySourceOptions("object", opts)
	return &PropsSource{base: newBase(KindProps, o), obj: obj}
}

// Get walks the attributes of the object along p.
func (s *PropsSource) Get(p Path) any {
	return s.lookup(p, func(p Path) any {
		return walk(s.obj, p, attr)
	})
}

// attr returns the named attribute of obj.
func attr(obj any, name string) (any, bool) {
	rv := indirect(reflect.ValueOf(obj))
	if !rv.IsValid() {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		return index(rv.Interface(), name)
	case reflect.Struct:
		field, ok := structField(rv, name)
		if !ok {
			return nil, false
		}
		return field.Interface(), true
	default:
		return nil, false
	}
}

// structField finds the exported field whose attribute name is name.
// Direct fields win over fields promoted from embedded structs.
func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	typ := rv.Type()
	var embedded []reflect.Value

	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tagName, hasTag := fieldTagName(f)
		if tagName == "-" {
			continue
		}
		if f.Anonymous && !hasTag {
			if inner := indirect(rv.Field(i)); inner.IsValid() && inner.Kind() == reflect.Struct {
				embedded = append(embedded, inner)
			}
		}
		if !f.IsExported() {
			continue
		}
		if field := rv.Field(i); tagName == name && field.CanInterface() {
			return field, true
		}
	}

	for _, inner := range embedded {
		if field, ok := structField(inner, name); ok {
			return field, true
		}
	}
	return reflect.Value{}, false
}

// fieldTagName returns the attribute name of a field: the name part of its `toml` tag,
// else the field name. hasTag reports whether the tag named the field.
func fieldTagName(f reflect.StructField) (name string, hasTag bool) {
	tag := f.Tag.Get("toml")
	if i := strings.Index(tag, ","); i != -1 {
		tag = tag[:i]
	}
	if tag == "" {
		return f.Name, false
	}
	return tag, true
}
