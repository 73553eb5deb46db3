// FILE: lixenwraith/layerconf/source.go
package layerconf

import "path/filepath"

// Kind identifies the variant of a configuration source, used in log lines
type Kind string

const (
	// KindDict reads from nested maps
	KindDict Kind = "dict"
	// KindProps reads attributes from an object graph
	KindProps Kind = "props"
	// KindEnv reads environment variables
	KindEnv Kind = "env"
	// KindScript reads top-level bindings of a Lua script
	KindScript Kind = "script"
	// KindINI reads section/option pairs from an INI file
	KindINI Kind = "ini"
	// KindFile reads a TOML, JSON or YAML file
	KindFile Kind = "file"
	// KindContent returns the content of a file for every key
	KindContent Kind = "content"
	// KindDefault returns a constant for every key
	KindDefault Kind = "default"
)

// Source is anything a Config can resolve keys from.
// Get receives a canonical path and returns nil when the source has no value for it; it never fails.
type Source interface {
	Get(p Path) any
	Name() string
	Kind() Kind
}

// SourceOption configures a source at construction
type SourceOption func(*sourceOptions)

type sourceOptions struct {
	name            string
	include         *Filter
	mapping         Mapping
	tolerateMissing *bool
	noTrim          bool
	rawBytes        bool
	format          string
}

// Named sets the display name used when logging the source.
func Named(name string) SourceOption {
	return func(o *sourceOptions) {
		o.name = name
	}
}

// Include restricts the source to the given keys. Calls accumulate.
func Include(keys ...Path) SourceOption {
	return func(o *sourceOptions) {
		if o.include == nil {
			o.include = NewFilter()
		}
		for _, k := range keys {
			o.include.Add(k)
		}
	}
}

// IncludeNames restricts the source to the given flat names. Names are not split on Separator.
func IncludeNames(names ...string) SourceOption {
	keys := make([]Path, 0, len(names))
	for _, n := range names {
		keys = append(keys, Path{n})
	}
	return Include(keys...)
}

// WithMapping sets the key mapping applied after the filter.
func WithMapping(m Mapping) SourceOption {
	return func(o *sourceOptions) {
		o.mapping = m
	}
}

// WithNameMap sets a table mapping between flat names.
func WithNameMap(names map[string]string) SourceOption {
	return WithMapping(MapNames(names))
}

// TolerateMissing controls whether a file-backed source fails on a missing file or becomes empty.
func TolerateMissing(tolerate bool) SourceOption {
	return func(o *sourceOptions) {
		o.tolerateMissing = &tolerate
	}
}

// WithoutTrim keeps surrounding whitespace of file content.
func WithoutTrim() SourceOption {
	return func(o *sourceOptions) {
		o.noTrim = true
	}
}

// WithRawBytes makes a file content source return the undecoded []byte.
func WithRawBytes() SourceOption {
	return func(o *sourceOptions) {
		o.rawBytes = true
	}
}

func applySourceOptions(defaultName string, opts []SourceOption) sourceOptions {
	o := sourceOptions{name: defaultName}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o sourceOptions) tolerate(def bool) bool {
	if o.tolerateMissing == nil {
		return def
	}
	return *o.tolerateMissing
}

// base carries what all sources share: name, filter, mapping and the lookup pipeline.
type base struct {
	name    string
	kind    Kind
	include *Filter
	mapping Mapping
}

func newBase(kind Kind, o sourceOptions) base {
	return base{name: o.name, kind: kind, include: o.include, mapping: o.mapping}
}

// Name returns the display name of the source.
func (b *base) Name() string { return b.name }

// Kind returns the source variant.
func (b *base) Kind() Kind { return b.kind }

// lookup filters and maps p, then hands the result to fetch.
func (b *base) lookup(p Path, fetch func(Path) any) any {
	if len(p) == 0 {
		return nil
	}
	mapped := filterMap(b.include, b.mapping, p)
	if len(mapped) == 0 {
		return nil
	}
	return fetch(mapped)
}

func fileBaseName(path string) string {
	return filepath.Base(path)
}
