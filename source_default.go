// FILE: lixenwraith/layerconf/source_default.go
package layerconf

// DefaultSource returns the same value for every key that passes its filter.
type DefaultSource struct {
	base
	value any
}

// NewDefault creates a constant source.
func NewDefault(value any, opts ...SourceOption) *DefaultSource {
	o := applySourceOptions(string(KindDefault), opts)
	return &DefaultSource{base: newBase(KindDefault, o), value: value}
}

// Get returns the constant.
func (s *DefaultSource) Get(p Path) any {
	return s.lookup(p, func(Path) any {
		return s.value
	})
}
