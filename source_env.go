// FILE: lixenwraith/layerconf/source_env.go
package layerconf

import "os"

// EnvSource reads environment variables. Only paths of length 1 can match,
// so "A__B" is never looked up as the variable A__B; use P("A__B") or a mapping for that.
// The environment is read on every Get.
type EnvSource struct {
	base
}

// NewEnv creates an environment source.
func NewEnv(opts ...SourceOption) *EnvSource {
	o := applySourceOptions(string(KindEnv), opts)
	return &EnvSource{base: newBase(KindEnv, o)}
}

// Get returns the variable named by the single segment of p, or nil if it is unset.
func (s *EnvSource) Get(p Path) any {
	return s.lookup(p, func(p Path) any {
		if len(p) != 1 {
			return nil
		}
		if value, exists := os.LookupEnv(p[0]); exists {
			return value
		}
		return nil
	})
}
