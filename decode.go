// FILE: lixenwraith/layerconf/decode.go
package layerconf

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// Decode copies the resolved keys into target, a non-nil pointer to a struct or map.
// Only keys already cached are copied, each at the position given by its path; fields are matched
// by their `toml` tag, case-insensitively. Strings are not parsed into other types, so a value
// must already fit its field (numbers may change width). Hidden values are copied unredacted.
func (c *Config) Decode(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be non-nil pointer, got %T", target)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "toml",
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(c.nested(false)); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	return nil
}
