// FILE: lixenwraith/layerconf/errors.go
package layerconf

import "errors"

var (
	// ErrInvalidKey is returned for keys that are neither a flat name nor a non-empty path
	ErrInvalidKey = errors.New("invalid config key")

	// ErrSourceLoad wraps every construction failure of a file-backed source
	ErrSourceLoad = errors.New("config source load failed")

	// ErrUnknownFormat is returned when a structured file's format cannot be determined
	ErrUnknownFormat = errors.New("unknown config file format")
)
