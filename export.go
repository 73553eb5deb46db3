// FILE: lixenwraith/layerconf/export.go
package layerconf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Snapshot returns the cached values as a nested map, one level per path segment.
// Values resolved with HideValue are redacted. A key cached both as a leaf and as a
// parent of deeper keys keeps whichever was resolved last.
func (c *Config) Snapshot() map[string]any {
	return c.nested(true)
}

// nested builds the cached values into nested maps, optionally redacting hidden values.
func (c *Config) nested(redact bool) map[string]any {
	nestedData := make(map[string]any)
	for _, cached := range c.Cached() {
		value := cached.Value
		if redact && cached.Hidden {
			value = hiddenValue
		}
		setNestedValue(nestedData, cached.Path, value)
	}
	return nestedData
}

// Dump writes the cached values to w in TOML format.
func (c *Config) Dump(w io.Writer) error {
	encoder := toml.NewEncoder(w)
	if err := encoder.Encode(c.Snapshot()); err != nil {
		return fmt.Errorf("failed to marshal config data to TOML: %w", err)
	}
	return nil
}

// Save writes the cached values to a TOML file atomically.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := c.Dump(&buf); err != nil {
		return err
	}
	return atomicWriteFile(path, buf.Bytes())
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
