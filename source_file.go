// FILE: lixenwraith/layerconf/source_file.go
package layerconf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Supported structured file formats
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// WithFormat forces the structured file format instead of detecting it.
func WithFormat(format string) SourceOption {
	return func(o *sourceOptions) {
		o.format = strings.ToLower(format)
	}
}

// NewFile parses a TOML, JSON or YAML file into a dict source named after the file.
// The format comes from WithFormat, else the file extension, else content sniffing.
// A missing file fails with ErrSourceLoad unless TolerateMissing(true) is given.
func NewFile(path string, opts ...SourceOption) (*DictSource, error) {
	o := applySourceOptions(fileBaseName(path), opts)
	src := &DictSource{base: newBase(KindFile, o)}

	fileData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && o.tolerate(false) {
			return src, nil
		}
		return nil, fmt.Errorf("%w: config file '%s': %w", ErrSourceLoad, path, err)
	}

	format := o.format
	if format == "" || format == "auto" {
		format = detectFileFormat(path)
		if format == "" {
			format = detectFormatFromContent(fileData)
		}
	}

	data, err := parseFile(format, fileData)
	if err != nil {
		return nil, fmt.Errorf("%w: config file '%s': %w", ErrSourceLoad, path, err)
	}
	src.data = data
	return src, nil
}

// parseFile decodes file data in the given format into a nested map
func parseFile(format string, fileData []byte) (map[string]any, error) {
	fileConfig := make(map[string]any)
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(fileData))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return fileConfig, nil
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// JSON first, it is the strictest
	var jsonTest map[string]any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return FormatJSON
	}

	// TOML before YAML, plain "key: value" lines are not valid TOML
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}

	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return FormatYAML
	}

	return ""
}
