// FILE: lixenwraith/layerconf/source_ini.go
package layerconf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// INISource reads an INI file parsed once at construction. Only paths of length 2
// (section, option) can match; option names are case-insensitive, section names are not.
// Options in the DEFAULT section (or before the first section header) are inherited by every
// section that exists. Dotted section names are plain names, not children of another section.
type INISource struct {
	base
	file *ini.File
}

// NewINIFile parses the INI file at path.
// A missing file fails with ErrSourceLoad unless TolerateMissing(true) is given; malformed files always fail.
func NewINIFile(path string, opts ...SourceOption) (*INISource, error) {
	o := applySourceOptions(fileBaseName(path), opts)
	src := &INISource{base: newBase(KindINI, o)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && o.tolerate(false) {
			return src, nil
		}
		return nil, fmt.Errorf("%w: ini file '%s': %w", ErrSourceLoad, path, err)
	}

	file, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:            true,
		AllowPythonMultilineValues: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse ini file '%s': %w", ErrSourceLoad, path, err)
	}
	src.file = file
	return src, nil
}

// Get returns the option value as a string.
func (s *INISource) Get(p Path) any {
	return s.lookup(p, func(p Path) any {
		if s.file == nil || len(p) != 2 {
			return nil
		}
		section, err := s.file.GetSection(p[0])
		if err != nil {
			return nil
		}
		if value, ok := ownKey(section, p[1]); ok {
			return value
		}
		// Options of the DEFAULT section are visible in every section
		if defaults, err := s.file.GetSection(ini.DefaultSection); err == nil {
			if value, ok := ownKey(defaults, p[1]); ok {
				return value
			}
		}
		return nil
	})
}

// ownKey returns an option defined in the section itself. Section.GetKey also
// searches parent sections ("server" for "server.prod"), which INI files here do not have.
func ownKey(section *ini.Section, name string) (string, bool) {
	name = strings.ToLower(name)
	if _, ok := section.KeysHash()[name]; !ok {
		return "", false
	}
	key, err := section.GetKey(name)
	if err != nil {
		return "", false
	}
	return key.String(), true
}
