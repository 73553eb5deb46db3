// FILE: lixenwraith/layerconf/source_content.go
package layerconf

import (
	"fmt"
	"os"
	"strings"
)

// FileContentSource returns the content of a file for every key that passes its filter.
// Typical use is secrets mounted as files.
type FileContentSource struct {
	base
	value any
}

// NewFileContent reads the file at path once. The content is returned as a whitespace-trimmed
// string unless WithoutTrim or WithRawBytes is given.
// Read errors are tolerated by default, leaving an empty source; TolerateMissing(false) makes them fail.
func NewFileContent(path string, opts ...SourceOption) (*FileContentSource, error) {
	o := applySourceOptions(fileBaseName(path), opts)
	src := &FileContentSource{base: newBase(KindContent, o)}

	data, err := os.ReadFile(path)
	if err != nil {
		if o.tolerate(true) {
			return src, nil
		}
		return nil, fmt.Errorf("%w: content file '%s': %w", ErrSourceLoad, path, err)
	}

	switch {
	case o.rawBytes:
		src.value = data
	case o.noTrim:
		src.value = string(data)
	default:
		src.value = strings.TrimSpace(string(data))
	}
	return src, nil
}

// Get returns the file content, or nil if the file could not be read.
func (s *FileContentSource) Get(p Path) any {
	return s.lookup(p, func(Path) any {
		return s.value
	})
}
