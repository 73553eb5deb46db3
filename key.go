// FILE: lixenwraith/layerconf/key.go
package layerconf

import (
	"fmt"
	"strconv"
	"strings"
)

// Separator splits flat string keys into path segments ("server__port" -> server, port).
const Separator = "__"

// Path is the canonical form of a configuration key: an ordered, non-empty list of segments.
// A Path is taken literally and is never re-split on Separator.
type Path []string

// P builds a Path from its segments.
func P(segments ...string) Path {
	return Path(segments)
}

// ParsePath splits a flat key on Separator. A key without the separator becomes a path of length 1.
func ParsePath(key string) Path {
	return Path(strings.Split(key, Separator))
}

// ToPath canonicalizes a key. Strings are split on Separator, paths and string slices are copied.
// Any other type, or an empty path, fails with ErrInvalidKey.
func ToPath(key any) (Path, error) {
	if s, ok := key.(string); ok {
		return ParsePath(s), nil
	}
	return AsPath(key)
}

// AsPath converts a key literally: a string becomes a single-segment path without splitting.
// Filters and mappings use this conversion.
func AsPath(key any) (Path, error) {
	var p Path
	switch k := key.(type) {
	case string:
		return Path{k}, nil
	case Path:
		p = k
	case []string:
		p = Path(k)
	default:
		return nil, fmt.Errorf("%w: %#v (%T)", ErrInvalidKey, key, key)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidKey)
	}
	return p.Clone(), nil
}

// AsFlat returns the single segment of a length-1 path as a string, otherwise the path itself.
func AsFlat(p Path) any {
	if len(p) == 1 {
		return p[0]
	}
	return p
}

// Clone returns a copy that does not share storage with p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Equal reports whether both paths have the same segments.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders the path as a flat key: the name for length 1, else segments joined by Separator.
// A segment containing Separator makes the result ambiguous.
func (p Path) String() string {
	return strings.Join(p, Separator)
}

// id encodes the path as an unambiguous map key. A length-1 path and its flat name share the same id.
func (p Path) id() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	return b.String()
}
