// FILE: lixenwraith/layerconf/export_test.go
package layerconf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportConfig(t *testing.T) *Config {
	t.Helper()
	cfg := New(NewDict(map[string]any{
		"server": map[string]any{"host": "localhost", "port": int64(8080)},
		"name":   "svc",
	}), NewDefault("s3cret", IncludeNames("password")))

	for _, key := range []string{"server__host", "server__port", "name"} {
		_, err := cfg.Get(key)
		require.NoError(t, err)
	}
	_, err := cfg.Get("password", HideValue())
	require.NoError(t, err)
	return cfg
}

func TestSnapshot(t *testing.T) {
	snapshot := exportConfig(t).Snapshot()
	assert.Equal(t, map[string]any{
		"server":   map[string]any{"host": "localhost", "port": int64(8080)},
		"name":     "svc",
		"password": hiddenValue,
	}, snapshot)

	assert.Empty(t, New().Snapshot())
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, exportConfig(t).Dump(&buf))

	var decoded map[string]any
	_, err := toml.Decode(buf.String(), &decoded)
	require.NoError(t, err)
	assert.Equal(t, "svc", decoded["name"])
	assert.Equal(t, hiddenValue, decoded["password"])
	server, ok := decoded["server"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(8080), server["port"])
	assert.NotContains(t, buf.String(), "s3cret")
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.toml")
	require.NoError(t, exportConfig(t).Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	// Saved output loads back as a file source
	src, err := NewFile(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost", src.Get(P("server", "host")))

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSetNestedValue(t *testing.T) {
	nested := map[string]any{"a": "leaf"}
	setNestedValue(nested, P("a", "b"), 1)
	setNestedValue(nested, P("a", "c"), 2)
	setNestedValue(nested, P("d"), 3)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": 1, "c": 2},
		"d": 3,
	}, nested)
}
