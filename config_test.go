// FILE: lixenwraith/layerconf/config_test.go
package layerconf

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedConfig(level zapcore.Level, sources ...Source) (*Config, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := New(sources...)
	cfg.SetLogger(zap.New(core))
	cfg.SetLogLevel(level)
	return cfg, logs
}

func TestConfigGet(t *testing.T) {
	t.Run("FirstSourceWins", func(t *testing.T) {
		first := NewDict(map[string]any{"a": 1}, Named("first"))
		second := NewDict(map[string]any{"a": 2, "b": 3}, Named("second"))
		cfg := New(first, second)

		value, src, err := cfg.GetWithSource("a")
		require.NoError(t, err)
		assert.Equal(t, 1, value)
		assert.Same(t, first, src)

		value, src, err = cfg.GetWithSource("b")
		require.NoError(t, err)
		assert.Equal(t, 3, value)
		assert.Same(t, second, src)
	})

	t.Run("Missing", func(t *testing.T) {
		cfg := New(NewDict(map[string]any{}))
		value, src, err := cfg.GetWithSource("nope")
		require.NoError(t, err)
		assert.Nil(t, value)
		assert.Nil(t, src)
		assert.Empty(t, cfg.Cached(), "misses are not cached")
	})

	t.Run("NoSources", func(t *testing.T) {
		value, err := New().Get("x")
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("InvalidKey", func(t *testing.T) {
		_, err := New().Get(12)
		assert.ErrorIs(t, err, ErrInvalidKey)
		_, err = New().Source(P())
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("FlatAndPathShareCache", func(t *testing.T) {
		data := map[string]any{"deep": map[string]any{"var": 23}}
		cfg := New(NewDict(data))
		v1, err := cfg.Get("deep__var")
		require.NoError(t, err)
		v2, err := cfg.Get(P("deep", "var"))
		require.NoError(t, err)
		assert.Equal(t, v1, v2)
		assert.Len(t, cfg.Cached(), 1)
	})

	t.Run("Value", func(t *testing.T) {
		cfg := New(NewDict(map[string]any{"name": "x"}))
		assert.Equal(t, "x", cfg.Value("name"))
		assert.Nil(t, cfg.Value("other"))
	})
}

func TestConfigCache(t *testing.T) {
	t.Run("ValueIsStable", func(t *testing.T) {
		data := map[string]any{"a": "old"}
		cfg := New(NewDict(data))

		value, err := cfg.Get("a")
		require.NoError(t, err)
		assert.Equal(t, "old", value)

		data["a"] = "new"
		value, err = cfg.Get("a")
		require.NoError(t, err)
		assert.Equal(t, "old", value)
	})

	t.Run("IgnoresLaterSources", func(t *testing.T) {
		cfg := New(NewDict(map[string]any{"a": 1}))
		_, err := cfg.Get("a")
		require.NoError(t, err)

		other := NewDict(map[string]any{"a": 99})
		value, src, err := cfg.GetWithSource("a", Using(other))
		require.NoError(t, err)
		assert.Equal(t, 1, value)
		assert.NotSame(t, other, src)

		cfg.SetSources(other)
		value, err = cfg.Get("a")
		require.NoError(t, err)
		assert.Equal(t, 1, value)
	})

	t.Run("UsingOverridesOrder", func(t *testing.T) {
		a := NewDict(map[string]any{"k": "a"}, Named("a"))
		b := NewDict(map[string]any{"k": "b"}, Named("b"))
		cfg := New(a, b)
		value, src, err := cfg.GetWithSource("k", Using(b, a))
		require.NoError(t, err)
		assert.Equal(t, "b", value)
		assert.Same(t, b, src)
	})

	t.Run("SetSources", func(t *testing.T) {
		cfg := New()
		value, err := cfg.Get("k")
		require.NoError(t, err)
		assert.Nil(t, value)

		src := NewDict(map[string]any{"k": "v"})
		cfg.SetSources(src)
		value, err = cfg.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v", value)
		assert.Equal(t, []Source{src}, cfg.Sources())
	})

	t.Run("DefaultIsCached", func(t *testing.T) {
		cfg := New()
		value, src, err := cfg.GetWithSource("port", OrDefault(8080))
		require.NoError(t, err)
		assert.Equal(t, 8080, value)
		require.NotNil(t, src)
		assert.Equal(t, KindDefault, src.Kind())

		value, err = cfg.Get("port", OrDefault(9090))
		require.NoError(t, err)
		assert.Equal(t, 8080, value, "a later default does not replace the cached value")

		value, err = cfg.Get("port")
		require.NoError(t, err)
		assert.Equal(t, 8080, value)
	})

	t.Run("SourceBeatsDefault", func(t *testing.T) {
		cfg := New(NewDict(map[string]any{"port": 1}))
		value, err := cfg.Get("port", OrDefault(8080))
		require.NoError(t, err)
		assert.Equal(t, 1, value)
	})

	t.Run("Reset", func(t *testing.T) {
		data := map[string]any{"a": "old"}
		cfg := New(NewDict(data))
		_, err := cfg.Get("a")
		require.NoError(t, err)

		data["a"] = "new"
		cfg.Reset()
		assert.Empty(t, cfg.Cached())
		value, err := cfg.Get("a")
		require.NoError(t, err)
		assert.Equal(t, "new", value)
	})

	t.Run("CachedOrder", func(t *testing.T) {
		cfg := New(NewDefault("v"))
		for _, key := range []string{"c", "a__b", "b"} {
			_, err := cfg.Get(key, HideValue())
			require.NoError(t, err)
		}
		cached := cfg.Cached()
		require.Len(t, cached, 3)
		assert.Equal(t, P("c"), cached[0].Path)
		assert.Equal(t, P("a", "b"), cached[1].Path)
		assert.Equal(t, P("b"), cached[2].Path)
		assert.True(t, cached[0].Hidden)
	})

	t.Run("TypedNilsSkipped", func(t *testing.T) {
		var missing *DictSource
		var nilInt *int
		cfg := New(missing, NewDict(map[string]any{"k": nilInt}), NewDict(map[string]any{"k": "real"}, Named("real")))

		value, src, err := cfg.GetWithSource("k")
		require.NoError(t, err)
		assert.Equal(t, "real", value)
		assert.Equal(t, "real", src.Name())

		value, err = cfg.Get("other", OrDefault(nilInt))
		require.NoError(t, err)
		assert.Nil(t, value, "a nil pointer default is no default")
		assert.Len(t, cfg.Cached(), 1)
	})

	t.Run("SourcesCopied", func(t *testing.T) {
		sources := []Source{NewDefault(1)}
		cfg := New(sources...)
		sources[0] = NewDefault(2)
		value, err := cfg.Get("x")
		require.NoError(t, err)
		assert.Equal(t, 1, value)
	})
}

func TestConfigLogging(t *testing.T) {
	t.Run("LoggedOncePerKey", func(t *testing.T) {
		cfg, logs := observedConfig(zapcore.InfoLevel, NewDict(map[string]any{"name": "svc"}, Named("settings")))
		for i := 0; i < 3; i++ {
			_, err := cfg.Get("name")
			require.NoError(t, err)
		}

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, `config name = "svc" (dict settings)`, entries[0].Message)
		fields := entries[0].ContextMap()
		assert.Equal(t, "name", fields["key"])
		assert.Equal(t, "dict", fields["source_kind"])
		assert.Equal(t, "settings", fields["source"])
	})

	t.Run("PathsLoggedDistinctly", func(t *testing.T) {
		cfg, logs := observedConfig(zapcore.InfoLevel, NewDefault(1))
		_, err := cfg.Get("a__b")
		require.NoError(t, err)
		_, err = cfg.Get(P("a__b"))
		require.NoError(t, err)

		entries := logs.All()
		require.Len(t, entries, 2)
		assert.Equal(t, "config [a b] = 1 (default default)", entries[0].Message)
		assert.Equal(t, "[a b]", entries[0].ContextMap()["key"])
		assert.Equal(t, "config a__b = 1 (default default)", entries[1].Message)
		assert.Equal(t, "a__b", entries[1].ContextMap()["key"])
	})

	t.Run("MissesNotLogged", func(t *testing.T) {
		cfg, logs := observedConfig(zapcore.InfoLevel)
		_, err := cfg.Get("absent")
		require.NoError(t, err)
		assert.Zero(t, logs.Len())
	})

	t.Run("HideValue", func(t *testing.T) {
		cfg, logs := observedConfig(zapcore.WarnLevel, NewDefault("s3cret", Named("vault")))
		_, err := cfg.Get("password", HideValue())
		require.NoError(t, err)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "config password = <not logging value> (default vault)", entry.Message)
		assert.NotContains(t, entry.Message, "s3cret")
	})

	t.Run("NotSetDisables", func(t *testing.T) {
		cfg, logs := observedConfig(LevelNotSet, NewDefault(1))
		_, err := cfg.Get("a")
		require.NoError(t, err)
		assert.Zero(t, logs.Len())
	})

	t.Run("LogAtOverrides", func(t *testing.T) {
		cfg, logs := observedConfig(LevelNotSet, NewDefault(1))
		_, err := cfg.Get("a", LogAt(zapcore.DebugLevel))
		require.NoError(t, err)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)

		_, err = cfg.Get("b", LogAt(LevelNotSet))
		require.NoError(t, err)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("FatalClampedToError", func(t *testing.T) {
		cfg, logs := observedConfig(zapcore.FatalLevel, NewDefault(1))
		_, err := cfg.Get("a")
		require.NoError(t, err)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
	})

	t.Run("LogCachedReplays", func(t *testing.T) {
		cfg, logs := observedConfig(LevelNotSet, NewDefault("v"))
		_, err := cfg.Get("first")
		require.NoError(t, err)
		_, err = cfg.Get("second", HideValue())
		require.NoError(t, err)
		assert.Zero(t, logs.Len())

		cfg.LogCachedAt(zapcore.InfoLevel)
		entries := logs.All()
		require.Len(t, entries, 2)
		assert.Equal(t, `config first = "v" (default default)`, entries[0].Message)
		assert.Equal(t, "config second = <not logging value> (default default)", entries[1].Message)

		cfg.SetLogLevel(zapcore.WarnLevel)
		cfg.LogCached()
		assert.Equal(t, 4, logs.Len())
		assert.Equal(t, 2, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	})

	t.Run("NilLogger", func(t *testing.T) {
		cfg := New(NewDefault(1))
		cfg.SetLogger(nil)
		cfg.SetLogLevel(zapcore.InfoLevel)
		assert.NotPanics(t, func() { _, _ = cfg.Get("a") })
	})
}

// countingSource counts lookups to check that concurrent resolution settles on one entry
type countingSource struct {
	mu    sync.Mutex
	calls int
}

func (s *countingSource) Get(p Path) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return fmt.Sprintf("%s#%d", p, s.calls)
}

func (s *countingSource) Name() string { return "counter" }
func (s *countingSource) Kind() Kind   { return KindProps }

func TestConfigConcurrency(t *testing.T) {
	src := &countingSource{}
	cfg, logs := observedConfig(zapcore.InfoLevel, src)

	const workers = 32
	results := make([]any, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, err := cfg.Get("shared")
			assert.NoError(t, err)
			results[i] = value
		}(i)
	}
	wg.Wait()

	for _, value := range results {
		assert.Equal(t, results[0], value, "every goroutine sees the winning value")
	}
	assert.Equal(t, 1, logs.Len(), "only the winning entry is logged")
	assert.Len(t, cfg.Cached(), 1)
}
