// FILE: lixenwraith/layerconf/config.go
package layerconf

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelNotSet disables logging of resolved keys.
const LevelNotSet = zapcore.InvalidLevel

// hiddenValue replaces values whose logging was suppressed.
const hiddenValue = "<not logging value>"

// cacheEntry is a resolved key together with its origin
type cacheEntry struct {
	path     Path
	value    any
	source   Source
	logValue bool
}

// CachedValue describes one resolved key, as returned by Cached.
type CachedValue struct {
	Path   Path
	Value  any
	Source Source
	// Hidden is true when the value was resolved with HideValue.
	Hidden bool
}

// Config resolves keys against an ordered list of sources and caches the first hit.
// Once a key is cached, later lookups return the cached value whatever the sources or call options.
type Config struct {
	sources  []Source
	logger   *zap.Logger
	logLevel zapcore.Level
	cache    map[string]*cacheEntry // Maps path ids to resolved entries
	order    []string               // Cache insertion order
	mutex    sync.Mutex             // Protects sources and cache
}

// New creates a Config that checks sources in the given order. Logging is off.
func New(sources ...Source) *Config {
	return &Config{
		sources:  append([]Source(nil), sources...),
		logger:   zap.NewNop(),
		logLevel: LevelNotSet,
		cache:    make(map[string]*cacheEntry),
	}
}

// GetOption adjusts a single lookup
type GetOption func(*getOptions)

type getOptions struct {
	sources  []Source
	def      any
	logLevel *zapcore.Level
	logValue bool
}

// Using checks the given sources, in order, instead of the configured ones.
func Using(sources ...Source) GetOption {
	return func(o *getOptions) {
		o.sources = sources
	}
}

// OrDefault resolves to v when no source has the key. The default is cached like any other value.
func OrDefault(v any) GetOption {
	return func(o *getOptions) {
		o.def = v
	}
}

// LogAt overrides the Config log level for this lookup. LevelNotSet turns logging off.
func LogAt(level zapcore.Level) GetOption {
	return func(o *getOptions) {
		o.logLevel = &level
	}
}

// HideValue logs the key and its source but not the value.
func HideValue() GetOption {
	return func(o *getOptions) {
		o.logValue = false
	}
}

// Get returns the value for key, or nil if no source has it.
// The only error is ErrInvalidKey.
func (c *Config) Get(key any, opts ...GetOption) (any, error) {
	value, _, err := c.GetWithSource(key, opts...)
	return value, err
}

// Source returns the source key resolved from, or nil if no source has it.
func (c *Config) Source(key any, opts ...GetOption) (Source, error) {
	_, source, err := c.GetWithSource(key, opts...)
	return source, err
}

// Value is shorthand for Get with a flat key and default options, returning nil when absent.
func (c *Config) Value(name string) any {
	value, _, _ := c.GetWithSource(name)
	return value
}

// GetWithSource returns the value for key and the source it came from.
// Both are nil when neither the sources nor the default have the key; nothing is cached then.
func (c *Config) GetWithSource(key any, opts ...GetOption) (any, Source, error) {
	path, err := ToPath(key)
	if err != nil {
		return nil, nil, err
	}

	o := getOptions{logValue: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	id := path.id()

	c.mutex.Lock()
	if entry, ok := c.cache[id]; ok {
		c.mutex.Unlock()
		return entry.value, entry.source, nil
	}
	sources := o.sources
	if len(sources) == 0 {
		sources = append([]Source(nil), c.sources...)
	}
	c.mutex.Unlock()

	// Sources are consulted without the lock
	value, source := resolve(path, sources, o.def)
	if value == nil {
		return nil, nil, nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if entry, ok := c.cache[id]; ok {
		// Resolved concurrently, first one wins
		return entry.value, entry.source, nil
	}
	entry := &cacheEntry{path: path, value: value, source: source, logValue: o.logValue}
	c.cache[id] = entry
	c.order = append(c.order, id)

	level := c.logLevel
	if o.logLevel != nil {
		level = *o.logLevel
	}
	c.log(entry, level)

	return value, source, nil
}

// resolve returns the first non-nil value and its source, falling back to a default source.
func resolve(path Path, sources []Source, def any) (any, Source) {
	for _, source := range sources {
		if isNil(source) {
			continue
		}
		if value := source.Get(path); !isNil(value) {
			return value, source
		}
	}
	if !isNil(def) {
		source := NewDefault(def)
		return source.Get(path), source
	}
	return nil, nil
}

// Sources returns a copy of the configured source order.
func (c *Config) Sources() []Source {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]Source(nil), c.sources...)
}

// SetSources replaces the source order. Keys already cached are not affected.
func (c *Config) SetSources(sources ...Source) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sources = append([]Source(nil), sources...)
}

// SetLogger sets the logger used for resolved keys. A nil logger disables output.
func (c *Config) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.logger = logger
}

// SetLogLevel sets the level resolved keys are logged at. LevelNotSet turns logging off.
func (c *Config) SetLogLevel(level zapcore.Level) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.logLevel = level
}

// LogCached logs every cached key in resolution order at the Config log level.
// Useful when logging is set up after configuration has been read.
func (c *Config) LogCached() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.logCached(c.logLevel)
}

// LogCachedAt is LogCached at the given level.
func (c *Config) LogCachedAt(level zapcore.Level) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.logCached(level)
}

func (c *Config) logCached(level zapcore.Level) {
	for _, id := range c.order {
		c.log(c.cache[id], level)
	}
}

// Cached returns the resolved keys in resolution order.
func (c *Config) Cached() []CachedValue {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	result := make([]CachedValue, 0, len(c.order))
	for _, id := range c.order {
		entry := c.cache[id]
		result = append(result, CachedValue{
			Path:   entry.path.Clone(),
			Value:  entry.value,
			Source: entry.source,
			Hidden: !entry.logValue,
		})
	}
	return result
}

// Reset drops all cached values so keys are resolved again on next use.
func (c *Config) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.cache = make(map[string]*cacheEntry)
	c.order = nil
}

// log writes one line for a resolved key. Caller holds the lock.
func (c *Config) log(entry *cacheEntry, level zapcore.Level) {
	if level == LevelNotSet || level < zapcore.DebugLevel {
		return
	}
	// Panic and fatal levels would abort the process
	if level > zapcore.ErrorLevel {
		level = zapcore.ErrorLevel
	}

	value := hiddenValue
	if entry.logValue {
		value = fmt.Sprintf("%#v", entry.value)
	}
	kind, name := sourceLabel(entry.source)

	key := displayKey(entry.path)
	c.logger.Log(level, fmt.Sprintf("config %s = %s (%s %s)", key, value, kind, name),
		zap.String("key", key),
		zap.String("source_kind", kind),
		zap.String("source", name),
	)
}

// displayKey renders a path for log lines: the bare name for a single segment, else the
// bracketed segments, so P("a__b") and P("a", "b") log differently.
func displayKey(p Path) string {
	if flat, ok := AsFlat(p).(string); ok {
		return flat
	}
	return fmt.Sprint([]string(p))
}

func sourceLabel(source Source) (string, string) {
	if source == nil {
		return "", ""
	}
	return string(source.Kind()), source.Name()
}
