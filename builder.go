// File: lixenwraith/layerconf/builder.go
package layerconf

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Builder provides a fluent interface for building configurations.
// Sources are added in precedence order: the first added is checked first.
type Builder struct {
	sources  []Source
	logger   *zap.Logger
	logLevel zapcore.Level
	args     []string
	errs     []error
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{
		logger:   zap.NewNop(),
		logLevel: LevelNotSet,
		args:     os.Args[1:],
	}
}

// WithLogger sets the logger for resolved keys
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithLogLevel sets the level resolved keys are logged at
func (b *Builder) WithLogLevel(level zapcore.Level) *Builder {
	b.logLevel = level
	return b
}

// WithArgs sets the command-line arguments used by file discovery
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithSource appends an already constructed source
func (b *Builder) WithSource(src Source) *Builder {
	if !isNil(src) {
		b.sources = append(b.sources, src)
	}
	return b
}

// WithEnv appends an environment source
func (b *Builder) WithEnv(opts ...SourceOption) *Builder {
	return b.WithSource(NewEnv(opts...))
}

// WithDict appends a map source
func (b *Builder) WithDict(data any, opts ...SourceOption) *Builder {
	return b.WithSource(NewDict(data, opts...))
}

// WithProps appends an object source
func (b *Builder) WithProps(obj any, opts ...SourceOption) *Builder {
	return b.WithSource(NewProps(obj, opts...))
}

// WithDefault appends a constant source
func (b *Builder) WithDefault(value any, opts ...SourceOption) *Builder {
	return b.WithSource(NewDefault(value, opts...))
}

// WithINIFile appends an INI file source; load errors are reported by Build
func (b *Builder) WithINIFile(path string, opts ...SourceOption) *Builder {
	src, err := NewINIFile(path, opts...)
	return b.add(src, err)
}

// WithScriptFile appends a Lua script source; load errors are reported by Build
func (b *Builder) WithScriptFile(path string, opts ...SourceOption) *Builder {
	src, err := NewScriptFile(path, opts...)
	return b.add(src, err)
}

// WithFile appends a TOML, JSON or YAML file source; load errors are reported by Build
func (b *Builder) WithFile(path string, opts ...SourceOption) *Builder {
	src, err := NewFile(path, opts...)
	return b.add(src, err)
}

// WithFileContent appends a file content source; load errors are reported by Build
func (b *Builder) WithFileContent(path string, opts ...SourceOption) *Builder {
	src, err := NewFileContent(path, opts...)
	return b.add(src, err)
}

// WithFileDiscovery appends a source for the discovered config file, if any.
// No file found is not an error, the app can run with the other sources.
func (b *Builder) WithFileDiscovery(discovery FileDiscoveryOptions, opts ...SourceOption) *Builder {
	path, found := Discover(discovery, b.args)
	if !found {
		return b
	}
	src, err := NewDiscoveredSource(path, opts...)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	return b.WithSource(src)
}

func (b *Builder) add(src Source, err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	return b.WithSource(src)
}

// Build creates the Config. Every source that failed to load is reported in the joined error.
func (b *Builder) Build() (*Config, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	cfg := New(b.sources...)
	cfg.SetLogger(b.logger)
	cfg.SetLogLevel(b.logLevel)
	return cfg, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}
