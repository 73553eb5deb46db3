// FILE: lixenwraith/layerconf/cmd/layerconf/root.go
package main

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/layerconf"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type rootOptions struct {
	sources  []string
	discover string
	config   string
	logLevel string
	hide     []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "layerconf",
		Short: "Resolve configuration keys across layered sources",
		Long: `layerconf resolves configuration keys against sources checked in the order given.

Sources (--source, repeatable, first has precedence):
  env               environment variables
  env:PREFIX_       environment variables named PREFIX_ + upper-cased key
  file:PATH         TOML, JSON or YAML file
  ini:PATH          INI file, keys are section__option
  script:PATH       Lua script, its globals are the keys
  content:PATH      file content for every key
  default:VALUE     constant for every key

Keys are split on "__": server__port is the path (server, port).

A config file given with --config, or found with --discover, is checked after the sources.
Its kind follows the extension: .ini, .lua, else TOML, JSON or YAML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringArrayVarP(&opts.sources, "source", "s", []string{"env"}, "config source as kind[:arg]")
	flags.StringVar(&opts.discover, "discover", "", "discover a config file for this app name and check it after the sources")
	flags.StringVar(&opts.config, "config", "", "config file checked after the sources, overrides discovery")
	flags.StringVar(&opts.logLevel, "log-level", "none", "log resolved keys at this level (debug, info, warn, error, none)")
	flags.StringSliceVar(&opts.hide, "hide", nil, "keys whose values are not logged or printed")

	rootCmd.AddCommand(newGetCmd(opts), newDumpCmd(opts))
	return rootCmd
}

// buildConfig creates the Config described by the flags
func buildConfig(opts *rootOptions) (*layerconf.Config, *zap.Logger, error) {
	level, err := parseLogLevel(opts.logLevel)
	if err != nil {
		return nil, nil, err
	}

	logger := zap.NewNop()
	if level != layerconf.LevelNotSet {
		zapCfg := zap.NewDevelopmentConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		zapCfg.DisableStacktrace = true
		if logger, err = zapCfg.Build(); err != nil {
			return nil, nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	builder := layerconf.NewBuilder().
		WithLogger(logger).
		WithLogLevel(level)

	for _, spec := range opts.sources {
		if err := addSource(builder, spec); err != nil {
			return nil, nil, err
		}
	}
	if opts.discover != "" || opts.config != "" {
		name := opts.discover
		if name == "" {
			name = "layerconf"
		}
		discovery := layerconf.DefaultDiscoveryOptions(name)

		// Discovery looks for the flag in the args it is given, not in cobra's parsed flags
		var discoveryArgs []string
		if opts.config != "" {
			discoveryArgs = []string{discovery.CLIFlag, opts.config}
		}
		builder.WithArgs(discoveryArgs).WithFileDiscovery(discovery)
	}

	cfg, err := builder.Build()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// addSource parses one kind[:arg] source spec and adds it to the builder
func addSource(b *layerconf.Builder, spec string) error {
	kind, arg, hasArg := strings.Cut(spec, ":")
	needArg := func() error {
		if !hasArg || arg == "" {
			return fmt.Errorf("source %q needs an argument (%s:...)", spec, kind)
		}
		return nil
	}

	switch layerconf.Kind(kind) {
	case layerconf.KindEnv:
		if arg == "" {
			b.WithEnv()
		} else {
			b.WithEnv(layerconf.Named("env:"+arg), layerconf.WithMapping(layerconf.EnvTransform(arg)))
		}
	case layerconf.KindFile:
		if err := needArg(); err != nil {
			return err
		}
		b.WithFile(arg)
	case layerconf.KindINI:
		if err := needArg(); err != nil {
			return err
		}
		b.WithINIFile(arg)
	case layerconf.KindScript:
		if err := needArg(); err != nil {
			return err
		}
		b.WithScriptFile(arg)
	case layerconf.KindContent:
		if err := needArg(); err != nil {
			return err
		}
		b.WithFileContent(arg, layerconf.TolerateMissing(false))
	case layerconf.KindDefault:
		if !hasArg {
			return fmt.Errorf("source %q needs a value (default:VALUE)", spec)
		}
		b.WithDefault(arg)
	default:
		return fmt.Errorf("unknown source kind %q in %q", kind, spec)
	}
	return nil
}

// parseLogLevel accepts zap level names and "none"
func parseLogLevel(text string) (zapcore.Level, error) {
	if text == "" || strings.EqualFold(text, "none") {
		return layerconf.LevelNotSet, nil
	}
	level, err := zapcore.ParseLevel(text)
	if err != nil {
		return layerconf.LevelNotSet, fmt.Errorf("invalid log level %q: %w", text, err)
	}
	return level, nil
}

// resolveAll resolves keys in order, hiding the values of keys listed in hide
func resolveAll(cfg *layerconf.Config, keys, hide []string) ([]resolved, error) {
	hidden := make(map[string]bool, len(hide))
	for _, k := range hide {
		hidden[k] = true
	}

	results := make([]resolved, 0, len(keys))
	for _, key := range keys {
		var getOpts []layerconf.GetOption
		if hidden[key] {
			getOpts = append(getOpts, layerconf.HideValue())
		}
		value, src, err := cfg.GetWithSource(key, getOpts...)
		if err != nil {
			return nil, err
		}
		results = append(results, resolved{key: key, value: value, source: src, hidden: hidden[key]})
	}
	return results, nil
}

type resolved struct {
	key    string
	value  any
	source layerconf.Source
	hidden bool
}

func (r resolved) String() string {
	if r.source == nil {
		return fmt.Sprintf("%s is not set", r.key)
	}
	value := fmt.Sprintf("%v", r.value)
	if r.hidden {
		value = "<hidden>"
	}
	return fmt.Sprintf("%s = %s (%s %s)", r.key, value, r.source.Kind(), r.source.Name())
}
