// FILE: lixenwraith/layerconf/example/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lixenwraith/layerconf"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServerDefaults is the compiled-in configuration, read as an object source.
type ServerDefaults struct {
	Server struct {
		Host string `toml:"host"`
		Port int64  `toml:"port"`
	} `toml:"server"`
	LogLevel string `toml:"log_level"`
}

func main() {
	// =========================================================================
	// PART 1: INITIAL SETUP
	// Write a config file, an INI override and a secret to a scratch directory.
	// =========================================================================
	dir, err := os.MkdirTemp("", "layerconf-example")
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer os.RemoveAll(dir)

	configFile := filepath.Join(dir, "app.toml")
	overrideFile := filepath.Join(dir, "override.ini")
	secretFile := filepath.Join(dir, "db_password")
	mustWrite(configFile, "[server]\nhost = \"0.0.0.0\"\n\n[database]\nname = \"orders\"\n")
	mustWrite(overrideFile, "[server]\nport = 9443\n")
	mustWrite(secretFile, "hunter2\n")

	os.Setenv("EXAMPLE_DATABASE_NAME", "orders_staging")
	defer os.Unsetenv("EXAMPLE_DATABASE_NAME")

	defaults := ServerDefaults{LogLevel: "info"}
	defaults.Server.Host = "localhost"
	defaults.Server.Port = 8080

	// =========================================================================
	// PART 2: BUILD THE SOURCE ORDER
	// Environment first, then files, then compiled-in defaults.
	// =========================================================================
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer logger.Sync()

	cfg, err := layerconf.NewBuilder().
		WithLogger(logger).
		WithLogLevel(zapcore.InfoLevel).
		WithEnv(layerconf.Named("env:EXAMPLE_"), layerconf.WithMapping(layerconf.EnvTransform("EXAMPLE_"))).
		WithINIFile(overrideFile).
		WithFile(configFile).
		WithFileContent(secretFile, layerconf.Include(layerconf.P("database", "password"))).
		WithProps(defaults, layerconf.Named("defaults")).
		Build()
	if err != nil {
		log.Fatalf("FATAL: failed to build config: %v", err)
	}

	// =========================================================================
	// PART 3: RESOLVE KEYS
	// Each key is logged once with the source it came from.
	// =========================================================================
	for _, key := range []string{"server__host", "server__port", "database__name", "log_level"} {
		value, src, err := cfg.GetWithSource(key)
		if err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		fmt.Printf("%-16s %-16v from %s %s\n", key, value, src.Kind(), src.Name())
	}

	password, err := cfg.Get("database__password", layerconf.HideValue())
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	fmt.Printf("%-16s %d characters\n", "database__password", len(password.(string)))

	timeout, err := cfg.Get("server__timeout", layerconf.OrDefault("30s"))
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	fmt.Printf("%-16s %v\n", "server__timeout", timeout)

	// =========================================================================
	// PART 4: EXPORT
	// Dump what was resolved; the password stays redacted.
	// =========================================================================
	fmt.Println("\n--- resolved configuration ---")
	if err := cfg.Dump(os.Stdout); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func mustWrite(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		log.Fatalf("FATAL: failed to write %s: %v", path, err)
	}
}
