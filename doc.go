// File: lixenwraith/layerconf/doc.go

// Package layerconf resolves configuration keys across an ordered list of sources,
// remembering which source each value came from.
//
// Sources:
//   - Dict: nested maps, read live
//   - Props: attributes of an object graph (struct fields by `toml` tag or name, map keys)
//   - Env: environment variables, read live, flat keys only
//   - Script: top-level bindings of a sandboxed Lua file
//   - INI: section/option pairs, keys of exactly two segments
//   - File: TOML, JSON or YAML documents
//   - FileContent: the whole content of a file for any key (secrets)
//   - Default: one constant for any key
//
// Keys:
// A key is a flat string or a Path. Strings are split on "__", so "server__port" is the
// path (server, port). A Path is never split, so P("A__B") looks up the single name A__B.
//
// Filters and mappings:
// Every source can restrict the keys it answers (Include, IncludeNames) and rename keys
// before the lookup (WithMapping, WithNameMap). The filter is checked first, on the key as
// requested, then the mapping is applied:
//
//	env := layerconf.NewEnv(
//	    layerconf.IncludeNames("user"),
//	    layerconf.WithNameMap(map[string]string{"user": "LOGNAME"}),
//	)
//
// Resolution:
//
//	cfg := layerconf.New(
//	    layerconf.NewEnv(layerconf.WithMapping(layerconf.EnvTransform("MYAPP_"))),
//	    layerconf.NewDict(map[string]any{"server": map[string]any{"port": 8080}}),
//	)
//	port, _ := cfg.Get("server__port")                            // MYAPP_SERVER_PORT, else 8080
//	host, _ := cfg.Get("server__host", layerconf.OrDefault("localhost"))
//
// The first source returning a non-nil value wins. The value and its source are cached for
// the life of the Config, so a key always resolves to the same value even if sources change
// or a later call passes other sources or defaults. Keys nothing resolves are not cached.
// Decode copies the cached keys into a struct tagged with `toml` names.
//
// Logging:
// With a zap logger and a level set, the first resolution of each key is logged with its
// value and source; HideValue keeps secrets out of the log and LogCached replays the cache.
//
// Thread Safety:
// A Config can be shared between goroutines. Sources are consulted outside the lock; if two
// goroutines resolve the same key at once, the first to finish wins and both see its value.
package layerconf
