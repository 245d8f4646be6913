package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfigSource identifies where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value came from built-in defaults.
	SourceDefault ConfigSource = "default"
	// SourceFile indicates the value came from the taskdag.toml config file.
	SourceFile ConfigSource = "file"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
	// SourceCLI indicates the value came from a CLI flag.
	SourceCLI ConfigSource = "cli"
)

// Keys lists every configuration key as a dotted path, in display order.
var Keys = []string{
	"input.format",
	"render.graph_name",
	"render.rankdir",
	"render.id_prefix",
	"output.format",
	"output.concurrency",
}

// envKeys maps environment variables to the configuration key they set.
var envKeys = map[string]string{
	"TASKDAG_INPUT_FORMAT":  "input.format",
	"TASKDAG_GRAPH_NAME":    "render.graph_name",
	"TASKDAG_RANKDIR":       "render.rankdir",
	"TASKDAG_ID_PREFIX":     "render.id_prefix",
	"TASKDAG_OUTPUT_FORMAT": "output.format",
	"TASKDAG_CONCURRENCY":   "output.concurrency",
}

// ResolvedConfig holds the fully-resolved configuration with source tracking.
type ResolvedConfig struct {
	Config  *Config
	Sources map[string]ConfigSource // key is dotted path, e.g., "render.rankdir"
	Path    string                  // path to the config file used (empty if none)
}

// CLIOverrides captures flag values that can override configuration.
// A nil pointer means "not set".
type CLIOverrides struct {
	InputFormat  *string
	GraphName    *string
	RankDir      *string
	IDPrefix     *string
	OutputFormat *string
	Concurrency  *int
}

// EnvFunc looks up environment variables. Injected for testability.
type EnvFunc func(key string) (string, bool)

// Resolve merges configuration from all sources in priority order:
// CLI flags > environment variables > config file > defaults.
//
// A nil fileConfig means no file was found. The only error is an environment
// variable whose value cannot be parsed for its key's type.
func Resolve(defaults *Config, fileConfig *Config, envFn EnvFunc, overrides *CLIOverrides) (*ResolvedConfig, error) {
	if defaults == nil {
		defaults = &Config{}
	}
	if envFn == nil {
		envFn = func(string) (string, bool) { return "", false }
	}
	if overrides == nil {
		overrides = &CLIOverrides{}
	}

	cfg := *defaults
	rc := &ResolvedConfig{
		Config:  &cfg,
		Sources: make(map[string]ConfigSource, len(Keys)),
	}
	for _, key := range Keys {
		rc.Sources[key] = SourceDefault
	}

	if fileConfig != nil {
		f := fileConfig
		mergeString(&cfg.Input.Format, f.Input.Format, "input.format", SourceFile, rc.Sources)
		mergeString(&cfg.Render.GraphName, f.Render.GraphName, "render.graph_name", SourceFile, rc.Sources)
		mergeString(&cfg.Render.RankDir, f.Render.RankDir, "render.rankdir", SourceFile, rc.Sources)
		mergeString(&cfg.Render.IDPrefix, f.Render.IDPrefix, "render.id_prefix", SourceFile, rc.Sources)
		mergeString(&cfg.Output.Format, f.Output.Format, "output.format", SourceFile, rc.Sources)
		if f.Output.Concurrency != 0 {
			cfg.Output.Concurrency = f.Output.Concurrency
			rc.Sources["output.concurrency"] = SourceFile
		}
	}

	if err := resolveFromEnv(rc, envFn); err != nil {
		return nil, err
	}
	resolveFromCLI(rc, overrides)

	return rc, nil
}

// Environment variable mapping:
//
//	TASKDAG_INPUT_FORMAT   -> input.format
//	TASKDAG_GRAPH_NAME     -> render.graph_name
//	TASKDAG_RANKDIR        -> render.rankdir
//	TASKDAG_ID_PREFIX      -> render.id_prefix
//	TASKDAG_OUTPUT_FORMAT  -> output.format
//	TASKDAG_CONCURRENCY    -> output.concurrency
func resolveFromEnv(rc *ResolvedConfig, envFn EnvFunc) error {
	for _, name := range EnvVars() {
		val, ok := envFn(name)
		if !ok {
			continue
		}
		key := envKeys[name]
		if err := rc.set(key, val); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		rc.Sources[key] = SourceEnv
	}
	return nil
}

func resolveFromCLI(rc *ResolvedConfig, o *CLIOverrides) {
	c := rc.Config
	overrideString(&c.Input.Format, o.InputFormat, "input.format", rc.Sources)
	overrideString(&c.Render.GraphName, o.GraphName, "render.graph_name", rc.Sources)
	overrideString(&c.Render.RankDir, o.RankDir, "render.rankdir", rc.Sources)
	overrideString(&c.Render.IDPrefix, o.IDPrefix, "render.id_prefix", rc.Sources)
	overrideString(&c.Output.Format, o.OutputFormat, "output.format", rc.Sources)
	if o.Concurrency != nil {
		c.Output.Concurrency = *o.Concurrency
		rc.Sources["output.concurrency"] = SourceCLI
	}
}

// EnvVars returns the recognized environment variable names, sorted.
func EnvVars() []string {
	return []string{
		"TASKDAG_CONCURRENCY",
		"TASKDAG_GRAPH_NAME",
		"TASKDAG_ID_PREFIX",
		"TASKDAG_INPUT_FORMAT",
		"TASKDAG_OUTPUT_FORMAT",
		"TASKDAG_RANKDIR",
	}
}

// Value returns the resolved value of key formatted for display.
func (rc *ResolvedConfig) Value(key string) string {
	c := rc.Config
	switch key {
	case "input.format":
		return c.Input.Format
	case "render.graph_name":
		return c.Render.GraphName
	case "render.rankdir":
		return c.Render.RankDir
	case "render.id_prefix":
		return c.Render.IDPrefix
	case "output.format":
		return c.Output.Format
	case "output.concurrency":
		return strconv.Itoa(c.Output.Concurrency)
	default:
		return ""
	}
}

func (rc *ResolvedConfig) set(key, val string) error {
	c := rc.Config
	switch key {
	case "input.format":
		c.Input.Format = val
	case "render.graph_name":
		c.Render.GraphName = val
	case "render.rankdir":
		c.Render.RankDir = strings.ToUpper(val)
	case "render.id_prefix":
		c.Render.IDPrefix = val
	case "output.format":
		c.Output.Format = val
	case "output.concurrency":
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("invalid concurrency %q: must be an integer", val)
		}
		c.Output.Concurrency = n
	default:
		return fmt.Errorf("unknown configuration key %q", key)
	}
	return nil
}

// mergeString overwrites the target only if value is non-empty. An empty
// string in the file means "not set in file".
func mergeString(target *string, value string, path string, source ConfigSource, sources map[string]ConfigSource) {
	if value != "" {
		*target = value
		sources[path] = source
	}
}

func overrideString(target *string, value *string, path string, sources map[string]ConfigSource) {
	if value != nil {
		*target = *value
		sources[path] = SourceCLI
	}
}
