// Package config loads taskdag.toml, merges it with environment and flag
// overrides, and validates the result.
package config

// Config is the top-level configuration structure mapping to taskdag.toml.
type Config struct {
	Input  InputConfig  `toml:"input"`
	Render RenderConfig `toml:"render"`
	Output OutputConfig `toml:"output"`
}

// InputConfig maps to the [input] section in taskdag.toml.
type InputConfig struct {
	// Format forces the input format; empty means detect from the file
	// extension.
	Format string `toml:"format" validate:"omitempty,oneof=json yaml yml toml hcl"`
}

// RenderConfig maps to the [render] section in taskdag.toml.
type RenderConfig struct {
	GraphName string `toml:"graph_name" validate:"required,dotid"`
	RankDir   string `toml:"rankdir" validate:"required,oneof=LR RL TB BT"`
	IDPrefix  string `toml:"id_prefix" validate:"required,dotid"`
}

// OutputConfig maps to the [output] section in taskdag.toml.
type OutputConfig struct {
	// Format is the declarative output format written by prune.
	Format string `toml:"format" validate:"required,oneof=json yaml"`
	// Concurrency bounds how many input files batch mode processes at once.
	Concurrency int `toml:"concurrency" validate:"min=1,max=64"`
}
