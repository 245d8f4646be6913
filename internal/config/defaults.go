package config

// Default values for every configuration key.
const (
	DefaultGraphName   = "graphname"
	DefaultRankDir     = "LR"
	DefaultIDPrefix    = "task_"
	DefaultOutput      = "json"
	DefaultConcurrency = 4
)

// NewDefaults returns a Config populated with all default values.
func NewDefaults() *Config {
	return &Config{
		Render: RenderConfig{
			GraphName: DefaultGraphName,
			RankDir:   DefaultRankDir,
			IDPrefix:  DefaultIDPrefix,
		},
		Output: OutputConfig{
			Format:      DefaultOutput,
			Concurrency: DefaultConcurrency,
		},
	}
}
