package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/config"
)

// runInitCaptured runs "taskdag init [args...]" in the current directory and
// returns stderr, where init reports progress, and the exit code.
func runInitCaptured(t *testing.T, args ...string) (string, int) {
	t.Helper()
	var code int
	stderr := captureStderr(t, func() {
		resetRootCmd(t)
		rootCmd.SetErr(os.Stderr)
		rootCmd.SetArgs(append([]string{"init"}, args...))
		code = Execute()
	})
	return stderr, code
}

func TestInitCmd_Metadata(t *testing.T) {
	assert.Equal(t, "init [starter]", initCmd.Use)
	assert.ElementsMatch(t, []string{"yaml", "json", "hcl"}, initCmd.ValidArgs)
	for _, name := range []string{"graph-name", "rankdir", "force", "interactive"} {
		assert.NotNil(t, initCmd.Flags().Lookup(name), "flag %q", name)
	}
}

func TestInitCmd_Starters(t *testing.T) {
	tests := []struct {
		args      []string
		tasksFile string
	}{
		{args: nil, tasksFile: "tasks.yaml"},
		{args: []string{"yaml"}, tasksFile: "tasks.yaml"},
		{args: []string{"json"}, tasksFile: "tasks.json"},
		{args: []string{"hcl"}, tasksFile: "tasks.hcl"},
	}

	for _, tt := range tests {
		t.Run(tt.tasksFile, func(t *testing.T) {
			dir := chdirTemp(t)

			stderr, code := runInitCaptured(t, tt.args...)
			require.Equal(t, 0, code, stderr)
			assert.FileExists(t, filepath.Join(dir, config.ConfigFileName))
			assert.FileExists(t, filepath.Join(dir, tt.tasksFile))
			assert.Contains(t, stderr, "Created files:")
			assert.Contains(t, stderr, tt.tasksFile)
			assert.Contains(t, stderr, "Next steps:")
		})
	}
}

func TestInitCmd_WrittenConfigIsValid(t *testing.T) {
	dir := chdirTemp(t)

	_, code := runInitCaptured(t, "hcl", "--graph-name", "pipeline", "--rankdir", "tb")
	require.Equal(t, 0, code)

	cfg, meta, err := config.LoadFromFile(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "hcl", cfg.Input.Format)
	assert.Equal(t, "pipeline", cfg.Render.GraphName)
	assert.Equal(t, "TB", cfg.Render.RankDir)
	assert.False(t, config.Validate(cfg, &meta).HasErrors())

	var raw map[string]any
	_, err = toml.DecodeFile(filepath.Join(dir, config.ConfigFileName), &raw)
	require.NoError(t, err)
}

func TestInitCmd_StarterRendersAndPrunes(t *testing.T) {
	chdirTemp(t)

	_, code := runInitCaptured(t, "json")
	require.Equal(t, 0, code)

	out, code := runCLI(t, "current", "tasks.json")
	require.Equal(t, 0, code)
	assert.Equal(t, "build\n", out)
}

func TestInitCmd_ExistingConfig(t *testing.T) {
	dir := chdirTemp(t)
	writeConfig(t, dir, "# mine\n")

	stderr, code := runInitCaptured(t)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "already exists")

	data, err := os.ReadFile(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data), "existing file must be kept")

	_, code = runInitCaptured(t, "--force")
	assert.Equal(t, 0, code)
	data, err = os.ReadFile(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[render]")
}

func TestInitCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown starter", args: []string{"xml"}, want: `starter "xml" not found`},
		{name: "path traversal", args: []string{"../yaml"}, want: "not found"},
		{name: "bad rankdir", args: []string{"--rankdir", "UP"}, want: "render.rankdir"},
		{name: "bad graph name", args: []string{"--graph-name", "my graph"}, want: "render.graph_name"},
		{name: "two starters", args: []string{"yaml", "json"}, want: "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := chdirTemp(t)

			stderr, code := runInitCaptured(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
			assert.NoFileExists(t, filepath.Join(dir, config.ConfigFileName))
		})
	}
}

func TestInitCmd_RespectsGlobalDirFlag(t *testing.T) {
	chdirTemp(t)
	target := t.TempDir()

	_, code := runInitCaptured(t, "--dir", target)
	require.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(target, config.ConfigFileName))
}
