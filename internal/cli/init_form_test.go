package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/config"
)

// stubInitForm replaces the form runner and terminal check for one test.
// answer is called with the pre-filled answers and may edit them.
func stubInitForm(t *testing.T, tty bool, answer func(a *initAnswers, starters []string) error) {
	t.Helper()
	origRunner, origTTY := initFormRunner, stdinIsTerminal
	t.Cleanup(func() {
		initFormRunner = origRunner
		stdinIsTerminal = origTTY
	})
	initFormRunner = answer
	stdinIsTerminal = func() bool { return tty }
}

// TestErrInitCancelled verifies that the sentinel error carries the expected
// message text.
func TestErrInitCancelled(t *testing.T) {
	require.NotNil(t, ErrInitCancelled)
	assert.Equal(t, "init cancelled by user", ErrInitCancelled.Error())
}

func TestNewInitForm_Builds(t *testing.T) {
	answers := &initAnswers{Starter: "yaml", GraphName: "g", RankDir: "LR"}
	form := newInitForm(answers, []string{"hcl", "json", "yaml"})
	require.NotNil(t, form)

	// Building the form must not disturb the pre-filled answers.
	assert.Equal(t, "yaml", answers.Starter)
	assert.Equal(t, "g", answers.GraphName)
	assert.Equal(t, "LR", answers.RankDir)
}

func TestMapInitFormErr(t *testing.T) {
	assert.NoError(t, mapInitFormErr(nil))
	assert.ErrorIs(t, mapInitFormErr(huh.ErrUserAborted), ErrInitCancelled)

	other := errors.New("boom")
	err := mapInitFormErr(other)
	require.Error(t, err)
	assert.ErrorIs(t, err, other)
	assert.False(t, errors.Is(err, ErrInitCancelled))
	assert.Contains(t, err.Error(), "init form")
}

func TestValidateGraphName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "graphname"},
		{input: "pipeline_2"},
		{input: "  padded  "},
		{input: "", wantErr: true},
		{input: "my graph", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validateGraphName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeRankDir(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "LR", want: "LR"},
		{input: "tb", want: "TB"},
		{input: " bt ", want: "BT"},
		{input: "UP", want: config.DefaultRankDir},
		{input: "", want: config.DefaultRankDir},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeRankDir(tt.input))
		})
	}
}

func TestInitCmd_InteractiveUsesAnswers(t *testing.T) {
	dir := chdirTemp(t)

	var seen initAnswers
	var seenStarters []string
	stubInitForm(t, true, func(a *initAnswers, starters []string) error {
		seen = *a
		seenStarters = starters
		a.Starter = "hcl"
		a.GraphName = "deploy"
		a.RankDir = "BT"
		return nil
	})

	stderr, code := runInitCaptured(t, "--interactive", "--rankdir", "tb")
	require.Equal(t, 0, code, stderr)

	// The form opens pre-filled from arguments and flags.
	assert.Equal(t, config.DefaultTemplate, seen.Starter)
	assert.Equal(t, config.DefaultGraphName, seen.GraphName)
	assert.Equal(t, "TB", seen.RankDir)
	assert.ElementsMatch(t, []string{"hcl", "json", "yaml"}, seenStarters)

	assert.FileExists(t, filepath.Join(dir, "tasks.hcl"))
	cfg, _, err := config.LoadFromFile(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "deploy", cfg.Render.GraphName)
	assert.Equal(t, "BT", cfg.Render.RankDir)
}

func TestInitCmd_InteractiveShortFlag(t *testing.T) {
	dir := chdirTemp(t)

	called := false
	stubInitForm(t, true, func(a *initAnswers, _ []string) error {
		called = true
		return nil
	})

	_, code := runInitCaptured(t, "json", "-i")
	require.Equal(t, 0, code)
	assert.True(t, called)
	assert.FileExists(t, filepath.Join(dir, "tasks.json"))
}

func TestInitCmd_InteractiveCancelled(t *testing.T) {
	dir := chdirTemp(t)
	stubInitForm(t, true, func(*initAnswers, []string) error {
		return ErrInitCancelled
	})

	stderr, code := runInitCaptured(t, "--interactive")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "init cancelled by user")
	assert.NoFileExists(t, filepath.Join(dir, config.ConfigFileName))
}

func TestInitCmd_InteractiveRequiresTerminal(t *testing.T) {
	dir := chdirTemp(t)
	stubInitForm(t, false, func(*initAnswers, []string) error {
		t.Fatal("form must not run without a terminal")
		return nil
	})

	stderr, code := runInitCaptured(t, "--interactive")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "requires a terminal")
	assert.NoFileExists(t, filepath.Join(dir, config.ConfigFileName))
}

func TestInitCmd_InteractiveAnswersAreValidated(t *testing.T) {
	dir := chdirTemp(t)
	stubInitForm(t, true, func(a *initAnswers, _ []string) error {
		a.GraphName = "two words"
		return nil
	})

	stderr, code := runInitCaptured(t, "--interactive")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "render.graph_name")
	assert.NoFileExists(t, filepath.Join(dir, config.ConfigFileName))
}

func TestInitCmd_FlagPathSkipsForm(t *testing.T) {
	chdirTemp(t)
	stubInitForm(t, true, func(*initAnswers, []string) error {
		t.Fatal("form must only run with --interactive")
		return nil
	})

	_, code := runInitCaptured(t, "yaml")
	assert.Equal(t, 0, code)
}

func TestIsStdinTTY_RegularFile_ReturnsFalse(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	orig := os.Stdin
	os.Stdin = f
	t.Cleanup(func() { os.Stdin = orig })

	assert.False(t, isStdinTTY())
}
