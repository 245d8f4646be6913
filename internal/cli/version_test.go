package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/buildinfo"
)

func TestVersionCmd_HumanReadable(t *testing.T) {
	out, code := runCLI(t, "version")
	assert.Equal(t, 0, code)

	info := buildinfo.GetInfo()
	assert.Contains(t, out, "taskdag v")
	assert.Contains(t, out, info.Version)
	assert.Contains(t, out, info.Commit)
	assert.Contains(t, out, info.Date)
}

func TestVersionCmd_JSONOutput(t *testing.T) {
	out, code := runCLI(t, "version", "--json")
	assert.Equal(t, 0, code)

	var got buildinfo.Info
	require.NoError(t, json.Unmarshal([]byte(out), &got), "output should be valid JSON: %s", out)
	assert.Equal(t, buildinfo.GetInfo(), got)
	assert.Contains(t, out, "\n  \"version\"", "JSON should be indented")
	assert.Contains(t, out, "\"go_version\"")
}

func TestVersionCmd_RejectsExtraArgs(t *testing.T) {
	var code int
	stderr := captureStderr(t, func() {
		_, code = runCLI(t, "version", "extra")
	})
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestVersionCmd_Metadata(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.NotEmpty(t, versionCmd.Short)
	require.NotNil(t, versionCmd.Flags().Lookup("json"))
	assert.Equal(t, "false", versionCmd.Flags().Lookup("json").DefValue)
}
