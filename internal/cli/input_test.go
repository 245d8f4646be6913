package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandInputs(t *testing.T) {
	dir := chdirTemp(t)
	for _, rel := range []string{"a.json", "b.yaml", "sub/c.json", "sub/deeper/d.json", "sub/notes.txt"} {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dir.json"), 0o755))

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "plain paths kept as given",
			args: []string{"missing.json", "./a.json"},
			want: []string{"missing.json", "a.json"},
		},
		{
			name: "single star",
			args: []string{"*.json"},
			want: []string{"a.json"},
		},
		{
			name: "double star",
			args: []string{"**/*.json"},
			want: []string{"a.json", filepath.Join("sub", "c.json"), filepath.Join("sub", "deeper", "d.json")},
		},
		{
			name: "alternatives",
			args: []string{"*.{json,yaml}"},
			want: []string{"a.json", "b.yaml"},
		},
		{
			name: "duplicates removed",
			args: []string{"a.json", "*.json", "a.json"},
			want: []string{"a.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandInputs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandInputs_NoMatch(t *testing.T) {
	chdirTemp(t)

	_, err := expandInputs([]string{"*.hcl"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matched no files")
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.dot")

	require.NoError(t, writeFileAtomic(path, []byte("one")))
	require.NoError(t, writeFileAtomic(path, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files may be left behind")
}

func TestResolveSettings_RejectsInvalidEnv(t *testing.T) {
	chdirTemp(t)
	resetRootCmd(t)
	t.Setenv("TASKDAG_OUTPUT_FORMAT", "xml")

	_, err := resolveSettings(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "output.format")
}
