package codec

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/graph"
)

// buildTest is the same two-task description written in every input format.
var buildTest = map[Format]string{
	FormatJSON: `{
  "build": {"data": {"lang": "go", "retries": 2, "cached": true, "owner": null}},
  "test": {"deps": ["build"]}
}`,
	FormatYAML: `build:
  data:
    lang: go
    retries: 2
    cached: true
    owner: null
test:
  deps: [build]
`,
	FormatTOML: `[build.data]
lang = "go"
retries = 2
cached = true

[test]
deps = ["build"]
`,
	FormatHCL: `task "build" {
  data = {
    lang    = "go"
    retries = 2
    cached  = true
    owner   = null
  }
}

task "test" {
  deps = ["build"]
}
`,
}

func TestDecode_AllFormatsAgree(t *testing.T) {
	t.Parallel()

	for format, src := range buildTest {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			spec, err := Decode(strings.NewReader(src), format)
			require.NoError(t, err)
			require.NoError(t, spec.Validate())

			assert.Equal(t, []string{"build", "test"}, spec.Names())
			assert.Equal(t, []string{"build"}, spec["test"].Deps)
			assert.Empty(t, spec["build"].Deps)

			data := spec["build"].Data
			assert.Equal(t, graph.String("go"), data["lang"])
			assert.Equal(t, graph.Number(2), data["retries"])
			assert.Equal(t, graph.Bool(true), data["cached"])
			if format != FormatTOML {
				// TOML has no null.
				assert.Equal(t, graph.Null(), data["owner"])
			}
		})
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	t.Parallel()

	for _, format := range InputFormats() {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			spec, err := Decode(strings.NewReader(""), format)
			require.NoError(t, err)
			assert.Empty(t, spec)
		})
	}
}

func TestDecode_NullTaskIsEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		src    string
	}{
		{FormatJSON, `{"a": null, "b": {}}`},
		{FormatYAML, "a:\nb: {}\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			spec, err := Decode(strings.NewReader(tt.src), tt.format)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, spec.Names())
			assert.Empty(t, spec["a"].Deps)
			assert.Empty(t, spec["a"].Data)
		})
	}
}

func TestDecode_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format Format
		src    string
	}{
		{"json top level array", FormatJSON, `["a"]`},
		{"json task not object", FormatJSON, `{"a": 3}`},
		{"json unknown key", FormatJSON, `{"a": {"needs": ["b"]}}`},
		{"json deps not list", FormatJSON, `{"a": {"deps": "b"}}`},
		{"json deps not strings", FormatJSON, `{"a": {"deps": [1]}}`},
		{"json data not object", FormatJSON, `{"a": {"data": [1, 2]}}`},
		{"json nested data", FormatJSON, `{"a": {"data": {"k": {"x": 1}}}}`},
		{"json list data value", FormatJSON, `{"a": {"data": {"k": [1]}}}`},
		{"yaml top level list", FormatYAML, "- a\n- b\n"},
		{"yaml task scalar", FormatYAML, "a: 3\n"},
		{"yaml unknown key", FormatYAML, "a:\n  needs: [b]\n"},
		{"yaml deps scalar", FormatYAML, "a:\n  deps: b\n"},
		{"yaml data list", FormatYAML, "a:\n  data: [1]\n"},
		{"yaml nested data", FormatYAML, "a:\n  data:\n    k:\n      x: 1\n"},
		{"toml task not table", FormatTOML, "a = 3\n"},
		{"toml unknown key", FormatTOML, "[a]\nneeds = [\"b\"]\n"},
		{"toml deps not list", FormatTOML, "[a]\ndeps = \"b\"\n"},
		{"toml deps not strings", FormatTOML, "[a]\ndeps = [1]\n"},
		{"toml nested data", FormatTOML, "[a.data.k]\nx = 1\n"},
		{"hcl unknown argument", FormatHCL, "task \"a\" {\n  needs = [\"b\"]\n}\n"},
		{"hcl unknown block", FormatHCL, "job \"a\" {}\n"},
		{"hcl data not object", FormatHCL, "task \"a\" {\n  data = \"x\"\n}\n"},
		{"hcl nested data", FormatHCL, "task \"a\" {\n  data = { k = [1] }\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(tt.src), tt.format)
			require.Error(t, err)
			assert.True(t, errors.Is(err, graph.ErrSchemaViolation), "got %v", err)
		})
	}
}

func TestDecode_DuplicateNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		src    string
	}{
		{FormatJSON, `{"a": {}, "a": {"deps": []}}`},
		{FormatYAML, "a: {}\na:\n  deps: []\n"},
		{FormatHCL, "task \"a\" {}\ntask \"a\" {}\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(tt.src), tt.format)
			require.Error(t, err)
			assert.True(t, errors.Is(err, graph.ErrDuplicateName), "got %v", err)
			assert.Contains(t, err.Error(), `"a"`)
		})
	}
}

func TestDecode_TOMLRepeatedTable(t *testing.T) {
	t.Parallel()

	_, err := Decode(strings.NewReader("[a]\n[a]\n"), FormatTOML)
	assert.Error(t, err)
}

func TestDecode_MalformedInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		src    string
	}{
		{FormatJSON, `{"a": `},
		{FormatJSON, `{"a": {}} {"b": {}}`},
		{FormatYAML, "a: [\n"},
		{FormatTOML, "[a\n"},
		{FormatHCL, "task \"a\" {\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(tt.src), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestDecode_YAMLScalarTags(t *testing.T) {
	t.Parallel()

	src := `a:
  data:
    quoted: "42"
    float: 1.5
    when: 2024-01-02T03:04:05Z
    off: false
    tilde: ~
`
	spec, err := Decode(strings.NewReader(src), FormatYAML)
	require.NoError(t, err)

	data := spec["a"].Data
	assert.Equal(t, graph.String("42"), data["quoted"])
	assert.Equal(t, graph.Number(1.5), data["float"])
	assert.Equal(t, graph.String("2024-01-02T03:04:05Z"), data["when"])
	assert.Equal(t, graph.Bool(false), data["off"])
	assert.Equal(t, graph.Null(), data["tilde"])
}

func TestDecode_YAMLAliases(t *testing.T) {
	t.Parallel()

	src := `base: &common
  data:
    lang: go
copy: *common
`
	spec, err := Decode(strings.NewReader(src), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, graph.String("go"), spec["copy"].Data["lang"])
}

func TestDecode_AutoFormatNeedsPath(t *testing.T) {
	t.Parallel()

	_, err := Decode(strings.NewReader("{}"), FormatAuto)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format must be given")
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{" toml ", FormatTOML, false},
		{"hcl", FormatHCL, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"tasks.json", FormatJSON, false},
		{"dir/tasks.YAML", FormatYAML, false},
		{"tasks.yml", FormatYAML, false},
		{"tasks.toml", FormatTOML, false},
		{"tasks.hcl", FormatHCL, false},
		{"tasks.txt", "", true},
		{"tasks", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), ".json")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for format, src := range buildTest {
		path := filepath.Join(dir, "tasks."+string(format))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

		spec, err := LoadFile(path, FormatAuto)
		require.NoError(t, err, "format %s", format)
		assert.Len(t, spec, 2)
	}
}

func TestLoadFile_ExplicitFormatOverridesExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte(buildTest[FormatYAML]), 0o644))

	spec, err := LoadFile(path, FormatYAML)
	require.NoError(t, err)
	assert.Len(t, spec, 2)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.json"), FormatAuto)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"a": {"x": 1}}`), 0o644))
	_, err = LoadFile(bad, FormatAuto)
	require.Error(t, err)
	assert.True(t, errors.Is(err, graph.ErrSchemaViolation))
	assert.Contains(t, err.Error(), bad)
}

func TestEncode_JSON(t *testing.T) {
	t.Parallel()

	spec := graph.Spec{
		"build": {Data: map[string]graph.Value{"lang": graph.String("go")}},
		"test":  {Deps: []string{"build"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, spec, FormatJSON))

	want := `{
  "build": {
    "deps": [],
    "data": {
      "lang": "go"
    }
  },
  "test": {
    "deps": [
      "build"
    ],
    "data": {}
  }
}
`
	assert.Equal(t, want, buf.String())
}

func TestEncode_YAML(t *testing.T) {
	t.Parallel()

	spec := graph.Spec{
		"build": {Data: map[string]graph.Value{"retries": graph.Number(2), "ok": graph.Bool(true)}},
		"test":  {Deps: []string{"build"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, spec, FormatYAML))

	want := `build:
  deps: []
  data:
    ok: true
    retries: 2
test:
  deps:
    - build
  data: {}
`
	assert.Equal(t, want, buf.String())
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, format := range OutputFormats() {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			in, err := Decode(strings.NewReader(buildTest[FormatJSON]), FormatJSON)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, in, format))

			out, err := Decode(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, in.Names(), out.Names())
			for _, name := range in.Names() {
				assert.ElementsMatch(t, in[name].Deps, out[name].Deps)
				for k, v := range in[name].Data {
					assert.True(t, v.Equal(out[name].Data[k]), "%s.%s", name, k)
				}
			}
		})
	}
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	err := Encode(&bytes.Buffer{}, graph.Spec{}, FormatHCL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}
