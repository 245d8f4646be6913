// Package codec reads task graph descriptions from disk and writes the
// declarative form back out.
//
// Every supported input format maps onto the same shape: a mapping of task
// name to an object with at most two keys, "deps" (list of task names) and
// "data" (mapping of scalar attributes). Any other key is a schema
// violation, and a task name defined twice is a duplicate-name error; both
// are reported with the graph package's sentinel errors so callers can
// classify them with errors.Is.
package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/graph"
)

// Format names an interchange format.
type Format string

const (
	// FormatAuto selects the format from the file extension.
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// Field names allowed inside a task object.
const (
	fieldDeps = "deps"
	fieldData = "data"
)

var extensions = map[string]Format{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
	".hcl":  FormatHCL,
}

// InputFormats lists the formats Decode understands.
func InputFormats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML, FormatHCL}
}

// OutputFormats lists the formats Encode can write.
func OutputFormats() []Format {
	return []Format{FormatJSON, FormatYAML}
}

// ParseFormat validates a user-supplied format name. The empty string maps
// to FormatAuto; "yml" is accepted as YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatJSON, FormatYAML, FormatTOML, FormatHCL:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, yaml, toml or hcl)", s)
	}
}

// DetectFormat picks the format from the extension of path.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	known := make([]string, 0, len(extensions))
	for e := range extensions {
		known = append(known, e)
	}
	sort.Strings(known)
	return "", fmt.Errorf("cannot detect format of %s: unknown extension %q (known: %s)",
		path, ext, strings.Join(known, ", "))
}

// LoadFile reads and decodes the task description at path. FormatAuto
// detects the format from the extension.
func LoadFile(path string, format Format) (graph.Spec, error) {
	if format == FormatAuto {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening task description: %w", err)
	}
	defer f.Close()

	spec, err := decode(f, format, path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	log.Debug("task description loaded", "path", path, "format", format, "tasks", len(spec))
	return spec, nil
}

// Decode reads a task description in the given format from r.
func Decode(r io.Reader, format Format) (graph.Spec, error) {
	return decode(r, format, "input")
}

func decode(r io.Reader, format Format, name string) (graph.Spec, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatTOML:
		return decodeTOML(r)
	case FormatHCL:
		src, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading hcl: %w", err)
		}
		return decodeHCL(src, name)
	case FormatAuto:
		return nil, fmt.Errorf("decoding %s: format must be given when reading a stream", name)
	default:
		return nil, fmt.Errorf("decoding %s: unsupported format %q", name, format)
	}
}

// Encode writes the declarative form of spec to w. Deps and data are always
// present for every task.
func Encode(w io.Writer, spec graph.Spec, format Format) error {
	normalized := normalize(spec)
	switch format {
	case FormatJSON, FormatAuto:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(normalized); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(normalized); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("encoding: unsupported output format %q (want json or yaml)", format)
	}
}

func normalize(spec graph.Spec) graph.Spec {
	out := make(graph.Spec, len(spec))
	for name, ts := range spec {
		deps := ts.Deps
		if deps == nil {
			deps = []string{}
		}
		out[name] = graph.TaskSpec{Deps: deps, Data: graph.CloneAttributes(ts.Data)}
	}
	return out
}

// ---- shared schema helpers --------------------------------------------------

func schemaError(task, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if task != "" {
		return fmt.Errorf("%w: task %q: %s", graph.ErrSchemaViolation, task, msg)
	}
	return fmt.Errorf("%w: %s", graph.ErrSchemaViolation, msg)
}

func duplicateError(task string) error {
	return fmt.Errorf("%w: %q is defined more than once", graph.ErrDuplicateName, task)
}

func checkField(task, key string) error {
	if key == fieldDeps || key == fieldData {
		return nil
	}
	return schemaError(task, "unrecognized key %q (allowed: deps, data)", key)
}

// convertData turns decoded scalars into graph values.
func convertData(task string, raw map[string]any) (map[string]graph.Value, error) {
	data := make(map[string]graph.Value, len(raw))
	for k, v := range raw {
		val, err := graph.FromNative(v)
		if err != nil {
			return nil, fmt.Errorf("task %q: data key %q: %w", task, k, err)
		}
		data[k] = val
	}
	return data, nil
}
