package codec

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/graph"
)

// decodeTOML reads one table per task:
//
//	[test]
//	deps = ["build"]
//
//	[test.data]
//	lang = "go"
//
// The TOML parser itself rejects a table defined twice, so duplicate task
// names surface as parse errors.
func decodeTOML(r io.Reader) (graph.Spec, error) {
	var raw map[string]any
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing toml: %w", err)
	}

	spec := make(graph.Spec, len(raw))
	for name, v := range raw {
		fields, ok := v.(map[string]any)
		if !ok {
			return nil, schemaError(name, "must be a table with optional deps and data")
		}
		ts, err := tomlTask(name, fields)
		if err != nil {
			return nil, err
		}
		spec[name] = ts
	}
	return spec, nil
}

func tomlTask(name string, fields map[string]any) (graph.TaskSpec, error) {
	var ts graph.TaskSpec
	for key := range fields {
		if err := checkField(name, key); err != nil {
			return ts, err
		}
	}

	if rawDeps, ok := fields[fieldDeps]; ok {
		list, ok := rawDeps.([]any)
		if !ok {
			return ts, schemaError(name, "deps must be a list of task names")
		}
		ts.Deps = make([]string, 0, len(list))
		for _, item := range list {
			dep, ok := item.(string)
			if !ok {
				return ts, schemaError(name, "deps entry %v is not a string", item)
			}
			ts.Deps = append(ts.Deps, dep)
		}
	}

	if rawData, ok := fields[fieldData]; ok {
		table, ok := rawData.(map[string]any)
		if !ok {
			return ts, schemaError(name, "data must be a table of scalar values")
		}
		data, err := convertData(name, table)
		if err != nil {
			return ts, err
		}
		ts.Data = data
	}
	return ts, nil
}
