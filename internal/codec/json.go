package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/graph"
)

// decodeJSON walks the top-level object token by token so that a task name
// appearing twice is reported instead of silently overwriting the first.
func decodeJSON(r io.Reader) (graph.Spec, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return graph.Spec{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, schemaError("", "top level must be an object of tasks")
	}

	spec := graph.Spec{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("parsing json: unexpected token %v", tok)
		}
		if _, dup := spec[name]; dup {
			return nil, duplicateError(name)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing json: task %q: %w", name, err)
		}
		ts, err := jsonTask(name, raw)
		if err != nil {
			return nil, err
		}
		spec[name] = ts
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing json: unexpected data after the top-level object")
	}
	return spec, nil
}

func jsonTask(name string, raw json.RawMessage) (graph.TaskSpec, error) {
	var ts graph.TaskSpec

	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return ts, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ts, schemaError(name, "must be an object with optional deps and data")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return ts, schemaError(name, "%v", err)
	}
	for key := range fields {
		if err := checkField(name, key); err != nil {
			return ts, err
		}
	}

	if rawDeps, ok := fields[fieldDeps]; ok {
		if err := json.Unmarshal(rawDeps, &ts.Deps); err != nil {
			return ts, schemaError(name, "deps must be a list of task names")
		}
	}

	if rawData, ok := fields[fieldData]; ok {
		dec := json.NewDecoder(bytes.NewReader(rawData))
		dec.UseNumber()
		var data map[string]any
		if err := dec.Decode(&data); err != nil {
			return ts, schemaError(name, "data must be an object of scalar values")
		}
		converted, err := convertData(name, data)
		if err != nil {
			return ts, err
		}
		ts.Data = converted
	}
	return ts, nil
}
