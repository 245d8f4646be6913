package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/graph"
)

// decodeYAML works on the node tree rather than decoding into a map, which
// keeps duplicate task names visible and lets scalars be typed by their tag.
func decodeYAML(r io.Reader) (graph.Spec, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return graph.Spec{}, nil
		}
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	root := resolveAlias(&doc)
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return graph.Spec{}, nil
		}
		root = resolveAlias(root.Content[0])
	}
	if isNull(root) {
		return graph.Spec{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, schemaError("", "top level must be a mapping of tasks (line %d)", root.Line)
	}

	spec := graph.Spec{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], resolveAlias(root.Content[i+1])
		name := keyNode.Value
		if _, dup := spec[name]; dup {
			return nil, duplicateError(name)
		}
		ts, err := yamlTask(name, valNode)
		if err != nil {
			return nil, err
		}
		spec[name] = ts
	}
	return spec, nil
}

func yamlTask(name string, node *yaml.Node) (graph.TaskSpec, error) {
	var ts graph.TaskSpec
	if isNull(node) {
		return ts, nil
	}
	if node.Kind != yaml.MappingNode {
		return ts, schemaError(name, "must be a mapping with optional deps and data (line %d)", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, resolveAlias(node.Content[i+1])
		if err := checkField(name, key); err != nil {
			return ts, err
		}
		switch key {
		case fieldDeps:
			if isNull(val) {
				continue
			}
			if val.Kind != yaml.SequenceNode {
				return ts, schemaError(name, "deps must be a list of task names (line %d)", val.Line)
			}
			if err := val.Decode(&ts.Deps); err != nil {
				return ts, schemaError(name, "deps must be a list of task names: %v", err)
			}
		case fieldData:
			data, err := yamlData(name, val)
			if err != nil {
				return ts, err
			}
			ts.Data = data
		}
	}
	return ts, nil
}

func yamlData(task string, node *yaml.Node) (map[string]graph.Value, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, schemaError(task, "data must be a mapping of scalar values (line %d)", node.Line)
	}
	data := make(map[string]graph.Value, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, resolveAlias(node.Content[i+1])
		v, err := yamlScalar(val)
		if err != nil {
			return nil, fmt.Errorf("task %q: data key %q: %w", task, key, err)
		}
		data[key] = v
	}
	return data, nil
}

// yamlScalar maps a scalar node onto a graph value using its resolved tag.
// Timestamps and any other tagged scalars keep their source text.
func yamlScalar(node *yaml.Node) (graph.Value, error) {
	if node.Kind != yaml.ScalarNode {
		return graph.Value{}, schemaError("", "value at line %d must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		return graph.Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return graph.Value{}, schemaError("", "invalid bool %q at line %d", node.Value, node.Line)
		}
		return graph.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return graph.Value{}, schemaError("", "invalid number %q at line %d", node.Value, node.Line)
		}
		return graph.FromNative(f)
	default:
		return graph.String(node.Value), nil
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}
