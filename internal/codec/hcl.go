package codec

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/graph"
)

// hclDocument is the HCL shape of a task description:
//
//	task "build" {
//	  data = { lang = "go" }
//	}
//
//	task "test" {
//	  deps = ["build"]
//	}
type hclDocument struct {
	Tasks []hclTask `hcl:"task,block"`
}

type hclTask struct {
	Name string    `hcl:"name,label"`
	Deps []string  `hcl:"deps,optional"`
	Data cty.Value `hcl:"data,optional"`
}

func decodeHCL(src []byte, filename string) (graph.Spec, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing hcl: %w", diags)
	}

	var doc hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		// Unknown blocks and arguments land here.
		return nil, fmt.Errorf("%w: %s", graph.ErrSchemaViolation, diags.Error())
	}

	spec := make(graph.Spec, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if _, dup := spec[t.Name]; dup {
			return nil, duplicateError(t.Name)
		}
		data, err := hclData(t.Name, t.Data)
		if err != nil {
			return nil, err
		}
		spec[t.Name] = graph.TaskSpec{Deps: t.Deps, Data: data}
	}
	return spec, nil
}

func hclData(task string, v cty.Value) (map[string]graph.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, schemaError(task, "data must be an object of scalar values, got %s", ty.FriendlyName())
	}

	data := make(map[string]graph.Value, v.LengthInt())
	it := v.ElementIterator()
	for it.Next() {
		key, val := it.Element()
		converted, err := ctyScalar(val)
		if err != nil {
			return nil, fmt.Errorf("task %q: data key %q: %w", task, key.AsString(), err)
		}
		data[key.AsString()] = converted
	}
	return data, nil
}

func ctyScalar(v cty.Value) (graph.Value, error) {
	if v.IsNull() {
		return graph.Null(), nil
	}
	if !v.IsKnown() {
		return graph.Value{}, schemaError("", "value is not known")
	}
	switch v.Type() {
	case cty.String:
		return graph.String(v.AsString()), nil
	case cty.Bool:
		return graph.Bool(v.True()), nil
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return graph.FromNative(f)
	default:
		return graph.Value{}, schemaError("", "unsupported value of type %s", v.Type().FriendlyName())
	}
}
