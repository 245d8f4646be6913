package graph

import "sort"

// TaskSpec is the declarative description of one task: the names it depends
// on and its attribute bag. Both fields may be empty.
type TaskSpec struct {
	Deps []string         `json:"deps" yaml:"deps"`
	Data map[string]Value `json:"data" yaml:"data"`
}

// Spec maps task names to their declarative description. It is both the
// input of Build and the output of Graph.Spec.
type Spec map[string]TaskSpec

// Names returns the task names in ascending order.
func (s Spec) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks what can be checked without ordering the tasks: names are
// non-empty, a deps list names each dependency at most once, and every
// dependency is defined in s.
func (s Spec) Validate() error {
	for _, name := range s.Names() {
		if name == "" {
			return schemaErrorf("", "task name must not be empty")
		}
		seen := make(map[string]struct{}, len(s[name].Deps))
		for _, dep := range s[name].Deps {
			if _, dup := seen[dep]; dup {
				return schemaErrorf(name, "dependency %q is listed more than once", dep)
			}
			seen[dep] = struct{}{}
			if _, ok := s[dep]; !ok {
				return unknownDependency(name, dep)
			}
		}
	}
	return nil
}

// Orphans returns the names that no task lists as a dependency, sorted.
func Orphans(s Spec) []string {
	referenced := make(map[string]struct{}, len(s))
	for _, ts := range s {
		for _, dep := range ts.Deps {
			referenced[dep] = struct{}{}
		}
	}
	var out []string
	for _, name := range s.Names() {
		if _, ok := referenced[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
