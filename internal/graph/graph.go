package graph

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
)

// Reserved attribute key and the status values that make a task
// inactive-complete.
const (
	StatusKey    = "status"
	StatusDone   = "done"
	StatusFailed = "failed"
)

// Task is a node of the dependency graph. Tasks are created and owned by a
// Graph; neighbor references are plain pointers into the same graph.
type Task struct {
	name       string
	attrs      map[string]Value
	deps       []*Task // tasks this one depends on, in declaration order
	dependents []*Task // inverse of deps, maintained by the graph
}

// Name returns the task's unique name.
func (t *Task) Name() string { return t.name }

// Attributes returns a copy of the task's attribute bag.
func (t *Task) Attributes() map[string]Value { return CloneAttributes(t.attrs) }

// Attribute returns the attribute stored under key.
func (t *Task) Attribute(key string) (Value, bool) {
	v, ok := t.attrs[key]
	return v, ok
}

// Status returns the "status" attribute when it is a string, or "".
func (t *Task) Status() string {
	s, _ := t.attrs[StatusKey].AsString()
	return s
}

// Inactive reports whether the task is done or failed.
func (t *Task) Inactive() bool {
	switch t.Status() {
	case StatusDone, StatusFailed:
		return true
	default:
		return false
	}
}

// Dependencies returns the tasks t depends on, in declaration order.
func (t *Task) Dependencies() []*Task { return append([]*Task(nil), t.deps...) }

// Dependents returns the tasks that depend on t.
func (t *Task) Dependents() []*Task { return append([]*Task(nil), t.dependents...) }

// DependencyNames returns the names of t's dependencies in declaration order.
func (t *Task) DependencyNames() []string { return taskNames(t.deps) }

// DependentNames returns the names of t's dependents, sorted.
func (t *Task) DependentNames() []string {
	names := taskNames(t.dependents)
	sort.Strings(names)
	return names
}

func (t *Task) String() string { return fmt.Sprintf("Task(%s)", t.name) }

// Edge is one dependency relation: Task depends on Dependency.
type Edge struct {
	Task       string
	Dependency string
}

// Graph owns a set of tasks keyed by name.
type Graph struct {
	tasks map[string]*Task
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{tasks: make(map[string]*Task)}
}

type buildOptions struct {
	prune bool
}

// BuildOption customizes Build.
type BuildOption func(*buildOptions)

// WithoutPruning keeps inactive tasks in the built graph.
func WithoutPruning() BuildOption {
	return func(o *buildOptions) { o.prune = false }
}

// Build constructs a graph from s and prunes inactive tasks.
//
// Tasks are created in construction order so that each dependency already
// exists when it is referenced. Any failure (unknown dependency, cycle,
// malformed deps list) returns a nil graph; no partial graph is produced.
func Build(s Spec, opts ...BuildOption) (*Graph, error) {
	o := buildOptions{prune: true}
	for _, opt := range opts {
		opt(&o)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	order, err := ConstructionOrder(s)
	if err != nil {
		return nil, err
	}

	g := NewGraph()
	for _, name := range order {
		ts := s[name]
		t, err := g.AddTask(name, ts.Data)
		if err != nil {
			return nil, err
		}
		for _, depName := range ts.Deps {
			dep, ok := g.tasks[depName]
			if !ok {
				return nil, unknownDependency(name, depName)
			}
			link(t, dep)
		}
	}
	log.Debug("graph built", "tasks", g.Len())

	if o.prune {
		removed := g.PruneInactive()
		log.Debug("inactive tasks pruned", "removed", len(removed), "remaining", g.Len())
	}
	return g, nil
}

// AddTask creates a task with a copy of attrs. Reusing a name fails with
// ErrDuplicateName.
func (g *Graph) AddTask(name string, attrs map[string]Value) (*Task, error) {
	if name == "" {
		return nil, schemaErrorf("", "task name must not be empty")
	}
	if _, exists := g.tasks[name]; exists {
		return nil, duplicateName(name)
	}
	t := &Task{name: name, attrs: CloneAttributes(attrs)}
	g.tasks[name] = t
	return t, nil
}

// Connect records that task depends on dependency. Both must exist, the edge
// must be new, and it must not close a cycle.
func (g *Graph) Connect(task, dependency string) error {
	t, ok := g.tasks[task]
	if !ok {
		return &GraphError{Kind: ErrUnknownDependency, Task: task, Msg: "task is not defined"}
	}
	d, ok := g.tasks[dependency]
	if !ok {
		return unknownDependency(task, dependency)
	}
	if t == d {
		return cycleError([]string{task, task})
	}
	for _, existing := range t.deps {
		if existing == d {
			return schemaErrorf(task, "already depends on %q", dependency)
		}
	}
	// d reaching t through its dependencies means the new edge closes a loop.
	for _, anc := range g.Closure(dependency) {
		if anc == t {
			return cycleError([]string{task, dependency, task})
		}
	}
	link(t, d)
	return nil
}

func link(t, dep *Task) {
	t.deps = append(t.deps, dep)
	dep.dependents = append(dep.dependents, t)
}

// Delete removes the named task and repairs every edge that referenced it.
// It reports whether the task existed.
func (g *Graph) Delete(name string) bool {
	t, ok := g.tasks[name]
	if !ok {
		return false
	}
	for _, dependent := range t.dependents {
		dependent.deps = removeTask(dependent.deps, t)
	}
	for _, dep := range t.deps {
		dep.dependents = removeTask(dep.dependents, t)
	}
	t.deps, t.dependents = nil, nil
	delete(g.tasks, name)
	return true
}

func removeTask(list []*Task, target *Task) []*Task {
	for i, t := range list {
		if t == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Len returns the number of tasks.
func (g *Graph) Len() int { return len(g.tasks) }

// Task looks a task up by name.
func (g *Graph) Task(name string) (*Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// Names returns all task names, sorted.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tasks returns all tasks sorted by name.
func (g *Graph) Tasks() []*Task {
	return g.filter(func(*Task) bool { return true })
}

// CurrentTasks returns the tasks with no remaining dependencies, sorted by
// name. These are ready to run.
func (g *Graph) CurrentTasks() []*Task {
	return g.filter(func(t *Task) bool { return len(t.deps) == 0 })
}

// FinalTasks returns the tasks nothing depends on, sorted by name.
func (g *Graph) FinalTasks() []*Task {
	return g.filter(func(t *Task) bool { return len(t.dependents) == 0 })
}

func (g *Graph) filter(keep func(*Task) bool) []*Task {
	var out []*Task
	for _, name := range g.Names() {
		if t := g.tasks[name]; keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Edges returns every dependency edge, ordered by task name and then by
// declaration order of the dependency.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, name := range g.Names() {
		for _, dep := range g.tasks[name].deps {
			edges = append(edges, Edge{Task: name, Dependency: dep.name})
		}
	}
	return edges
}

// Spec returns the declarative form of the graph. Deps are derived from the
// live edges; Deps and Data are never nil.
func (g *Graph) Spec() Spec {
	s := make(Spec, len(g.tasks))
	for name, t := range g.tasks {
		deps := make([]string, 0, len(t.deps))
		for _, d := range t.deps {
			deps = append(deps, d.name)
		}
		s[name] = TaskSpec{Deps: deps, Data: CloneAttributes(t.attrs)}
	}
	return s
}

func taskNames(tasks []*Task) []string {
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, t.name)
	}
	return names
}
