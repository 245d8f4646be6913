package graph

import (
	"sort"

	"github.com/charmbracelet/log"
)

// Closure returns the ancestor closure of the named task: the task itself
// plus everything it depends on, directly or transitively, sorted by name.
// It returns nil when the task does not exist.
func (g *Graph) Closure(name string) []*Task {
	start, ok := g.tasks[name]
	if !ok {
		return nil
	}
	reached := g.reach([]*Task{start})
	out := make([]*Task, 0, len(reached))
	for t := range reached {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// reach walks dependency edges from every start task with an explicit
// worklist and returns the visited set.
func (g *Graph) reach(starts []*Task) map[*Task]struct{} {
	visited := make(map[*Task]struct{}, len(starts))
	work := make([]*Task, 0, len(starts))
	for _, t := range starts {
		if _, seen := visited[t]; !seen {
			visited[t] = struct{}{}
			work = append(work, t)
		}
	}
	for len(work) > 0 {
		t := work[len(work)-1]
		work = work[:len(work)-1]
		for _, dep := range t.deps {
			if _, seen := visited[dep]; seen {
				continue
			}
			visited[dep] = struct{}{}
			work = append(work, dep)
		}
	}
	return visited
}

// PruneInactive removes every inactive-complete task together with its
// ancestor closure and returns the removed names, sorted. Dependents of
// removed tasks stay in the graph, possibly with no dependencies left.
func (g *Graph) PruneInactive() []string {
	var inactive []*Task
	for _, t := range g.Tasks() {
		if t.Inactive() {
			inactive = append(inactive, t)
		}
	}
	if len(inactive) == 0 {
		return nil
	}

	removal := g.reach(inactive)
	names := make([]string, 0, len(removal))
	for t := range removal {
		names = append(names, t.name)
	}
	sort.Strings(names)

	for _, name := range names {
		g.Delete(name)
		log.Debug("pruned task", "task", name)
	}
	return names
}
