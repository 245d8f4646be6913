// Package graph implements the task dependency graph engine.
//
// A graph is built from a Spec, the deserialized mapping of task name to
// {deps, data}. Build orders the tasks so that every dependency exists before
// the task that references it, wires the dependency edges in both directions,
// and prunes inactive work: every task whose "status" attribute is "done" or
// "failed" is removed together with everything it transitively depends on.
//
// The surviving graph can be turned back into a Spec (the declarative form)
// and queried for current tasks (no remaining dependencies) and final tasks
// (no dependents).
//
// A Graph is not safe for concurrent mutation. Each caller builds and owns
// its own graph; there is no shared state between graphs.
package graph
