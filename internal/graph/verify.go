package graph

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ErrBrokenInvariant reports an internal inconsistency found by Verify.
var ErrBrokenInvariant = errors.New("graph invariant violated")

// Verify checks edge symmetry, referential closure and acyclicity and
// returns the first violation found.
func (g *Graph) Verify() error {
	for _, name := range g.Names() {
		t := g.tasks[name]
		for _, dep := range t.deps {
			if owned, ok := g.tasks[dep.name]; !ok || owned != dep {
				return &GraphError{Kind: ErrBrokenInvariant, Task: name,
					Msg: fmt.Sprintf("dependency %q is not part of the graph", dep.name)}
			}
			if count(dep.dependents, t) != 1 {
				return &GraphError{Kind: ErrBrokenInvariant, Task: name,
					Msg: fmt.Sprintf("dependency %q does not list it exactly once as a dependent", dep.name)}
			}
		}
		for _, dependent := range t.dependents {
			if owned, ok := g.tasks[dependent.name]; !ok || owned != dependent {
				return &GraphError{Kind: ErrBrokenInvariant, Task: name,
					Msg: fmt.Sprintf("dependent %q is not part of the graph", dependent.name)}
			}
			if count(dependent.deps, t) != 1 {
				return &GraphError{Kind: ErrBrokenInvariant, Task: name,
					Msg: fmt.Sprintf("dependent %q does not list it exactly once as a dependency", dependent.name)}
			}
		}
	}
	if _, err := ConstructionOrder(g.Spec()); err != nil {
		return err
	}
	return nil
}

func count(list []*Task, target *Task) int {
	n := 0
	for _, t := range list {
		if t == target {
			n++
		}
	}
	return n
}

// Fingerprint returns a stable 64-bit digest of the declarative form. Two
// graphs with the same tasks, attributes and dependency lists share a
// fingerprint.
func (g *Graph) Fingerprint() uint64 {
	// encoding/json sorts map keys, which makes the encoding canonical.
	data, err := json.Marshal(g.Spec())
	if err != nil {
		// Values hold finite scalars only.
		panic(fmt.Sprintf("graph: encoding spec for fingerprint: %v", err))
	}
	return xxhash.Sum64(data)
}

// FingerprintHex returns Fingerprint as 16 lowercase hex digits.
func (g *Graph) FingerprintHex() string {
	return fmt.Sprintf("%016x", g.Fingerprint())
}
