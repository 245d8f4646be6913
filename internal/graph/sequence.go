package graph

// DFS colors for the sequencer.
//
//	white = not entered yet
//	gray  = on the current DFS path
//	black = finished, all dependencies emitted
const (
	colorWhite = iota
	colorGray
	colorBlack
)

// TopologicalOrder returns the task names ordered so that every task comes
// before all of the tasks it depends on. Reverse it (or call
// ConstructionOrder) to get an order safe for incremental construction.
//
// Roots are entered in ascending name order, so the result is reproducible
// for a given Spec. A dependency reached while it is still on the DFS path
// fails with ErrCycleDetected; the error's Path names the cycle.
func TopologicalOrder(s Spec) ([]string, error) {
	order, err := finishOrder(s)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// ConstructionOrder returns the task names with every dependency placed
// before the tasks that depend on it.
func ConstructionOrder(s Spec) ([]string, error) {
	return finishOrder(s)
}

type dfsFrame struct {
	name string
	next int // index of the next dependency to visit
}

// finishOrder runs the three-color DFS with an explicit stack and returns
// names in the order they turned black (post-order).
func finishOrder(s Spec) ([]string, error) {
	color := make(map[string]int, len(s))
	order := make([]string, 0, len(s))

	for _, root := range s.Names() {
		if color[root] != colorWhite {
			continue
		}
		color[root] = colorGray
		stack := []dfsFrame{{name: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := s[top.name].Deps

			if top.next < len(deps) {
				dep := deps[top.next]
				top.next++
				if _, ok := s[dep]; !ok {
					return nil, unknownDependency(top.name, dep)
				}
				switch color[dep] {
				case colorGray:
					return nil, cycleError(cyclePath(stack, dep))
				case colorWhite:
					color[dep] = colorGray
					stack = append(stack, dfsFrame{name: dep})
				}
				continue
			}

			color[top.name] = colorBlack
			order = append(order, top.name)
			stack = stack[:len(stack)-1]
		}
	}

	return order, nil
}

// cyclePath extracts the portion of the DFS path starting at the re-entered
// task and closes the loop.
func cyclePath(stack []dfsFrame, reentered string) []string {
	start := 0
	for i, f := range stack {
		if f.name == reentered {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.name)
	}
	return append(path, reentered)
}
