package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for graph construction failures. All of them are fatal for
// the current run; match them with errors.Is.
var (
	ErrSchemaViolation   = errors.New("schema violation")
	ErrCycleDetected     = errors.New("cycle detected")
	ErrUnknownDependency = errors.New("unknown dependency")
	ErrDuplicateName     = errors.New("duplicate task name")
)

// GraphError carries the failing task and, for cycles, the offending path.
type GraphError struct {
	Kind error
	Task string
	// Path lists the tasks along a detected cycle, first element repeated at
	// the end.
	Path []string
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if len(e.Path) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Path, " -> "))
	} else if e.Task != "" {
		fmt.Fprintf(&b, ": task %q", e.Task)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	return b.String()
}

func (e *GraphError) Unwrap() error { return e.Kind }

func schemaErrorf(task, format string, args ...any) error {
	return &GraphError{Kind: ErrSchemaViolation, Task: task, Msg: fmt.Sprintf(format, args...)}
}

func unknownDependency(task, dep string) error {
	return &GraphError{Kind: ErrUnknownDependency, Task: task, Msg: fmt.Sprintf("depends on %q which is not defined", dep)}
}

func duplicateName(task string) error {
	return &GraphError{Kind: ErrDuplicateName, Task: task}
}

func cycleError(path []string) error {
	return &GraphError{Kind: ErrCycleDetected, Path: path}
}
