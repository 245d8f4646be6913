// Package render turns a task graph into Graphviz DOT text using record
// shaped nodes.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/graph"
)

// Defaults for Options fields left empty.
const (
	DefaultGraphName = "graphname"
	DefaultRankDir   = "LR"
	DefaultIDPrefix  = "task_"
)

// Options controls the DOT header and node identifiers.
type Options struct {
	// GraphName is the identifier after "digraph".
	GraphName string
	// RankDir is the Graphviz rankdir value (LR, RL, TB or BT).
	RankDir string
	// IDPrefix is prepended to the sequential node number.
	IDPrefix string
}

func (o Options) withDefaults() Options {
	if o.GraphName == "" {
		o.GraphName = DefaultGraphName
	}
	if o.RankDir == "" {
		o.RankDir = DefaultRankDir
	}
	if o.IDPrefix == "" {
		o.IDPrefix = DefaultIDPrefix
	}
	return o
}

// recordEscaper escapes the characters that carry meaning inside a record
// label or a quoted DOT string.
var recordEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

// DOT renders g and returns the text.
func DOT(g *graph.Graph, opts Options) string {
	var b strings.Builder
	// strings.Builder never fails.
	_ = WriteDOT(&b, g, opts)
	return b.String()
}

// WriteDOT renders g to w.
//
// Node identifiers are assigned over the task names in ascending order, so
// the same graph always yields the same text. Each node statement is
// followed by one edge statement per dependency, pointing from the
// dependency to the task that needs it.
func WriteDOT(w io.Writer, g *graph.Graph, opts Options) error {
	opts = opts.withDefaults()
	spec := g.Spec()
	names := spec.Names()

	ids := make(map[string]string, len(names))
	for i, name := range names {
		ids[name] = fmt.Sprintf("%s%d", opts.IDPrefix, i)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", opts.GraphName)
	fmt.Fprintf(&b, "rankdir=%s;\n", opts.RankDir)
	b.WriteString("node[shape=record];\n")

	for _, name := range names {
		ts := spec[name]
		fmt.Fprintf(&b, "%s [label=\"%s%s\" shape=Mrecord]\n", ids[name], recordEscaper.Replace(name), segments(ts.Data))
		for _, dep := range ts.Deps {
			fmt.Fprintf(&b, "%s -> %s;\n", ids[dep], ids[name])
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// segments renders the attribute bag as " | {key | value}" pairs sorted by
// key. An empty bag renders nothing, not a dangling " | ", so the label is
// just the task name.
func segments(data map[string]graph.Value) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " | {%s | %s}", recordEscaper.Replace(k), recordEscaper.Replace(data[k].Text()))
	}
	return b.String()
}
