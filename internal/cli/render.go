package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/config"
	"github.com/AbdelazizMoustafa10m/taskdag/internal/graph"
	"github.com/AbdelazizMoustafa10m/taskdag/internal/logging"
	"github.com/AbdelazizMoustafa10m/taskdag/internal/render"
)

var (
	renderOutput      string
	renderOutDir      string
	renderOrphans     bool
	renderFormat      string
	renderRankDir     string
	renderConcurrency int
	renderWatch       bool
)

var renderCmd = &cobra.Command{
	Use:   "render <input...>",
	Short: "Prune a task description and print it as DOT",
	Long: `Load one or more task descriptions, drop every "done" or "failed" task
together with everything it depends on, and render the remaining graph as
Graphviz DOT text with record-shaped nodes.

A single input is written to stdout or to --output. Several inputs, or glob
patterns such as 'graphs/**/*.json', need --out-dir: each input is rendered
into <out-dir>/<name>.dot, several at a time.

--orphans prints the tasks that no other task depends on, computed on the
input before pruning.

--watch keeps running and re-renders a single input every time it changes.`,
	Example: `  taskdag render tasks.json
  taskdag render tasks.yaml -o tasks.dot --orphans
  taskdag render 'graphs/**/*.{json,yaml}' --out-dir build/dot --concurrency 8
  taskdag render tasks.hcl -o tasks.dot --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderOutput, "output", "o", "", "Write DOT text to this file instead of stdout")
	f.StringVar(&renderOutDir, "out-dir", "", "Render every input into this directory (batch mode)")
	f.BoolVar(&renderOrphans, "orphans", false, "Print tasks no other task depends on")
	f.StringVar(&renderFormat, "format", "", "Input format: json, yaml, toml or hcl (default: by extension)")
	f.StringVar(&renderRankDir, "rankdir", "", "Graphviz rankdir: LR, RL, TB or BT")
	f.IntVar(&renderConcurrency, "concurrency", 0, "Inputs rendered in parallel in batch mode")
	f.BoolVar(&renderWatch, "watch", false, "Re-render whenever the input file changes")
	rootCmd.AddCommand(renderCmd)
}

// renderOverrides collects the render flags that were set on cmd. The root
// shortcut defines none of them, and pflag reports unknown flags as unchanged.
func renderOverrides(cmd *cobra.Command) *config.CLIOverrides {
	o := &config.CLIOverrides{}
	f := cmd.Flags()
	if f.Changed("format") {
		o.InputFormat = &renderFormat
	}
	if f.Changed("rankdir") {
		rd := strings.ToUpper(renderRankDir)
		o.RankDir = &rd
	}
	if f.Changed("concurrency") {
		o.Concurrency = &renderConcurrency
	}
	return o
}

func runRender(cmd *cobra.Command, args []string) error {
	rc, err := resolveSettings(renderOverrides(cmd))
	if err != nil {
		return err
	}

	paths, err := expandInputs(args)
	if err != nil {
		return err
	}

	batch := len(paths) > 1 || renderOutDir != ""
	switch {
	case batch && renderOutput != "":
		return fmt.Errorf("--output takes a single input; use --out-dir for %d inputs", len(paths))
	case batch && renderOutDir == "":
		return fmt.Errorf("%d inputs given; use --out-dir to choose where the DOT files go", len(paths))
	case batch && renderWatch:
		return fmt.Errorf("--watch takes a single input")
	}

	if batch {
		return renderBatch(cmd, paths, rc)
	}
	if renderWatch {
		return watchRender(cmd, paths[0], rc)
	}
	return renderSingle(cmd, paths[0], rc)
}

// renderSingle renders one input to --output or stdout, then prints orphans.
func renderSingle(cmd *cobra.Command, path string, rc *config.ResolvedConfig) error {
	in, err := loadInput(path, rc)
	if err != nil {
		return err
	}

	if err := emitDOT(cmd.OutOrStdout(), in.Graph, rc, renderOutput); err != nil {
		return err
	}
	if renderOrphans {
		printNames(cmd.OutOrStdout(), graph.Orphans(in.Spec))
	}
	return nil
}

// emitDOT writes the rendered graph to dest, or to out when dest is empty.
func emitDOT(out io.Writer, g *graph.Graph, rc *config.ResolvedConfig, dest string) error {
	text := render.DOT(g, renderOptions(rc))
	if dest == "" {
		_, err := io.WriteString(out, text)
		return err
	}
	if err := writeFileAtomic(dest, []byte(text)); err != nil {
		return err
	}
	logging.New("render").Info("wrote DOT", "path", dest, "tasks", g.Len())
	return nil
}

// batchFailure records one input that could not be rendered.
type batchFailure struct {
	Path string
	Err  error
}

// renderBatch renders every path into renderOutDir with bounded
// concurrency. Each input gets its own graph; a failing input does not stop
// the others. The command fails if any input failed.
func renderBatch(cmd *cobra.Command, paths []string, rc *config.ResolvedConfig) error {
	targets, err := batchTargets(paths, renderOutDir)
	if err != nil {
		return err
	}
	logger := logging.New("render")

	var (
		mu       sync.Mutex
		failures []batchFailure
		orphans  = make(map[string][]string, len(paths))
	)

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(rc.Config.Output.Concurrency)

	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			in, err := loadInput(path, rc)
			if err == nil {
				err = emitDOT(io.Discard, in.Graph, rc, targets[path])
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("render failed", "input", path, "error", err)
				failures = append(failures, batchFailure{Path: path, Err: err})
				// Siblings keep going; failures are reported together.
				return nil
			}
			orphans[path] = graph.Orphans(in.Spec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if renderOrphans {
		out := cmd.OutOrStdout()
		for _, path := range paths {
			for _, name := range orphans[path] {
				fmt.Fprintf(out, "%s: %s\n", path, name)
			}
		}
	}

	if len(failures) > 0 {
		sort.Slice(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })
		return fmt.Errorf("%d of %d inputs failed, first: %w", len(failures), len(paths), failures[0].Err)
	}
	logger.Info("batch rendered", "inputs", len(paths), "out_dir", renderOutDir)
	return nil
}

// batchTargets maps each input to <dir>/<base without extension>.dot and
// rejects inputs that would overwrite each other.
func batchTargets(paths []string, dir string) (map[string]string, error) {
	targets := make(map[string]string, len(paths))
	owner := make(map[string]string, len(paths))
	for _, p := range paths {
		base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		target := filepath.Join(dir, base+".dot")
		if prev, dup := owner[target]; dup {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, p, target)
		}
		owner[target] = p
		targets[p] = target
	}
	return targets, nil
}

func printNames(w io.Writer, names []string) {
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
}
