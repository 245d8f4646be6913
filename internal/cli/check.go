package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/config"
	"github.com/AbdelazizMoustafa10m/taskdag/internal/graph"
)

var (
	checkJSON   bool
	checkFormat string
)

// checkReport summarises one input: what it declares, what pruning removed,
// and what is left.
type checkReport struct {
	Input       string   `json:"input"`
	Tasks       int      `json:"tasks"`
	Edges       int      `json:"edges"`
	Pruned      []string `json:"pruned"`
	Remaining   int      `json:"remaining"`
	RemainEdges int      `json:"remaining_edges"`
	Current     []string `json:"current"`
	Final       []string `json:"final"`
	Orphans     []string `json:"orphans"`
	Fingerprint string   `json:"fingerprint"`
}

var checkCmd = &cobra.Command{
	Use:   "check <input>",
	Short: "Validate a task description and report what pruning does",
	Long: `Validate a task description (schema, dependencies, cycles) and report the
task and edge counts before and after pruning, the pruned tasks, the current
and final tasks, and a fingerprint of the pruned declarative form.

The fingerprint is stable across runs and input formats: two descriptions
that prune to the same graph share it.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output the report as JSON")
	checkCmd.Flags().StringVar(&checkFormat, "format", "", "Input format: json, yaml, toml or hcl (default: by extension)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	overrides := &config.CLIOverrides{}
	if cmd.Flags().Changed("format") {
		overrides.InputFormat = &checkFormat
	}
	rc, err := resolveSettings(overrides)
	if err != nil {
		return err
	}

	in, err := loadInput(args[0], rc, graph.WithoutPruning())
	if err != nil {
		return err
	}
	report, err := buildCheckReport(in)
	if err != nil {
		return err
	}

	if checkJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printCheckReport(cmd.OutOrStdout(), report)
	return nil
}

// buildCheckReport prunes in.Graph in place and verifies the result.
func buildCheckReport(in *loadedInput) (*checkReport, error) {
	g := in.Graph
	r := &checkReport{
		Input:   in.Path,
		Tasks:   g.Len(),
		Edges:   len(g.Edges()),
		Orphans: nonNil(graph.Orphans(in.Spec)),
	}

	r.Pruned = nonNil(g.PruneInactive())
	if err := g.Verify(); err != nil {
		return nil, fmt.Errorf("checking %s: %w", in.Path, err)
	}

	r.Remaining = g.Len()
	r.RemainEdges = len(g.Edges())
	r.Current = taskNames(g.CurrentTasks())
	r.Final = taskNames(g.FinalTasks())
	r.Fingerprint = g.FingerprintHex()
	return r, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func printCheckReport(out io.Writer, r *checkReport) {
	title := "Check " + r.Input
	fmt.Fprintln(out, styleHeader.Render(title))
	fmt.Fprintln(out, styleSeparator.Render(strings.Repeat("=", len(title))))
	fmt.Fprintln(out)

	printStat(out, "tasks", fmt.Sprintf("%d (%d edges)", r.Tasks, r.Edges))
	pruned := fmt.Sprint(len(r.Pruned))
	if len(r.Pruned) > 0 {
		pruned += " (" + fmtList(r.Pruned) + ")"
	}
	printStat(out, "pruned", pruned)
	printStat(out, "remaining", fmt.Sprintf("%d (%d edges)", r.Remaining, r.RemainEdges))
	printStat(out, "current", fmtList(r.Current))
	printStat(out, "final", fmtList(r.Final))
	printStat(out, "orphans", fmtList(r.Orphans))
	printStat(out, "fingerprint", r.Fingerprint)
	fmt.Fprintln(out)

	fmt.Fprintln(out, styleSuccess.Render("OK"))
}

func printStat(out io.Writer, name, value string) {
	fmt.Fprintf(out, "  %s %s\n", styleSection.Render(fmt.Sprintf("%-12s", name)), value)
}

func fmtList(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
