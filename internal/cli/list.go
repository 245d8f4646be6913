package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/config"
	"github.com/AbdelazizMoustafa10m/taskdag/internal/graph"
)

// listResult is the --json shape of the listing commands.
type listResult struct {
	Input string   `json:"input"`
	Tasks []string `json:"tasks"`
}

// lister picks task names out of a loaded input.
type lister func(in *loadedInput) []string

// newListCmd builds one of the task listing commands. Each command owns its
// --json flag.
func newListCmd(use, short, long string, pick lister) *cobra.Command {
	var (
		asJSON bool
		format string
	)
	cmd := &cobra.Command{
		Use:   use + " <input>",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := &config.CLIOverrides{}
			if cmd.Flags().Changed("format") {
				overrides.InputFormat = &format
			}
			rc, err := resolveSettings(overrides)
			if err != nil {
				return err
			}
			in, err := loadInput(args[0], rc)
			if err != nil {
				return err
			}
			names := pick(in)
			if asJSON {
				return writeListJSON(cmd.OutOrStdout(), args[0], names)
			}
			printNames(cmd.OutOrStdout(), names)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&format, "format", "", "Input format: json, yaml, toml or hcl (default: by extension)")
	return cmd
}

func writeListJSON(w io.Writer, input string, names []string) error {
	if names == nil {
		names = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listResult{Input: input, Tasks: names})
}

func currentTaskNames(in *loadedInput) []string { return taskNames(in.Graph.CurrentTasks()) }

func finalTaskNames(in *loadedInput) []string { return taskNames(in.Graph.FinalTasks()) }

func orphanNames(in *loadedInput) []string { return graph.Orphans(in.Spec) }

func taskNames(tasks []*graph.Task) []string {
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, t.Name())
	}
	return names
}

func init() {
	rootCmd.AddCommand(
		newListCmd("current",
			"List tasks that can run now",
			`List the tasks of the pruned graph that have no remaining dependencies,
one per line in name order.`,
			currentTaskNames),
		newListCmd("final",
			"List tasks nothing else waits for",
			`List the tasks of the pruned graph that no other task depends on,
one per line in name order.`,
			finalTaskNames),
		newListCmd("orphans",
			"List tasks never named as a dependency",
			`List the tasks of the input, before pruning, that no task lists in its
deps, one per line in name order.`,
			orphanNames),
	)
}
