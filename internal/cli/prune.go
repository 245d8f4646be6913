package cli

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/codec"
	"github.com/AbdelazizMoustafa10m/taskdag/internal/config"
	"github.com/AbdelazizMoustafa10m/taskdag/internal/logging"
)

var (
	pruneOutput       string
	pruneOutputFormat string
	pruneFormat       string
)

// pruneCmd implements "taskdag prune <input>". It writes the declarative
// form of the pruned graph: every remaining task with its deps and data.
var pruneCmd = &cobra.Command{
	Use:   "prune <input>",
	Short: "Write the pruned task description",
	Long: `Load a task description, prune every "done" or "failed" task together
with everything it depends on, and write what remains in the declarative
form (every task with "deps" and "data", both always present).

The output format comes from --output-format, then [output] format in
taskdag.toml (default json).`,
	Example: `  taskdag prune tasks.json
  taskdag prune tasks.hcl --output-format yaml -o remaining.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().StringVarP(&pruneOutput, "output", "o", "", "Write to this file instead of stdout")
	pruneCmd.Flags().StringVar(&pruneOutputFormat, "output-format", "", "Output format: json or yaml")
	pruneCmd.Flags().StringVar(&pruneFormat, "format", "", "Input format: json, yaml, toml or hcl (default: by extension)")
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	overrides := &config.CLIOverrides{}
	if cmd.Flags().Changed("format") {
		overrides.InputFormat = &pruneFormat
	}
	if cmd.Flags().Changed("output-format") {
		of := strings.ToLower(pruneOutputFormat)
		overrides.OutputFormat = &of
	}
	rc, err := resolveSettings(overrides)
	if err != nil {
		return err
	}

	in, err := loadInput(args[0], rc)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := codec.Encode(&buf, in.Graph.Spec(), codec.Format(rc.Config.Output.Format)); err != nil {
		return err
	}

	if pruneOutput == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := writeFileAtomic(pruneOutput, buf.Bytes()); err != nil {
		return err
	}
	logging.New("prune").Info("wrote pruned description",
		"path", pruneOutput, "tasks", in.Graph.Len(), "removed", len(in.Spec)-in.Graph.Len())
	return nil
}
