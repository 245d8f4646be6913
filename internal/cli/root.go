// Package cli implements the taskdag command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/logging"
)

// Global flag values accessible to all subcommands.
var (
	flagVerbose bool
	flagQuiet   bool
	flagConfig  string
	flagDir     string
	flagNoColor bool
)

// rootCmd is the base command for taskdag.
var rootCmd = &cobra.Command{
	Use:   "taskdag [input]",
	Short: "Prune and render task dependency graphs",
	Long: `taskdag loads a task description (name -> deps and data), builds the
dependency graph, prunes every task whose status is "done" or "failed"
together with everything it depends on, and renders what is left as
Graphviz DOT text.

Running "taskdag <input>" is the same as "taskdag render <input>".`,
	Example: `  taskdag tasks.json | dot -Tsvg > tasks.svg
  taskdag tasks.yaml -o tasks.dot --orphans
  taskdag render 'graphs/**/*.json' --out-dir build/dot`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runRender(cmd, args)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Check env vars for flags not explicitly set on command line.
		if !cmd.Flags().Changed("verbose") && os.Getenv("TASKDAG_VERBOSE") != "" {
			flagVerbose = true
		}
		if !cmd.Flags().Changed("quiet") && os.Getenv("TASKDAG_QUIET") != "" {
			flagQuiet = true
		}
		if !cmd.Flags().Changed("no-color") && (os.Getenv("NO_COLOR") != "" || os.Getenv("TASKDAG_NO_COLOR") != "") {
			flagNoColor = true
		}

		logging.Setup(flagVerbose, flagQuiet, logging.JSONFromEnv(os.LookupEnv))

		if flagNoColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}

		if flagDir != "" {
			if err := os.Chdir(flagDir); err != nil {
				return fmt.Errorf("changing directory to %s: %w", flagDir, err)
			}
		}

		return nil
	},
}

func init() {
	registerPersistentFlags(rootCmd,
		&flagVerbose, &flagQuiet, &flagConfig, &flagDir, &flagNoColor)

	// The shortcut form accepts the single-file render flags.
	rootCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write DOT text to this file instead of stdout")
	rootCmd.Flags().BoolVar(&renderOrphans, "orphans", false, "Print tasks no other task depends on")
}

func registerPersistentFlags(cmd *cobra.Command, verbose, quiet *bool, cfg, dir *string, noColor *bool) {
	cmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable verbose (debug) output (env: TASKDAG_VERBOSE)")
	cmd.PersistentFlags().BoolVarP(quiet, "quiet", "q", false, "Suppress all output except errors (env: TASKDAG_QUIET)")
	cmd.PersistentFlags().StringVar(cfg, "config", "", "Path to taskdag.toml config file")
	cmd.PersistentFlags().StringVar(dir, "dir", "", "Override working directory")
	cmd.PersistentFlags().BoolVar(noColor, "no-color", false, "Disable colored output (env: TASKDAG_NO_COLOR, NO_COLOR)")
}

// Execute runs the root command and returns the exit code. SIGINT and
// SIGTERM cancel the command context, which ends a running --watch.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// NewRootCmd returns a fresh root command carrying the same persistent flags
// and subcommands as the global tree. The completion and man page generators
// use it.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               rootCmd.Use,
		Short:             rootCmd.Short,
		Long:              rootCmd.Long,
		Example:           rootCmd.Example,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: rootCmd.PersistentPreRunE,
	}

	var (
		verbose, quiet, noColor bool
		cfg, dir                string
	)
	registerPersistentFlags(cmd, &verbose, &quiet, &cfg, &dir, &noColor)

	for _, child := range rootCmd.Commands() {
		cmd.AddCommand(child)
	}
	return cmd
}
