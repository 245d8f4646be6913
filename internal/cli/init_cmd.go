package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/config"
)

var (
	initFlagGraphName   string
	initFlagRankDir     string
	initFlagForce       bool
	initFlagInteractive bool
)

// initCmd implements "taskdag init [starter]". It writes a taskdag.toml and
// an example task description without reading any existing configuration.
var initCmd = &cobra.Command{
	Use:   "init [starter]",
	Short: "Write a starter taskdag.toml and example task description",
	Long: `Write taskdag.toml and an example task description into the working
directory. The starter names the input format: yaml (default), json or hcl.
Existing files are kept unless --force is given.

With --interactive the starter, graph name and rank direction are asked for
in a form, pre-filled from the arguments and flags.`,
	Example: `  taskdag init
  taskdag init hcl --graph-name pipeline --rankdir TB
  taskdag init json --force

  # Answer the questions in a form
  taskdag init --interactive`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"yaml", "json", "hcl"},
	RunE:      runInit,
}

func init() {
	initCmd.Flags().StringVar(&initFlagGraphName, "graph-name", config.DefaultGraphName, "DOT graph name written to taskdag.toml")
	initCmd.Flags().StringVar(&initFlagRankDir, "rankdir", config.DefaultRankDir, "Graphviz rankdir written to taskdag.toml")
	initCmd.Flags().BoolVar(&initFlagForce, "force", false, "Overwrite existing files")
	initCmd.Flags().BoolVarP(&initFlagInteractive, "interactive", "i", false, "Ask for the starter, graph name and rankdir in a form")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	starter := config.DefaultTemplate
	if len(args) > 0 {
		starter = args[0]
	}
	graphName := initFlagGraphName
	rankDir := initFlagRankDir

	if initFlagInteractive {
		if !stdinIsTerminal() {
			return fmt.Errorf("--interactive requires a terminal on stdin")
		}
		starters, err := config.ListTemplates()
		if err != nil {
			return fmt.Errorf("listing available starters: %w", err)
		}
		answers := &initAnswers{
			Starter:   starter,
			GraphName: graphName,
			RankDir:   normalizeRankDir(rankDir),
		}
		if err := initFormRunner(answers, starters); err != nil {
			return err
		}
		starter = answers.Starter
		graphName = strings.TrimSpace(answers.GraphName)
		rankDir = answers.RankDir
	}

	if !config.TemplateExists(starter) {
		available, listErr := config.ListTemplates()
		if listErr != nil {
			return fmt.Errorf("listing available starters: %w", listErr)
		}
		return fmt.Errorf("starter %q not found; available starters: %s",
			starter, strings.Join(available, ", "))
	}

	// Check the values against the same rules config validate applies.
	checked := config.NewDefaults()
	checked.Render.GraphName = graphName
	checked.Render.RankDir = strings.ToUpper(rankDir)
	if vr := config.Validate(checked, nil); vr.HasErrors() {
		first := vr.Errors()[0]
		return fmt.Errorf("invalid %s: %s", first.Field, first.Message)
	}

	destDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	configPath := filepath.Join(destDir, config.ConfigFileName)
	if _, statErr := os.Stat(configPath); statErr == nil && !initFlagForce {
		return fmt.Errorf("%s already exists in %s; use --force to overwrite", config.ConfigFileName, destDir)
	}

	vars := config.TemplateVars{
		GraphName: checked.Render.GraphName,
		RankDir:   checked.Render.RankDir,
	}
	created, err := config.RenderTemplate(starter, destDir, vars, initFlagForce)
	if err != nil {
		return fmt.Errorf("rendering starter %q: %w", starter, err)
	}

	// Progress goes to stderr; stdout stays clean.
	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "Initialized taskdag from the %q starter\n\n", starter)
	if len(created) > 0 {
		fmt.Fprintln(stderr, "Created files:")
		for _, f := range created {
			rel, relErr := filepath.Rel(destDir, f)
			if relErr != nil {
				rel = f
			}
			fmt.Fprintf(stderr, "  %s\n", rel)
		}
		fmt.Fprintln(stderr)
	}
	fmt.Fprintln(stderr, "Next steps:")
	fmt.Fprintf(stderr, "  taskdag check tasks.%s\n", starter)
	fmt.Fprintf(stderr, "  taskdag tasks.%s | dot -Tsvg > tasks.svg\n", starter)
	return nil
}
