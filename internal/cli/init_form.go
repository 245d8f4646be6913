package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/config"
)

// ErrInitCancelled is returned when the user aborts the interactive init form.
var ErrInitCancelled = errors.New("init cancelled by user")

// initFormWidth keeps the form inside an 80 column terminal.
const initFormWidth = 80

// rankDirs lists the Graphviz rank directions offered by the form, in the
// order they are shown.
var rankDirs = []string{"LR", "RL", "TB", "BT"}

// initAnswers holds the values collected by the init form. Fields start out
// as the flag values so the form opens pre-filled.
type initAnswers struct {
	Starter   string
	GraphName string
	RankDir   string
}

// initFormRunner runs the interactive form. Tests swap it out to answer the
// form without a terminal.
var initFormRunner = runInitForm

// stdinIsTerminal is swapped out in tests.
var stdinIsTerminal = isStdinTTY

// newInitForm builds the single-page form that asks for the starter format,
// graph name and rank direction.
func newInitForm(answers *initAnswers, starters []string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which input format should the example use?").
				Description("The starter writes tasks.<format> next to taskdag.toml.").
				Options(huh.NewOptions(starters...)...).
				Value(&answers.Starter),
			huh.NewInput().
				Title("Graph name").
				Description("Written to render.graph_name; must be a DOT identifier.").
				Value(&answers.GraphName).
				Validate(validateGraphName),
			huh.NewSelect[string]().
				Title("Rank direction").
				Options(
					huh.NewOption("Left to right (LR)", "LR"),
					huh.NewOption("Right to left (RL)", "RL"),
					huh.NewOption("Top to bottom (TB)", "TB"),
					huh.NewOption("Bottom to top (BT)", "BT"),
				).
				Value(&answers.RankDir),
		),
	).
		WithTheme(huh.ThemeCharm()).
		WithWidth(initFormWidth)
}

// runInitForm shows the form on the terminal and fills answers in place.
func runInitForm(answers *initAnswers, starters []string) error {
	return mapInitFormErr(newInitForm(answers, starters).Run())
}

// mapInitFormErr turns huh's abort into ErrInitCancelled.
func mapInitFormErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrInitCancelled
	}
	return fmt.Errorf("init form: %w", err)
}

// validateGraphName applies the render.graph_name rule from config validate.
func validateGraphName(s string) error {
	c := config.NewDefaults()
	c.Render.GraphName = strings.TrimSpace(s)
	vr := config.Validate(c, nil)
	for _, e := range vr.Errors() {
		if e.Field == "render.graph_name" {
			return errors.New(e.Message)
		}
	}
	return nil
}

// normalizeRankDir upper-cases a rank direction so "tb" selects "TB" in the
// form. Unknown values fall back to the default.
func normalizeRankDir(s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	for _, d := range rankDirs {
		if d == up {
			return d
		}
	}
	return config.DefaultRankDir
}

// isStdinTTY reports whether stdin is attached to a terminal.
func isStdinTTY() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
