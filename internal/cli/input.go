package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/codec"
	"github.com/AbdelazizMoustafa10m/taskdag/internal/config"
	"github.com/AbdelazizMoustafa10m/taskdag/internal/graph"
	"github.com/AbdelazizMoustafa10m/taskdag/internal/logging"
	"github.com/AbdelazizMoustafa10m/taskdag/internal/render"
)

// loadedInput is one task description read from disk together with the
// graph built from it.
type loadedInput struct {
	Path  string
	Spec  graph.Spec
	Graph *graph.Graph
}

// resolveSettings loads taskdag.toml, applies env and flag overrides, and
// refuses to continue on validation errors. Warnings are logged.
func resolveSettings(overrides *config.CLIOverrides) (*config.ResolvedConfig, error) {
	rc, meta, err := loadAndResolveConfig(overrides)
	if err != nil {
		return nil, err
	}

	result := config.Validate(rc.Config, meta)
	logger := logging.New("config")
	for _, w := range result.Warnings() {
		logger.Warn(w.Message, "field", w.Field, "file", rc.Path)
	}
	if errs := result.Errors(); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Field+": "+e.Message)
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return rc, nil
}

// loadInput reads path in the configured input format and builds its graph.
func loadInput(path string, rc *config.ResolvedConfig, opts ...graph.BuildOption) (*loadedInput, error) {
	format, err := codec.ParseFormat(rc.Config.Input.Format)
	if err != nil {
		return nil, err
	}

	spec, err := codec.LoadFile(path, format)
	if err != nil {
		return nil, err
	}

	g, err := graph.Build(spec, opts...)
	if err != nil {
		return nil, fmt.Errorf("building graph from %s: %w", path, err)
	}
	return &loadedInput{Path: path, Spec: spec, Graph: g}, nil
}

func renderOptions(rc *config.ResolvedConfig) render.Options {
	return render.Options{
		GraphName: rc.Config.Render.GraphName,
		RankDir:   rc.Config.Render.RankDir,
		IDPrefix:  rc.Config.Render.IDPrefix,
	}
}

// expandInputs turns command-line arguments into input paths. Arguments
// containing glob metacharacters are expanded with doublestar ("**" crosses
// directories); a pattern that matches nothing is an error. Plain paths are
// kept as given so a missing file is reported when it is opened. The result
// is deduplicated and keeps argument order.
func expandInputs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			paths = append(paths, clean)
		}
	}

	for _, arg := range args {
		if !hasMeta(arg) {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return paths, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// writeFileAtomic replaces path through a temporary file in the same
// directory, so a watcher or reader never sees a half-written file.
func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".taskdag-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
