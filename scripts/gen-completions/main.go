// Command gen-completions writes taskdag shell completion scripts for bash,
// zsh, fish and powershell into an output directory so release archives can
// ship them.
//
// Usage:
//
//	go run ./scripts/gen-completions [output-dir]
//
// The default output directory is "completions".
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/cli"
)

func main() {
	outDir := "completions"
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}
	if err := run(outDir); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Printf("All completions written to %s/\n", outDir)
}

func run(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %q: %w", outDir, err)
	}

	root := cli.NewRootCmd()
	scripts := []struct {
		name     string
		generate func(w io.Writer) error
	}{
		{"taskdag.bash", func(w io.Writer) error { return root.GenBashCompletionV2(w, true) }},
		{"_taskdag", root.GenZshCompletion},
		{"taskdag.fish", func(w io.Writer) error { return root.GenFishCompletion(w, true) }},
		{"taskdag.ps1", root.GenPowerShellCompletionWithDesc},
	}

	for _, s := range scripts {
		path := filepath.Join(outDir, s.name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %q: %w", path, err)
		}
		if err := s.generate(f); err != nil {
			f.Close()
			return fmt.Errorf("generating %q: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %q: %w", path, err)
		}
		fmt.Printf("Generated %s\n", path)
	}
	return nil
}
