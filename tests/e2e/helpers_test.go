package e2e_test

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// binaryPath is the taskdag binary built once by TestMain.
var binaryPath string

func TestMain(m *testing.M) {
	os.Exit(runMain(m))
}

func runMain(m *testing.M) int {
	flag.Parse()
	if testing.Short() {
		return m.Run()
	}

	dir, err := os.MkdirTemp("", "taskdag-e2e-")
	if err != nil {
		fmt.Fprintln(os.Stderr, "creating build dir:", err)
		return 1
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "taskdag")
	if runtime.GOOS == "windows" {
		binaryPath += ".exe"
	}
	build := exec.Command("go", "build", "-o", binaryPath, "./cmd/taskdag")
	build.Dir = projectRoot()
	if out, err := build.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "building taskdag: %v\n%s", err, out)
		return 1
	}
	return m.Run()
}

// testProject is an isolated working directory for one test.
type testProject struct {
	Dir string
	t   *testing.T
}

func newTestProject(t *testing.T) *testProject {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping E2E test in short mode")
	}
	return &testProject{Dir: t.TempDir(), t: t}
}

// projectRoot returns the repository root, two directories above this file.
func projectRoot() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..")
}

// copyFixture copies testdata/tasks/<name> into the project as dest.
func (tp *testProject) copyFixture(name, dest string) string {
	tp.t.Helper()
	data, err := os.ReadFile(filepath.Join(projectRoot(), "testdata", "tasks", name))
	require.NoError(tp.t, err)
	return tp.writeFile(dest, string(data))
}

// writeFile writes content to rel inside the project and returns the path.
func (tp *testProject) writeFile(rel, content string) string {
	tp.t.Helper()
	path := filepath.Join(tp.Dir, rel)
	require.NoError(tp.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(tp.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeConfig writes content to taskdag.toml in tp.Dir.
func (tp *testProject) writeConfig(content string) {
	tp.t.Helper()
	tp.writeFile("taskdag.toml", content)
}

// run creates an exec.Cmd for taskdag inside the project.
func (tp *testProject) run(args ...string) *exec.Cmd {
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = tp.Dir
	cmd.Env = append(os.Environ(),
		"NO_COLOR=1",
		"TASKDAG_LOG_FORMAT=json",
	)
	return cmd
}

// runExpectSuccess runs taskdag, asserts exit code 0 and returns stdout.
// Stderr is included in the failure message.
func (tp *testProject) runExpectSuccess(args ...string) string {
	tp.t.Helper()
	cmd := tp.run(args...)
	out, err := cmd.Output()
	var stderr []byte
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr = exitErr.Stderr
	}
	require.NoError(tp.t, err, "taskdag %v failed:\n%s", args, string(stderr))
	return string(out)
}

// runExpectFailure runs taskdag and asserts a non-zero exit code. It
// returns stdout, stderr and the exit code.
func (tp *testProject) runExpectFailure(args ...string) (string, string, int) {
	tp.t.Helper()
	cmd := tp.run(args...)
	out, err := cmd.Output()
	require.Error(tp.t, err, "taskdag %v expected to fail but succeeded:\n%s", args, string(out))
	var exitErr *exec.ExitError
	require.True(tp.t, errors.As(err, &exitErr), "expected *exec.ExitError, got %T: %v", err, err)
	return string(out), string(exitErr.Stderr), exitErr.ExitCode()
}
