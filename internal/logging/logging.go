// Package logging configures taskdag's diagnostic output on charmbracelet/log.
//
// Diagnostics always go to stderr. stdout belongs to rendered DOT text,
// declarative output and task listings, so piping `taskdag render` into
// `dot -Tsvg` never picks up a log line.
//
//	logging.Setup(verbose, quiet, logging.JSONFromEnv(os.LookupEnv))
//	logger := logging.New("render")
//	logger.Debug("rendered", "tasks", g.Len())
//
// Setup must run before New: child loggers copy the default logger's state
// when they are created.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// FormatEnvVar selects the log formatter; "json" switches to NDJSON.
const FormatEnvVar = "TASKDAG_LOG_FORMAT"

// Level aliases so callers do not import charmbracelet/log for comparisons.
const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
	LevelError = log.ErrorLevel
)

// Setup configures the global logger. Quiet wins over verbose: scripted runs
// passing --quiet see errors only. Verbose runs also get timestamps.
func Setup(verbose, quiet, jsonFormat bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	if quiet {
		level = log.ErrorLevel
	}

	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(verbose && !quiet)

	if jsonFormat {
		log.SetFormatter(log.JSONFormatter)
	} else {
		log.SetFormatter(log.TextFormatter)
	}
}

// JSONFromEnv reports whether FormatEnvVar asks for JSON output.
func JSONFromEnv(lookup func(string) (string, bool)) bool {
	v, ok := lookup(FormatEnvVar)
	return ok && strings.EqualFold(strings.TrimSpace(v), "json")
}

// New returns a logger prefixed with component. An empty component gives an
// unprefixed logger.
func New(component string) *log.Logger {
	return log.WithPrefix(component)
}

// SetOutput redirects the default logger, mainly for tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}
