package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Info holds build information suitable for JSON serialization.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// GetInfo returns the current build information. A binary installed with
// `go install module@version` carries no ldflags, so its module version is
// used when Version is still "dev".
func GetInfo() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
	}
	if info.Version == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			if v := bi.Main.Version; v != "" && v != "(devel)" {
				info.Version = v
			}
		}
	}
	return info
}

// String returns a human-readable version string, e.g.
// "taskdag v1.2.0 (commit: a1b2c3d, built: 2026-02-17T10:00:00Z)".
func (i Info) String() string {
	return fmt.Sprintf("taskdag v%s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}
