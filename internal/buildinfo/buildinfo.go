// Package buildinfo holds the build metadata of the lazystack binary. The
// linker injects values into cmd/lazystack; main forwards them with Set.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

const (
	unsetVersion = "dev"
	unsetCommit  = "none"
	unsetValue   = "unknown"
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version string
	Commit  string
	Date    string
	BuiltBy string
}

var current = Info{
	Version: unsetVersion,
	Commit:  unsetCommit,
	Date:    unsetValue,
	BuiltBy: unsetValue,
}

// Set stores the linker-injected metadata.
func Set(version, commit, date, builtBy string) {
	current = Info{Version: version, Commit: commit, Date: date, BuiltBy: builtBy}
}

// Get returns the current metadata.
func Get() Info { return current }

// Version returns the build version.
func Version() string { return current.Version }

// Enrich fills a missing commit from the VCS stamp of the binary and a
// missing builder from the Go version that built it.
func Enrich() {
	if current.Commit != unsetCommit && current.BuiltBy != unsetValue {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	enrich(&current, info)
}

func enrich(i *Info, bi *debug.BuildInfo) {
	if i.Commit == unsetCommit {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				i.Commit = s.Value
			}
		}
	}
	if i.BuiltBy == unsetValue && bi.GoVersion != "" {
		i.BuiltBy = bi.GoVersion
	}
}

// String renders the metadata for the version subcommand.
func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return fmt.Sprintf("lazystack %s (commit %s, built %s by %s)", i.Version, commit, i.Date, i.BuiltBy)
}
