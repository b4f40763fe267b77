package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version information, set via -ldflags at release time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	Execute()
}

// versionString reports the release stamped at link time. `go install`
// builds carry no ldflags, so their module version and VCS revision are
// read from the embedded build info instead.
func versionString() string {
	v, c, d := version, commit, date
	if info, ok := debug.ReadBuildInfo(); ok && v == "dev" {
		if mv := info.Main.Version; mv != "" && mv != "(devel)" {
			v = mv
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if c == "none" {
					c = s.Value
				}
			case "vcs.time":
				if d == "unknown" {
					d = s.Value
				}
			}
		}
	}
	return fmt.Sprintf("wt %s (%s, %s, %s)", v, c[:min(7, len(c))], d, runtime.Version())
}
