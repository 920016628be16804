// Package info provides build information about the treebase library and
// the program it is linked into.
package info

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

// ModulePath is the module path of this library.
const ModulePath = "github.com/safing/treebase"

var (
	info     *Info
	loadInfo sync.Once
)

// Info holds build information.
type Info struct {
	// Version is the version of the treebase module.
	Version string
	// Program is the path of the main module.
	Program string

	Commit     string
	CommitTime string
	Dirty      bool

	GoVersion string
}

// GetInfo returns the build information.
func GetInfo() *Info {
	loadInfo.Do(func() {
		info = &Info{
			Version:   "(devel)",
			GoVersion: runtime.Version(),
		}

		buildInfo, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		info.Program = buildInfo.Main.Path
		if buildInfo.Main.Path == ModulePath && buildInfo.Main.Version != "" {
			info.Version = buildInfo.Main.Version
		}
		for _, dep := range buildInfo.Deps {
			if dep.Path == ModulePath {
				info.Version = dep.Version
			}
		}

		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				info.Commit = setting.Value
			case "vcs.time":
				info.CommitTime = setting.Value
			case "vcs.modified":
				info.Dirty = setting.Value == "true"
			}
		}

		if info.Commit == "" {
			info.Commit = "[commit unknown]"
		}
		if info.CommitTime == "" {
			info.CommitTime = "[commit time unknown]"
		}
	})

	return info
}

// Version returns the short version string.
func Version() string {
	info := GetInfo()

	if info.Dirty {
		return info.Version + "*"
	}

	return info.Version
}

// FullVersion returns the full and detailed version string.
func FullVersion() string {
	info := GetInfo()
	builder := new(strings.Builder)

	builder.WriteString(fmt.Sprintf("treebase %s\n", Version()))
	if info.Program != "" && info.Program != ModulePath {
		builder.WriteString(fmt.Sprintf("  in %s\n", info.Program))
	}

	// Build info.
	builder.WriteString(fmt.Sprintf("\nbuilt with %s (%s) %s/%s\n", info.GoVersion, runtime.Compiler, runtime.GOOS, runtime.GOARCH))

	// Commit info.
	builder.WriteString(fmt.Sprintf("\ncommit %s\n", info.Commit))
	builder.WriteString(fmt.Sprintf("  at %s\n", info.CommitTime))

	return builder.String()
}
