package version

import (
	"strings"

	"github.com/coreos/go-semver/semver"
	"github.com/fatih/color"
)

// Version information for the waldo CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Current returns Version trimmed, or "dev" when unset.
func Current() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		return "dev"
	}
	return v
}

// Parsed returns Version as a semantic version. ok is false for
// non-semver builds such as "dev".
func Parsed() (*semver.Version, bool) {
	v, err := semver.NewVersion(strings.TrimPrefix(Current(), "v"))
	if err != nil {
		return nil, false
	}
	return v, true
}

// Colored renders the version with major, minor and patch colored.
// Non-semver versions are returned as is.
func Colored() string {
	v, ok := Parsed()
	if !ok {
		return Current()
	}
	out := versionMajorColor.Sprint(v.Major) + "." +
		versionMinorColor.Sprint(v.Minor) + "." +
		versionPatchColor.Sprint(v.Patch)
	if v.PreRelease != "" {
		out += "-" + string(v.PreRelease)
	}
	if v.Metadata != "" {
		out += "+" + v.Metadata
	}
	return out
}
