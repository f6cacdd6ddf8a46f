package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Version information for the quill CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Styled renders Version with major/minor/patch colored when colored is set.
func Styled(colored bool) string {
	major := color.New(color.FgYellow, color.Bold)
	minor := color.New(color.FgGreen, color.Bold)
	patch := color.New(color.FgBlue, color.Bold)
	for _, c := range []*color.Color{major, minor, patch} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := major.Sprint(parts[0]) + "." + minor.Sprint(parts[1]) + "." + patch.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Describe returns the full version line printed by `quill version`.
func Describe(colored bool) string {
	line := "quill " + Styled(colored)
	var extra []string
	if GitCommit != "" {
		extra = append(extra, "commit "+GitCommit)
	}
	if BuildDate != "" {
		extra = append(extra, "built "+BuildDate)
	}
	if len(extra) > 0 {
		line = fmt.Sprintf("%s (%s)", line, strings.Join(extra, ", "))
	}
	return line
}
