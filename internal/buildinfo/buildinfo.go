// Package buildinfo provides build version metadata.
package buildinfo

// Injected at build time via ldflags.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Summary returns a human-readable version string.
func Summary() string {
	summary := Version
	if summary == "" {
		summary = "dev"
	}
	switch {
	case Commit != "" && Date != "":
		return summary + " (" + Commit + " " + Date + ")"
	case Commit != "":
		return summary + " (" + Commit + ")"
	case Date != "":
		return summary + " (" + Date + ")"
	}
	return summary
}
