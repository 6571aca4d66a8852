// Package buildinfo carries the version stamped in by the linker:
//
//	-ldflags "-X displaywriter/internal/buildinfo.Version=v1.2.0 -X ...Commit=abc123"
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the most specific identifier available: the release version,
// else the commit, else "dev".
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Summary is the startup banner form: "v1.2.0 (abc123, 2024-05-01)".
func Summary() string {
	return Short() + " (" + Commit + ", " + Date + ")"
}
