package version

import "fmt"

// Version is the sitegen release, set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/sitegen/internal/version.Version=v1.2.0".
var Version = "dev"

// Build metadata, also injected with ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("sitegen %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
