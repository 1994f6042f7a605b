// Package buildinfo holds version information stamped in at link time.
//
//	go build -ldflags "-X github.com/matzehuels/bargroup/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/bargroup/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/bargroup/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/bargroup
package buildinfo

import "fmt"

var (
	// Version is the release tag, or "dev" for local builds.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// String returns a multi-line summary of the build.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Short returns "<version> (<commit>)", or just the version when the
// commit is unknown.
func Short() string {
	if Commit == "" || Commit == "none" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\nbuilt: %s\n", Short(), Date)
}
