// Package version reports the build of the trader binary.
package version

// Version is set at build time:
// -ldflags "-X github.com/rxtech-lab/argo-agent/internal/version.Version=1.2.3"
// The default "main" marks a development build.
var Version = "main"
