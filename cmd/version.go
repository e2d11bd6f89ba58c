// Package cmd holds build metadata injected with -ldflags "-X".
package cmd

var (
	// Version is the release version, e.g. "1.4.0".
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
