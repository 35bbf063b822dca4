// Package version holds the PuzzleMaster release version.
package version

// Version can be overridden at build time:
//
//	go build -ldflags "-X github.com/AaronLay10/PuzzleMaster/internal/version.Version=x.y.z"
var Version = "0.3.0"
