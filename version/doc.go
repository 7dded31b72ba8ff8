// Package version reports build information for voicedoc binaries.
//
// Values are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/voicedoc/version.Version=1.0.0"
package version
