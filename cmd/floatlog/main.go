// floatlog CLI - reactive request-log store with an HTTP overlay
package main

import (
	"github.com/ethanCharter/floatlog/pkg/cli"
)

// Build-time variables set via ldflags
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.BuildDate = buildDate
	cli.Execute()
}
