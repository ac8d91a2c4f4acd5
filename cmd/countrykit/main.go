// countrykit lists, filters and sorts the countries and territories offered by a country picker.
package main

import (
	"github.com/hightemp/countrykit/internal/cli"
)

// Build information (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.BuildTime = buildTime
	cli.Execute()
}
