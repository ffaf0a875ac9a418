// Package main provides the CrossFrame CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/crossframe/internal/cli"

	// Backends register themselves on import.
	_ "github.com/leapstack-labs/crossframe/pkg/backends/arrowdf"
	_ "github.com/leapstack-labs/crossframe/pkg/backends/sqldf"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
