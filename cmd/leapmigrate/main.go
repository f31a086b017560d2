// Package main provides the CLI for the LeapMigrate schema migration compiler.
package main

import (
	"os"

	"github.com/leapstack-labs/leapmigrate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
