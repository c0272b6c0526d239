// Package main is the entry point for the org-linter CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/orglint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
