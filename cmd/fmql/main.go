// Package main is the entry point for the fmql CLI tool.
package main

import (
	"os"

	"github.com/fmql/fmql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
