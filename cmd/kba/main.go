// Package main is the entry point for the kba CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/kbaudit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
