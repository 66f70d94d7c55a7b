// Package main is the entry point for the pageforge CLI.
package main

import (
	"os"

	"github.com/pageforge/pageforge/cmd/pageforge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
