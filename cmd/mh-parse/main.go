package main

import (
	"os"

	"github.com/CerenB/miss-hit/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
