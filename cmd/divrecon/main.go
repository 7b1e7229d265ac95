package main

import (
	"os"

	"github.com/divrecon-dev/divrecon/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
