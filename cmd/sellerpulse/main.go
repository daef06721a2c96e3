package main

import (
	"os"

	"github.com/wonny/sellerpulse/cmd/sellerpulse/commands"
)

// main is the entry point for the sellerpulse CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
