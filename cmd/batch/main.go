package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/abkawan/banking-core/internal/command"
	"github.com/abkawan/banking-core/internal/dispatch"
)

// Runs a JSON command file against a fresh core and prints the
// outcomes as JSON.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: batch <command-file>")
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read command file: %v", err)
	}

	core := dispatch.NewContext()
	outcomes, err := command.Run(data, dispatch.NewDispatcher(), core)
	if err != nil {
		log.Fatalf("Failed to run commands: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcomes); err != nil {
		log.Fatalf("Failed to encode outcomes: %v", err)
	}
}
