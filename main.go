// ABOUTME: Entry point for the clarity advisor CLI and MCP server
// ABOUTME: Hands argument parsing and command routing to the cobra root command
package main

import (
	"log"

	"github.com/dexterfire861/ClarityWorks/cli"
)

func main() {
	log.SetFlags(0)
	if err := cli.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
