// rustopt rewrites Rust sources through the Anthropic API.
// Fingerprinted inputs, cached responses, timestamped backups.
package main

import (
	"os"

	"github.com/doublegate/rustopt/cmd/rustopt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
