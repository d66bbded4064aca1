// Command ragweave is the entry point for the ragweave CLI.
package main

import (
	"os"

	"github.com/ragweave/ragweave/internal/adapters/driving/cli"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
