package main

import (
	"context"
	"os"

	"github.com/mrlokans/bookfinder/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	version := Version
	if Commit != "unknown" {
		version += " (" + Commit + ")"
	}
	os.Exit(cli.Execute(context.Background(), version, os.Args[1:]))
}
