// Command archivectl is the operator CLI: ingest thoughts, run lookups,
// trigger relocation events, and snapshot/restore the archive against a
// System built in-process. The serve subcommand keeps a System resident and
// broadcasts its events over WebSocket; tail connects to it.
//
// Command structure grounded on the secmon-lab-hecatoncheires example repo's
// pkg/cli package (a root *cli.Command with per-verb subcommands built by
// cmdXxx() constructors, urfave/cli/v3 flags with Destination pointers and
// EnvVars sources).
package main

import (
	"context"
	"os"

	"github.com/coreason-ai/archive/cmd/archivectl/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Run(context.Background(), os.Args, version); err != nil {
		os.Exit(1)
	}
}
