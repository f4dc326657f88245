// Package cli assembles the archivectl root command and its subcommands.
// Shape grounded on secmon-lab-hecatoncheires's pkg/cli package: a root
// *cli.Command with Before/After hooks for logger setup/teardown and a
// Commands slice of per-verb cmdXxx() constructors.
package cli

import (
	"context"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/coreason-ai/archive/archivelog"
)

// Run builds and executes the archivectl command tree against args.
func Run(ctx context.Context, args []string, version string) error {
	var logger *zap.Logger

	app := &cli.Command{
		Name:    "archivectl",
		Usage:   "operate a coreason archive: ingest thoughts, run lookups, manage relocation and snapshots",
		Version: version,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			l, err := archivelog.New(false)
			if err != nil {
				return ctx, err
			}
			logger = l
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logger != nil {
				_ = logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdIngest(),
			cmdLookup(),
			cmdRelocate(),
			cmdSnapshot(),
			cmdServe(),
			cmdTail(),
		},
	}

	return app.Run(ctx, args)
}
