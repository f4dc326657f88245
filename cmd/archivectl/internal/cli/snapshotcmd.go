package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func cmdSnapshot() *cli.Command {
	var snapshotPath string

	return &cli.Command{
		Name:  "snapshot",
		Usage: "print a summary of a snapshot file's contents",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "snapshot", Usage: "snapshot file to inspect", Required: true, Destination: &snapshotPath},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			sys, err := openSystem(snapshotPath)
			if err != nil {
				return err
			}
			defer sys.Close()

			fmt.Fprintf(c.Writer, "thoughts: %d\n", sys.Thoughts.Len())
			fmt.Fprintf(c.Writer, "vectors:  %d\n", sys.Vectors.Len())
			fmt.Fprintf(c.Writer, "edges:    %d\n", len(sys.Graph.Edges()))
			return nil
		},
	}
}
