package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/coreason-ai/archive/identityevents"
)

func cmdRelocate() *cli.Command {
	var snapshotPath string
	var userID string
	var removedRoles string
	var sourceURN string

	flags := []cli.Flag{
		&cli.StringFlag{Name: "snapshot", Usage: "snapshot file to load from and save to", Destination: &snapshotPath},
		&cli.StringFlag{Name: "user-id", Usage: "user whose role change triggers sanitization", Destination: &userID},
		&cli.StringFlag{Name: "removed-roles", Usage: "comma-separated roles the user lost", Destination: &removedRoles},
		&cli.StringFlag{Name: "source-urn", Usage: "source document URN that changed, marks matching thoughts stale", Destination: &sourceURN},
	}

	return &cli.Command{
		Name:  "relocate",
		Usage: "apply a role-change or source-update event to the archive",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sys, err := openSystem(snapshotPath)
			if err != nil {
				return err
			}

			if userID != "" {
				summary := sys.HandleRoleUpdate(identityevents.RoleUpdate{
					UserID:       userID,
					RemovedRoles: splitCSV(removedRoles),
				})
				fmt.Fprintf(c.Writer, "role update: scanned=%d retained=%d deleted=%d\n", summary.Scanned, summary.Retained, summary.Deleted)
			}
			if sourceURN != "" {
				n := sys.HandleSourceUpdated(identityevents.SourceUpdated{SourceURN: sourceURN})
				fmt.Fprintf(c.Writer, "source update: marked %d thoughts stale\n", n)
			}

			return closeSystem(sys, snapshotPath)
		},
	}
}
