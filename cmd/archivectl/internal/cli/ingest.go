package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/coreason-ai/archive/archivemodel"
	"github.com/coreason-ai/archive/ingest"
)

func cmdIngest() *cli.Command {
	var snapshotPath string
	var scope string
	var scopeID string
	var promptText, reasoningTrace, finalResponse string
	var ttlSeconds int
	var accessRoles string
	var sourceURNs string

	flags := []cli.Flag{
		&cli.StringFlag{Name: "snapshot", Usage: "snapshot file to load from and save to", Destination: &snapshotPath},
		&cli.StringFlag{Name: "scope", Usage: "USER|PROJECT|DEPARTMENT|CLIENT|GLOBAL", Required: true, Destination: &scope},
		&cli.StringFlag{Name: "scope-id", Usage: "scope identifier ('*' for GLOBAL)", Required: true, Destination: &scopeID},
		&cli.StringFlag{Name: "prompt", Usage: "prompt text", Required: true, Destination: &promptText},
		&cli.StringFlag{Name: "reasoning", Usage: "reasoning trace text", Destination: &reasoningTrace},
		&cli.StringFlag{Name: "response", Usage: "final response text", Destination: &finalResponse},
		&cli.IntFlag{Name: "ttl-seconds", Usage: "override the scope's default ttl", Destination: &ttlSeconds},
		&cli.StringFlag{Name: "access-roles", Usage: "comma-separated roles required to read this thought", Destination: &accessRoles},
		&cli.StringFlag{Name: "source-urns", Usage: "comma-separated source document URNs", Destination: &sourceURNs},
	}
	flags = append(flags, userContextFlags()...)

	return &cli.Command{
		Name:  "ingest",
		Usage: "add a thought to the archive",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sys, err := openSystem(snapshotPath)
			if err != nil {
				return err
			}

			callerCtx := userContextFromFlags(ctx, c)
			req := ingest.Request{
				Scope:          archivemodel.Scope(scope),
				ScopeID:        scopeID,
				OwnerID:        callerCtx.UserID,
				PromptText:     promptText,
				ReasoningTrace: reasoningTrace,
				FinalResponse:  finalResponse,
				SourceURNs:     splitCSV(sourceURNs),
				TTLSeconds:     int64(ttlSeconds),
				AccessRoles:    splitCSV(accessRoles),
			}

			t, err := sys.AddThought(ctx, callerCtx, req)
			if err != nil {
				sys.Close()
				return err
			}

			fmt.Fprintf(c.Writer, "ingested thought %s\n", t.ID)
			return closeSystem(sys, snapshotPath)
		},
	}
}
