package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/coreason-ai/archive/matchmaker"
)

func cmdLookup() *cli.Command {
	var snapshotPath string
	var queryText string

	flags := []cli.Flag{
		&cli.StringFlag{Name: "snapshot", Usage: "snapshot file to load from", Destination: &snapshotPath},
		&cli.StringFlag{Name: "query", Usage: "query text to look up", Required: true, Destination: &queryText},
	}
	flags = append(flags, userContextFlags()...)

	return &cli.Command{
		Name:  "lookup",
		Usage: "run smart_lookup against the archive",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sys, err := openSystem(snapshotPath)
			if err != nil {
				return err
			}
			defer sys.Close()

			callerCtx := userContextFromFlags(ctx, c)
			result, err := sys.Lookup(ctx, queryText, callerCtx)
			if err != nil {
				return err
			}

			printResult(c, result)
			return nil
		},
	}
}

func printResult(c *cli.Command, result matchmaker.Result) {
	fmt.Fprintf(c.Writer, "strategy=%s score=%.4f\n", result.Strategy, result.Score)
	switch result.Strategy {
	case matchmaker.ExactHit:
		fmt.Fprintf(c.Writer, "response: %s\n", result.Exact.FinalResponse)
	case matchmaker.SemanticHint:
		fmt.Fprintf(c.Writer, "reasoning: %s\n", result.Hint.ReasoningTrace)
	case matchmaker.EntityHop:
		fmt.Fprintf(c.Writer, "reasoning (structural): %s\n", result.Hop.ReasoningTrace)
	}
}
