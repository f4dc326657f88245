package cli

import (
	"context"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/coreason-ai/archive/archive"
	"github.com/coreason-ai/archive/archivemodel"
)

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// openSystem builds a System and, if path exists, restores it from a prior
// snapshot. Every one-shot subcommand (ingest, lookup, relocate) operates
// against a snapshot file rather than a long-running daemon; "serve" is the
// only subcommand that keeps a System resident and reachable over the
// network.
func openSystem(snapshotPath string) (*archive.System, error) {
	sys, err := archive.New(archive.Options{})
	if err != nil {
		return nil, err
	}
	if snapshotPath == "" {
		return sys, nil
	}
	if _, err := os.Stat(snapshotPath); err != nil {
		return sys, nil
	}
	if err := sys.Restore(snapshotPath); err != nil {
		return nil, err
	}
	return sys, nil
}

func closeSystem(sys *archive.System, snapshotPath string) error {
	defer sys.Close()
	if snapshotPath == "" {
		return nil
	}
	return sys.Snapshot(snapshotPath)
}

func userContextFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "user-id", Usage: "caller user id"},
		&cli.StringFlag{Name: "roles", Usage: "comma-separated roles held by the caller"},
		&cli.StringFlag{Name: "dept-ids", Usage: "comma-separated department ids the caller belongs to"},
		&cli.StringFlag{Name: "project-ids", Usage: "comma-separated project ids the caller belongs to"},
		&cli.StringFlag{Name: "client-ids", Usage: "comma-separated client ids the caller belongs to"},
		&cli.StringFlag{Name: "active-project-id", Usage: "the caller's active project, used for graph boost"},
	}
}

func userContextFromFlags(_ context.Context, c *cli.Command) archivemodel.UserContext {
	return archivemodel.UserContext{
		UserID:          c.String("user-id"),
		Roles:           splitCSV(c.String("roles")),
		DeptIDs:         splitCSV(c.String("dept-ids")),
		ProjectIDs:      splitCSV(c.String("project-ids")),
		ClientIDs:       splitCSV(c.String("client-ids")),
		ActiveProjectID: c.String("active-project-id"),
	}
}
