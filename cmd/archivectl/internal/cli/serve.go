package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/coreason-ai/archive/archive"
	"github.com/coreason-ai/archive/archivelog"
	"github.com/coreason-ai/archive/events"
)

func cmdServe() *cli.Command {
	var addr string
	var snapshotPath string
	var snapshotInterval time.Duration

	return &cli.Command{
		Name:  "serve",
		Usage: "run a long-lived process holding the archive in memory and broadcasting cache-hit/relocation events over WebSocket",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address for the event WebSocket", Value: ":8090", Destination: &addr},
			&cli.StringFlag{Name: "snapshot", Usage: "snapshot file to restore from and periodically write to", Destination: &snapshotPath},
			&cli.DurationFlag{Name: "snapshot-interval", Usage: "how often to write the periodic snapshot", Value: 5 * time.Minute, Destination: &snapshotInterval},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger, err := archivelog.New(true)
			if err != nil {
				return err
			}
			defer logger.Sync()

			hub := events.NewHub(logger)
			go hub.Run()

			sys, err := archive.New(archive.Options{Accountant: hub, Production: true})
			if err != nil {
				return err
			}
			defer sys.Close()

			if snapshotPath != "" {
				if _, statErr := os.Stat(snapshotPath); statErr == nil {
					if err := sys.Restore(snapshotPath); err != nil {
						return fmt.Errorf("restore snapshot: %w", err)
					}
				}
			}

			mux := http.NewServeMux()
			mux.HandleFunc("/ws", hub.ServeWS)

			server := &http.Server{Addr: addr, Handler: mux}

			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("archivectl serve listening", zap.String("addr", addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			ticker := time.NewTicker(snapshotInterval)
			defer ticker.Stop()

			for {
				select {
				case <-sigCtx.Done():
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					if err := server.Shutdown(shutdownCtx); err != nil {
						return err
					}
					if snapshotPath != "" {
						return sys.Snapshot(snapshotPath)
					}
					return nil
				case err := <-serverErr:
					return err
				case <-ticker.C:
					if snapshotPath == "" {
						continue
					}
					if err := sys.Snapshot(snapshotPath); err != nil {
						logger.Error("periodic snapshot failed", zap.Error(err))
					}
				}
			}
		},
	}
}
