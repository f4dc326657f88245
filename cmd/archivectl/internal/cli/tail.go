package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"

	"github.com/coreason-ai/archive/events"
)

func cmdTail() *cli.Command {
	var addr string

	return &cli.Command{
		Name:  "tail",
		Usage: "stream cache-hit and relocation_summary events from a running `archivectl serve` process",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "host:port of a running archivectl serve", Value: "localhost:8090", Destination: &addr},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
			conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
			if err != nil {
				return fmt.Errorf("dial %s: %w", u.String(), err)
			}
			defer conn.Close()

			for {
				_, message, err := conn.ReadMessage()
				if err != nil {
					return err
				}
				var env events.Envelope
				if err := json.Unmarshal(message, &env); err != nil {
					continue
				}
				fmt.Fprintf(c.Writer, "[%s] %v\n", env.Kind, env.Data)
			}
		},
	}
}
