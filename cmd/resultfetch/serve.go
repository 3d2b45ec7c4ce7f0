package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raysh454/resultfetch/internal/fixtureserver"
)

func (c *cli) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local fixtures (/posts/{id}, /cookies, /status/{code}, /empty)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg.Fixture
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ready := make(chan string, 1)
			go func() {
				if a, ok := <-ready; ok {
					fmt.Fprintf(cmd.OutOrStdout(), "fixture server listening on http://%s\n", a)
				}
			}()
			defer close(ready)

			return fixtureserver.New(cfg, c.logger).ListenAndServe(ctx, ready)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
