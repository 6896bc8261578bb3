package commands

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newServeCmd() *cobra.Command {
	var (
		addr            string
		shutdownTimeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve definition lookups and cache metrics over HTTP",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.app(cmd)
			if err != nil {
				return err
			}
			log := c.components.Logger

			srv := &http.Server{
				Addr:              addr,
				Handler:           newHandler(a, c.components.Registry, log),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to listen"), "addr", addr)
			}
			log.Info("serving", "addr", ln.Addr().String())

			serveErr := make(chan error, 1)
			go func() {
				serveErr <- srv.Serve(ln)
			}()

			select {
			case err := <-serveErr:
				return zerr.Wrap(err, "server stopped")
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return zerr.Wrap(err, "failed to shut down server")
			}
			if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return zerr.Wrap(err, "server stopped")
			}
			log.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	return cmd
}
