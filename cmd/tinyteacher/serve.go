package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/tinyteacher/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lesson API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(a).ListenAndServe(ctx, a.Config().ListenAddr)
		},
	}
	cmd.Flags().String("listen", "", "Address to listen on (default 127.0.0.1:8080)")
	cmd.Flags().StringSlice("cors-origin", nil, "Allowed CORS origins (repeatable)")
	return cmd
}
