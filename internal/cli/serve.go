package cli

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/BoardFit/internal/logger"
	"github.com/piwi3910/BoardFit/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the packing API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			srv := server.New(a.cfg.Settings, logger.L(), server.WithMaxSearchLimit(cfg.MaxSearchLimit))
			return srv.ListenAndServe(cmd.Context(), cfg)
		},
	}

	c.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return c
}
