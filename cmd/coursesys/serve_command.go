package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coursesys/internal/config"
	"coursesys/internal/httpapi"
	"coursesys/internal/store"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored sections over the read-only JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				serveCfg := *cfg
				if value := strings.TrimSpace(bind); value != "" {
					serveCfg.API.Bind = value
				}
				srv := httpapi.New(&serveCfg, st, logger)
				if err := srv.Start(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s/v1\n", srv.Addr())
				<-cmd.Context().Done()
				srv.Stop()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides api.bind)")
	return cmd
}
