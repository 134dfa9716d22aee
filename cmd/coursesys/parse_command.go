package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coursesys/internal/config"
	"coursesys/internal/parser"
	"coursesys/internal/store"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var retryFailed bool

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse pending pages once",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()
				if retryFailed {
					reset, err := st.ResetPages(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Reset %s for retry\n", pluralize(int(reset), "failed page", "failed pages"))
				}
				worker, err := parser.New(cfg, st, logger)
				if err != nil {
					return err
				}
				summary, err := worker.Drain(cmd.Context())
				if err != nil {
					return err
				}
				if summary.Pages == 0 {
					fmt.Fprintln(out, "No pending pages")
					return nil
				}
				fmt.Fprintf(out, "Parsed %s: %d parsed, %d empty, %d failed; %s, %s, %s\n",
					pluralize(summary.Pages, "page", "pages"),
					summary.Parsed, summary.Empty, summary.Failed,
					pluralize(summary.Sections, "section", "sections"),
					pluralize(summary.Entries, "meeting", "meetings"),
					pluralize(summary.Diagnostics, "diagnostic", "diagnostics"),
				)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&retryFailed, "retry-failed", false, "Reset failed pages to pending before parsing")
	return cmd
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Parse pending pages continuously until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				worker, err := parser.New(cfg, st, logger)
				if err != nil {
					return err
				}
				return worker.Run(cmd.Context())
			})
		},
	}
}
