package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"coursesys/internal/config"
	"coursesys/internal/ingest"
	"coursesys/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var termFlag string

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Register course-search pages for parsing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok, err := parseTermFlag(termFlag)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("--term is required")
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				importer := ingest.New(st, cfg, logger)
				out := cmd.OutOrStdout()
				for _, path := range args {
					result, err := importer.ImportFile(cmd.Context(), path, t.Identifier())
					if err != nil {
						return fmt.Errorf("import %s: %w", path, err)
					}
					fmt.Fprintf(out, "Imported %s as page %d for %s\n", path, result.Page.ID, t)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&termFlag, "term", "", "Term identifier (YYYYTT) the page belongs to")
	return cmd
}
