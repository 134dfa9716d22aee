package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"coursesys/internal/calendar"
	"coursesys/internal/config"
	"coursesys/internal/store"
)

func newExportICSCommand(ctx *commandContext) *cobra.Command {
	var query sectionQuery
	var outputPath string
	var timeZone string

	cmd := &cobra.Command{
		Use:   "export-ics",
		Short: "Export section meetings as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(query.term) == "" {
				return errors.New("--term is required")
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				secs, err := query.load(cmd.Context(), st)
				if err != nil {
					return err
				}
				if len(secs) == 0 {
					return errors.New("no sections match the given filters")
				}

				var w io.Writer = cmd.OutOrStdout()
				if path := strings.TrimSpace(outputPath); path != "" && path != "-" {
					f, err := os.Create(path)
					if err != nil {
						return fmt.Errorf("create %s: %w", path, err)
					}
					defer f.Close()
					w = f
				}

				name := strings.Join(strings.Fields(strings.ToUpper(query.subject)+" "+query.course+" "+query.term), " ")
				summary, err := calendar.Write(w, secs, calendar.Options{TimeZone: timeZone, Name: name})
				if err != nil {
					return err
				}
				if f, ok := w.(*os.File); ok && f != os.Stdout {
					if err := f.Close(); err != nil {
						return fmt.Errorf("write %s: %w", outputPath, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s to %s (%d skipped without dates or times)\n",
						pluralize(summary.Events, "event", "events"), outputPath, summary.Skipped)
				}
				return nil
			})
		},
	}
	query.bind(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&timeZone, "tz", calendar.DefaultTimeZone, "Time zone of meeting times")
	return cmd
}
