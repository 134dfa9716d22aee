package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"coursesys/internal/config"
	"coursesys/internal/httpapi"
	"coursesys/internal/sections"
	"coursesys/internal/store"
)

type sectionJSON = httpapi.Section

func toSectionJSON(secs []sections.Section) []sectionJSON {
	out := make([]sectionJSON, 0, len(secs))
	for _, sec := range secs {
		out = append(out, httpapi.FromSection(sec))
	}
	return out
}

type sectionQuery struct {
	term    string
	subject string
	course  string
	limit   int
}

func (q *sectionQuery) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&q.term, "term", "", "Term identifier (YYYYTT)")
	cmd.Flags().StringVar(&q.subject, "subject", "", "Subject code, e.g. CPSC")
	cmd.Flags().StringVar(&q.course, "course", "", "Course number, e.g. 1150")
}

func (q *sectionQuery) filter() (store.SectionFilter, error) {
	filter := store.SectionFilter{Subject: q.subject, Course: q.course, Limit: q.limit}
	t, ok, err := parseTermFlag(q.term)
	if err != nil {
		return store.SectionFilter{}, err
	}
	if ok {
		filter.Year = t.Year
		filter.Term = t.Code
	}
	return filter, nil
}

func (q *sectionQuery) load(ctx context.Context, st *store.Store) ([]sections.Section, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	return st.ListSections(ctx, filter)
}

func newSectionsCommand(ctx *commandContext) *cobra.Command {
	var query sectionQuery
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List stored sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				secs, err := query.load(cmd.Context(), st)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, toSectionJSON(secs))
				}
				out := cmd.OutOrStdout()
				if len(secs) == 0 {
					fmt.Fprintln(out, "No sections found")
					return nil
				}
				fmt.Fprintln(out, renderTable(sectionColumns, sectionRows(secs)))
				return nil
			})
		},
	}
	query.bind(cmd)
	cmd.Flags().IntVar(&query.limit, "limit", 0, "Maximum number of sections (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
