package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"coursesys/internal/config"
	"coursesys/internal/store"
	"coursesys/internal/term"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show stored sources, pages, and sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}
				terms, err := st.Terms(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, statusJSON(ctx, cfg, stats))
				}

				out := cmd.OutOrStdout()
				report := newStatusReport(out)
				report.section("Configuration")
				if ctx.configExists {
					report.line("Config", statusOK, ctx.configPath)
				} else {
					report.line("Config", statusInfo, "defaults (no config file)")
				}
				report.line("Database", statusOK, cfg.Paths.DatabasePath)
				report.line("Content", statusOK, cfg.Paths.ContentDir)

				report.section("Pages")
				report.line("Sources", statusInfo, strconv.Itoa(stats.Sources))
				for _, status := range store.PageStatuses() {
					count := stats.Pages[status]
					report.line(string(status), pageStatusKind(status, count), strconv.Itoa(count))
				}

				report.section("Records")
				report.line("Sections", statusInfo, strconv.Itoa(stats.Sections))
				report.line("Meetings", statusInfo, strconv.Itoa(stats.Entries))
				for _, summary := range terms {
					label := term.Term{Year: summary.Year, Code: summary.Term, Season: term.SeasonForCode(summary.Term)}.String()
					report.line(label, statusOK, pluralize(summary.Sections, "section", "sections"))
				}
				return report.writeTo(out)
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func pageStatusKind(status store.PageStatus, count int) statusKind {
	switch {
	case count == 0:
		return statusInfo
	case status == store.PageStatusFailed:
		return statusError
	case status == store.PageStatusPending || status == store.PageStatusEmpty:
		return statusWarn
	default:
		return statusOK
	}
}

type statusOutput struct {
	ConfigPath   string         `json:"configPath"`
	ConfigExists bool           `json:"configExists"`
	DatabasePath string         `json:"databasePath"`
	Sources      int            `json:"sources"`
	Pages        map[string]int `json:"pages"`
	Sections     int            `json:"sections"`
	Meetings     int            `json:"meetings"`
}

func statusJSON(ctx *commandContext, cfg *config.Config, stats store.Stats) statusOutput {
	pages := make(map[string]int, len(stats.Pages))
	for _, status := range store.PageStatuses() {
		pages[string(status)] = stats.Pages[status]
	}
	return statusOutput{
		ConfigPath:   ctx.configPath,
		ConfigExists: ctx.configExists,
		DatabasePath: cfg.Paths.DatabasePath,
		Sources:      stats.Sources,
		Pages:        pages,
		Sections:     stats.Sections,
		Meetings:     stats.Entries,
	}
}
