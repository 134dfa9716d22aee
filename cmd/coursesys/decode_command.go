package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coursesys/internal/semester"
)

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	var termFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Decode a course-search page without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			expected, hasExpected, err := parseTermFlag(termFlag)
			if err != nil {
				return err
			}
			decoder, err := semester.NewDecoder(semester.Options{
				TableSelector:   cfg.Parser.TableSelector,
				HeadingSelector: cfg.Parser.HeadingSelector,
				HeadingPattern:  cfg.Parser.HeadingPattern,
			})
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open page: %w", err)
			}
			defer f.Close()
			page, err := decoder.Decode(f)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, decodeReport(page))
			}

			out := cmd.OutOrStdout()
			if page.Empty {
				fmt.Fprintf(out, "No course table found (%s)\n", page.Term)
				return nil
			}
			fmt.Fprintf(out, "Term: %s (%s)\n", page.Term, page.Term.Identifier())
			if hasExpected && expected.Identifier() != page.Term.Identifier() {
				fmt.Fprintf(out, "Warning: page heading is %s, expected %s\n", page.Term.Identifier(), expected.Identifier())
			}
			fmt.Fprintf(out, "%s, %s from %s\n",
				pluralize(len(page.Sections), "section", "sections"),
				pluralize(page.ScheduleCount(), "meeting", "meetings"),
				pluralize(page.Tokens, "token", "tokens"),
			)
			if len(page.Sections) > 0 {
				fmt.Fprintln(out, renderTable(sectionColumns, sectionRows(page.Sections)))
			}
			if len(page.Diagnostics) > 0 {
				fmt.Fprintln(out, "Diagnostics:")
				for _, diag := range page.Diagnostics {
					fmt.Fprintf(out, "  - %s\n", diag)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&termFlag, "term", "", "Expected term identifier (YYYYTT)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type decodeDiagnostic struct {
	Kind     string `json:"kind"`
	Position int    `json:"position"`
	Section  string `json:"section,omitempty"`
	Token    string `json:"token,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

type decodeOutput struct {
	TermID      string             `json:"termId,omitempty"`
	Empty       bool               `json:"empty"`
	Tokens      int                `json:"tokens"`
	Sections    []sectionJSON      `json:"sections"`
	Diagnostics []decodeDiagnostic `json:"diagnostics"`
}

func decodeReport(page semester.Page) decodeOutput {
	out := decodeOutput{
		Empty:       page.Empty,
		Tokens:      page.Tokens,
		Sections:    toSectionJSON(page.Sections),
		Diagnostics: make([]decodeDiagnostic, 0, len(page.Diagnostics)),
	}
	if page.Term.Year > 0 {
		out.TermID = page.Term.Identifier()
	}
	for _, diag := range page.Diagnostics {
		d := decodeDiagnostic{
			Kind:     string(diag.Kind),
			Position: diag.Position,
			Token:    diag.Token,
			Detail:   diag.Detail,
		}
		if diag.Section != nil {
			d.Section = diag.Section.String()
		}
		out.Diagnostics = append(out.Diagnostics, d)
	}
	return out
}
