package main

import (
	"fmt"
	"strconv"
	"strings"

	"coursesys/internal/sections"
	"coursesys/internal/term"
	"coursesys/internal/textutil"
)

// parseTermFlag parses an optional "YYYYTT" flag value.
func parseTermFlag(value string) (term.Term, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return term.Term{}, false, nil
	}
	t, err := term.ParseIdentifier(value)
	if err != nil {
		return term.Term{}, false, fmt.Errorf("--term: %w", err)
	}
	return t, true, nil
}

func formatCredits(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatFee(fee *float64) string {
	if fee == nil {
		return ""
	}
	return fmt.Sprintf("$%.2f", *fee)
}

func formatMeetings(schedule []sections.ScheduleEntry) string {
	if len(schedule) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(schedule))
	for _, entry := range schedule {
		when := strings.TrimSpace(entry.Days + " " + entry.Time)
		parts = append(parts, textutil.Ternary(when == "", entry.Type, entry.Type+" "+when))
	}
	return strings.Join(parts, "\n")
}

func sectionRows(secs []sections.Section) [][]string {
	rows := make([][]string, 0, len(secs))
	for _, sec := range secs {
		rows = append(rows, []string{
			strconv.Itoa(sec.ReferenceNumber),
			sec.Course(),
			sec.SectionLabel,
			sec.AbbreviatedTitle,
			formatCredits(sec.Credits),
			formatFee(sec.Fee),
			formatMeetings(sec.Schedule),
		})
	}
	return rows
}

func pluralize(n int, singular, plural string) string {
	return fmt.Sprintf("%d %s", n, textutil.Ternary(n == 1, singular, plural))
}
