package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type column struct {
	header   string
	align    text.Align
	maxWidth int
}

var sectionColumns = []column{
	{header: "CRN", align: text.AlignRight},
	{header: "Course", align: text.AlignLeft},
	{header: "Sec", align: text.AlignLeft},
	{header: "Title", align: text.AlignLeft, maxWidth: 32},
	{header: "Cr", align: text.AlignRight},
	{header: "Fee", align: text.AlignRight},
	{header: "Meetings", align: text.AlignLeft},
}

// renderTable lays rows out under columns. Short rows are padded with blanks
// and cells wider than a column's maxWidth wrap.
func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.header
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       c.align,
			AlignHeader: text.AlignLeft,
			WidthMax:    c.maxWidth,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
