package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Ayushprasai11/Valorant/internal/model"
)

// printReport renders one row per target and a totals footer.
func printReport(w io.Writer, report *model.RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Label", "Spec", "Status", "Attempts", "Rows", "Error"})
	for _, r := range report.Targets {
		t.AppendRow(table.Row{r.Target.Label, r.Target.Spec, string(r.Status), r.Attempts, r.Rows, r.Error})
	}
	t.AppendFooter(table.Row{
		"",
		"",
		fmt.Sprintf("%d ok / %d failed / %d skipped",
			report.Count(model.TargetStatusSucceeded),
			report.Count(model.TargetStatusExhausted),
			report.Count(model.TargetStatusSkipped)),
		"",
		report.RecordCount(),
		fmt.Sprintf("%d stored", len(report.InsertedIDs)),
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// printRecords renders records with columns in the given order.
func printRecords(w io.Writer, columns []string, records []model.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, rec := range records {
		row := make(table.Row, len(columns))
		for i, c := range columns {
			row[i] = rec[c]
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
