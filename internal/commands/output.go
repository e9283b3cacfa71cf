package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"taskscope/internal/aggregate"
	"taskscope/internal/report"
	"taskscope/internal/service"

	"github.com/spf13/cobra"
)

func writeResult(cmd *cobra.Command, opts *options, result *aggregate.Result) error {
	if opts.json {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	rep := report.NewBuilder(nil).Aggregates(result).Build(time.Now())
	return writeSheets(cmd.OutOrStdout(), rep.Sheets)
}

func writeExport(cmd *cobra.Command, opts *options, out *service.Export) error {
	if opts.json {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	w := cmd.OutOrStdout()
	if err := writeSheets(w, out.Report.Sheets); err != nil {
		return err
	}
	if out.URL != "" {
		fmt.Fprintf(w, "\nArchived: %s\n", out.URL)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeSheets prints each sheet as an aligned table under its name.
func writeSheets(w io.Writer, sheets []report.Sheet) error {
	for i, sheet := range sheets {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n%s\n", sheet.Name, strings.Repeat("-", len(sheet.Name)))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.ToUpper(strings.Join(sheet.Columns, "\t")))
		for _, row := range sheet.Rows {
			cells := make([]string, len(row))
			for j, v := range row {
				cells[j] = fmt.Sprint(v)
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
