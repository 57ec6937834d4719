package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// rows flattens a report into export rows: a metadata header, the summary
// block, then the per-date breakdown. The same rows feed both CSV and XLSX.
func rows(r Report, q Query, now time.Time) [][]string {
	out := [][]string{
		{"Report Type", q.Type},
	}
	switch q.Type {
	case Daily:
		out = append(out, []string{"Date", q.Date})
	case Weekly:
		out = append(out, []string{"Week", q.Week})
	case Monthly:
		out = append(out, []string{"Month", q.Month})
	case Custom:
		out = append(out, []string{"Range", q.Start + " to " + q.End, "Group By", q.GroupBy})
	}
	if q.TruckID != "" {
		out = append(out, []string{"Truck", q.TruckID})
	}
	out = append(out, []string{"Generated At", now.UTC().Format(time.RFC3339)}, nil)

	if t := r.TotalsBlock(); t != nil {
		out = append(out,
			[]string{"Summary"},
			[]string{"Total Journeys", strconv.Itoa(t.TotalDrives)},
			[]string{"Total Revenue", formatAmount(t.TotalAmount)},
			[]string{"Total Expenses", formatAmount(t.TotalExpenses)},
			[]string{"Total Paid", formatAmount(t.TotalPaid)},
			[]string{"Net Profit", formatAmount(t.NetProfit)},
			nil,
		)
	}

	if len(r.Breakdown) > 0 {
		out = append(out,
			[]string{"Breakdown"},
			[]string{"Date", "Journeys", "Revenue", "Expenses", "Paid", "Profit"},
		)
		for _, b := range r.Breakdown {
			out = append(out, []string{
				b.Date,
				strconv.Itoa(b.TotalDrives),
				formatAmount(b.TotalAmount),
				formatAmount(b.TotalExpenses),
				formatAmount(b.TotalPaid),
				formatAmount(b.NetProfit),
			})
		}
	}

	// Pad every row (separators included) to one width: a strict reader
	// rejects files with varying field counts.
	width := 0
	for _, row := range out {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range out {
		for len(row) < width {
			row = append(row, "")
		}
		out[i] = row
	}
	return out
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteCSV serializes the report as RFC-4180 CSV. The csv writer quotes any
// field containing the delimiter, quotes, or newlines, so free text can
// never break the file apart.
func WriteCSV(w io.Writer, r Report, q Query) error {
	cw := csv.NewWriter(w)
	for _, row := range rows(r, q, time.Now()) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX serializes the report as a single-sheet spreadsheet.
func WriteXLSX(w io.Writer, r Report, q Query) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, row := range rows(r, q, time.Now()) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("build cell name: %w", err)
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write sheet row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// Filename suggests an export file name for the query, without extension.
func Filename(q Query, now time.Time) string {
	name := "report-" + q.Type + "-" + now.Format("20060102-150405")
	switch q.Type {
	case Daily:
		name += "-" + q.Date
	case Weekly:
		name += "-" + q.Week
	case Monthly:
		name += "-" + q.Month
	case Custom:
		name += "-" + q.Start + "_to_" + q.End
	}
	return name
}
