package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() Report {
	return Report{
		Summary: &Totals{
			TotalDrives:   12,
			TotalAmount:   24000,
			TotalExpenses: 3200.5,
			TotalPaid:     20000,
			NetProfit:     16799.5,
		},
		Breakdown: []Bucket{
			{Date: "2026-08-01", Totals: Totals{TotalDrives: 5, TotalAmount: 10000, TotalPaid: 9000, NetProfit: 8500}},
			{Date: "2026-08-02", Totals: Totals{TotalDrives: 7, TotalAmount: 14000, TotalExpenses: 3200.5, TotalPaid: 11000, NetProfit: 8299.5}},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	q := Query{Type: Monthly, Month: "2026-08"}
	require.NoError(t, WriteCSV(&buf, sampleReport(), q))

	// The output must stay machine-readable: parse it back with a strict
	// reader, which also rejects rows of varying field counts.
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	for _, rec := range records {
		assert.Len(t, rec, len(records[0]))
	}
	assert.Equal(t, []string{"Report Type", "monthly"}, records[0][:2])
	assert.Equal(t, []string{"Month", "2026-08"}, records[1][:2])

	flat := buf.String()
	assert.Contains(t, flat, "Total Journeys,12")
	assert.Contains(t, flat, "Net Profit,16799.50")
	assert.Contains(t, flat, "2026-08-02,7,14000.00,3200.50,11000.00,8299.50")
}

func TestWriteCSVEscapesFreeText(t *testing.T) {
	var buf bytes.Buffer
	q := Query{Type: Summary, TruckID: `B-TR 12, "Big Rig"`}
	require.NoError(t, WriteCSV(&buf, sampleReport(), q))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err, "delimiter and quotes inside a field must not break the file")

	var truckRow []string
	for _, rec := range records {
		if rec[0] == "Truck" {
			truckRow = rec
		}
	}
	require.NotNil(t, truckRow)
	assert.Equal(t, `B-TR 12, "Big Rig"`, truckRow[1])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	q := Query{Type: Daily, Date: "2026-08-30"}
	require.NoError(t, WriteXLSX(&buf, sampleReport(), q))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Report"}, f.GetSheetList())

	a1, err := f.GetCellValue("Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Report Type", a1)
	b1, _ := f.GetCellValue("Report", "B1")
	assert.Equal(t, "daily", b1)
	b2, _ := f.GetCellValue("Report", "B2")
	assert.Equal(t, "2026-08-30", b2)
}

func TestRowsSkipsEmptyBlocks(t *testing.T) {
	r := Report{} // no summary, no breakdown
	q := Query{Type: Summary}
	out := rows(r, q, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	flat := ""
	for _, row := range out {
		flat += strings.Join(row, ",") + "\n"
	}
	assert.NotContains(t, flat, "Summary")
	assert.NotContains(t, flat, "Breakdown")
	assert.Contains(t, flat, "Generated At,2026-09-01T12:00:00Z")
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 9, 1, 14, 30, 5, 0, time.UTC)

	tests := []struct {
		q    Query
		want string
	}{
		{Query{Type: Daily, Date: "2026-08-30"}, "report-daily-20260901-143005-2026-08-30"},
		{Query{Type: Weekly, Week: "2026-W35"}, "report-weekly-20260901-143005-2026-W35"},
		{Query{Type: Monthly, Month: "2026-08"}, "report-monthly-20260901-143005-2026-08"},
		{Query{Type: Custom, Start: "2026-01-01", End: "2026-06-30"}, "report-custom-20260901-143005-2026-01-01_to_2026-06-30"},
		{Query{Type: Summary}, "report-summary-20260901-143005"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filename(tt.q, now))
	}
}
