package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fleetdesk/internal/parser"
	"fleetdesk/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <type> [period]",
	Short: "Fetch a journey report",
	Long: `Fetch an aggregated journey report and print it, optionally exporting
to CSV or XLSX.

Types and their period argument:
  daily    yyyy-mm-dd        (default: today)
  weekly   yyyy-Www          (default: this week)
  monthly  yyyy-mm           (default: this month)
  custom   requires --from and --to
  summary  no period

Examples:
  fleetdesk report daily 2026-08-30
  fleetdesk report monthly 2026-08 --truck 64f1a
  fleetdesk report custom --from 2026-01-01 --to 2026-06-30 --group-by month
  fleetdesk report weekly --csv report.csv`,
	Args: cobra.RangeArgs(1, 2),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		if err := a.session.Initialize(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		if !a.session.Authenticated() {
			fmt.Fprintln(os.Stderr, "Not signed in. Run 'fleetdesk login' first.")
			os.Exit(1)
		}

		q, err := buildQuery(cmd, args)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

		rep, err := a.reports.Fetch(context.Background(), q)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

		printReport(rep)

		csvPath, _ := cmd.Flags().GetString("csv")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")
		if csvPath != "" {
			if err := exportReport(csvPath, rep, q, report.WriteCSV); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote", csvPath)
		}
		if xlsxPath != "" {
			if err := exportReport(xlsxPath, rep, q, report.WriteXLSX); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote", xlsxPath)
		}
	}),
}

func buildQuery(cmd *cobra.Command, args []string) (report.Query, error) {
	truck, _ := cmd.Flags().GetString("truck")
	q := report.Query{Type: args[0], TruckID: truck}

	period := ""
	if len(args) > 1 {
		period = args[1]
	}
	now := time.Now()

	var err error
	switch q.Type {
	case report.Daily:
		if period == "" {
			period = now.Format("2006-01-02")
		}
		q.Date, err = parser.ParseDay(period)
	case report.Weekly:
		if period == "" {
			year, week := now.ISOWeek()
			period = fmt.Sprintf("%d-W%02d", year, week)
		}
		q.Week, err = parser.ParseWeek(period)
	case report.Monthly:
		if period == "" {
			period = now.Format("2006-01")
		}
		q.Month, err = parser.ParseMonth(period)
	case report.Custom:
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		q.Start, q.End, err = parser.ParseRange(from, to)
		q.GroupBy, _ = cmd.Flags().GetString("group-by")
	case report.Summary:
		// No period.
	default:
		err = fmt.Errorf("unknown report type %q", q.Type)
	}
	return q, err
}

func printReport(r report.Report) {
	if t := r.TotalsBlock(); t != nil {
		fmt.Printf("Journeys: %d\n", t.TotalDrives)
		fmt.Printf("Revenue:  %.2f\n", t.TotalAmount)
		fmt.Printf("Expenses: %.2f\n", t.TotalExpenses)
		fmt.Printf("Paid:     %.2f\n", t.TotalPaid)
		fmt.Printf("Profit:   %.2f\n", t.NetProfit)
	}
	if len(r.Breakdown) > 0 {
		fmt.Printf("\n%-12s %9s %12s %12s %12s %12s\n",
			"DATE", "JOURNEYS", "REVENUE", "EXPENSES", "PAID", "PROFIT")
		for _, b := range r.Breakdown {
			fmt.Printf("%-12s %9d %12.2f %12.2f %12.2f %12.2f\n",
				b.Date, b.TotalDrives, b.TotalAmount, b.TotalExpenses, b.TotalPaid, b.NetProfit)
		}
	}
}

func exportReport(path string, r report.Report, q report.Query,
	write func(w io.Writer, r report.Report, q report.Query) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f, r, q)
}

func init() {
	reportCmd.Flags().String("truck", "", "Filter by truck id")
	reportCmd.Flags().String("from", "", "Custom report start date (yyyy-mm-dd)")
	reportCmd.Flags().String("to", "", "Custom report end date (yyyy-mm-dd)")
	reportCmd.Flags().String("group-by", "day", "Custom report bucket size: day, week, month")
	reportCmd.Flags().String("csv", "", "Also write the report to this CSV file")
	reportCmd.Flags().String("xlsx", "", "Also write the report to this XLSX file")
}
