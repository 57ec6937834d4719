package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fleetdesk/internal/controller"
	"fleetdesk/internal/parser"
	"fleetdesk/internal/resources"
)

var lsCmd = &cobra.Command{
	Use:     "ls <resource> [filters...]",
	Aliases: []string{"list"},
	Short:   "List a resource without the UI",
	Long: `List records of one resource as a plain table. Filters use the same
key:value syntax as the UI filter prompt; bare words become a search.

Resources: trucks, drivers, customers, journeys, expenses, users

Examples:
  fleetdesk ls trucks status:active
  fleetdesk ls journeys status:started sort:date/desc
  fleetdesk ls customers berlin --page 2`,
	Args: cobra.MinimumNArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		if err := a.session.Initialize(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		if !a.session.Authenticated() {
			fmt.Fprintln(os.Stderr, "Not signed in. Run 'fleetdesk login' first.")
			os.Exit(1)
		}

		page, _ := cmd.Flags().GetInt("page")

		var err error
		switch args[0] {
		case "trucks":
			err = runList(a, resources.Trucks(), args[1:], page)
		case "drivers":
			err = runList(a, resources.Drivers(), args[1:], page)
		case "customers":
			err = runList(a, resources.Customers(), args[1:], page)
		case "journeys", "drives":
			err = runList(a, resources.Journeys(), args[1:], page)
		case "expenses", "office-expenses":
			err = runList(a, resources.OfficeExpenses(), args[1:], page)
		case "users":
			err = runList(a, resources.Users(), args[1:], page)
		default:
			err = fmt.Errorf("unknown resource %q", args[0])
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}),
}

// runList performs one fetch with the parsed filters and prints the table.
func runList[T any](a *app, desc resources.Descriptor[T], filterArgs []string, page int) error {
	list := controller.NewList[T](a.client, desc.Res)

	parsed, err := parser.ParseFilters(filterArgs, desc.Res.FilterKeys)
	if err != nil {
		return err
	}
	if parsed.Search != "" {
		list.SetSearch(parsed.Search)
	}
	for key, value := range parsed.Filters {
		list.SetFilter(key, value)
	}
	if parsed.SortBy != "" {
		list.SetSort(parsed.SortBy, parsed.SortOrder)
	}
	if page > 1 {
		list.SetPage(page)
	}

	res := list.StartFetch().Do(context.Background())
	if !list.Apply(res) || res.Err != nil {
		return res.Err
	}
	st := list.State()

	if len(st.Items) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	widths := make([]int, len(desc.Columns))
	var header strings.Builder
	for i, c := range desc.Columns {
		widths[i] = c.Width
		header.WriteString(fmt.Sprintf("%-*s ", widths[i], c.Title))
	}
	fmt.Println(strings.TrimRight(header.String(), " "))
	fmt.Println(strings.Repeat("-", len(strings.TrimRight(header.String(), " "))))

	for _, item := range st.Items {
		cells := desc.Row(item)
		var row strings.Builder
		for i, cell := range cells {
			row.WriteString(fmt.Sprintf("%-*s ", widths[i], truncate(cell, widths[i])))
		}
		fmt.Println(strings.TrimRight(row.String(), " "))
	}

	fmt.Printf("\npage %d/%d, %d total\n", st.Page, st.Pages, st.Total)
	return nil
}

// truncate shortens a cell to the column width on rune boundaries, so
// multibyte text (route arrows, names) never splits mid-sequence.
func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 3 {
		return string(r[:w])
	}
	return string(r[:w-3]) + "..."
}

func init() {
	lsCmd.Flags().Int("page", 1, "Page to fetch")
}
