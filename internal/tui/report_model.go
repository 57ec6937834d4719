package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fleetdesk/internal/parser"
	"fleetdesk/internal/report"
)

// reportMsg settles a report fetch, tagged so stale replies are dropped.
type reportMsg struct {
	seq int
	rep report.Report
	err error
}

// exportDoneMsg settles a file export.
type exportDoneMsg struct {
	path string
	err  error
}

var reportTypes = []string{report.Daily, report.Weekly, report.Monthly, report.Custom, report.Summary}

// reportModel is the read-only report view. There is no submit button:
// every input change refetches, trading extra calls for an always-fresh
// aggregate.
type reportModel struct {
	deps Deps

	typeIdx int
	inputs  map[string]*textinput.Model
	order   []string // focusable field names for the current type
	focus   int      // 0 = type selector, 1.. = order[focus-1]

	seq     int
	rep     report.Report
	loaded  bool
	loading bool
	errMsg  string
	toast   string
	spin    spinner.Model

	width, height int
}

func newReportModel(deps Deps) reportModel {
	now := time.Now()
	year, week := now.ISOWeek()

	mk := func(placeholder, value string) *textinput.Model {
		in := textinput.New()
		in.Width = 16
		in.Placeholder = placeholder
		in.SetValue(value)
		in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		return &in
	}

	inputs := map[string]*textinput.Model{
		"date":    mk("yyyy-mm-dd", now.Format("2006-01-02")),
		"week":    mk("yyyy-Www", fmt.Sprintf("%d-W%02d", year, week)),
		"month":   mk("yyyy-mm", now.Format("2006-01")),
		"start":   mk("yyyy-mm-dd", now.AddDate(0, -1, 0).Format("2006-01-02")),
		"end":     mk("yyyy-mm-dd", now.Format("2006-01-02")),
		"groupBy": mk("day|week|month", "day"),
		"truck":   mk("truck id (optional)", ""),
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	m := reportModel{deps: deps, inputs: inputs, spin: sp, loading: true}
	m.order = m.fieldsForType()
	return m
}

func (m reportModel) fieldsForType() []string {
	switch reportTypes[m.typeIdx] {
	case report.Daily:
		return []string{"date", "truck"}
	case report.Weekly:
		return []string{"week", "truck"}
	case report.Monthly:
		return []string{"month", "truck"}
	case report.Custom:
		return []string{"start", "end", "groupBy", "truck"}
	default: // summary
		return []string{"truck"}
	}
}

// query validates the current inputs into a report query. Invalid input
// returns an error instead of a round trip.
func (m reportModel) query() (report.Query, error) {
	q := report.Query{
		Type:    reportTypes[m.typeIdx],
		TruckID: strings.TrimSpace(m.inputs["truck"].Value()),
	}
	var err error
	switch q.Type {
	case report.Daily:
		q.Date, err = parser.ParseDay(m.inputs["date"].Value())
	case report.Weekly:
		q.Week, err = parser.ParseWeek(m.inputs["week"].Value())
	case report.Monthly:
		q.Month, err = parser.ParseMonth(m.inputs["month"].Value())
	case report.Custom:
		q.Start, q.End, err = parser.ParseRange(m.inputs["start"].Value(), m.inputs["end"].Value())
		q.GroupBy = strings.TrimSpace(m.inputs["groupBy"].Value())
	}
	return q, err
}

func (m reportModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, func() tea.Msg { return refetchMsg{} })
}

// refetchMsg asks the model to issue a fresh fetch from inside the loop.
type refetchMsg struct{}

func (m reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case refetchMsg:
		return m.startFetch()

	case reportMsg:
		if msg.seq != m.seq {
			return m, nil // a newer request is in flight
		}
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.rep = msg.rep
		m.loaded = true
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.errMsg = "export failed: " + msg.err.Error()
			return m, nil
		}
		m.toast = "exported " + msg.path
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m reportModel) startFetch() (tea.Model, tea.Cmd) {
	q, err := m.query()
	if err != nil {
		m.errMsg = err.Error()
		m.loading = false
		return m, nil
	}
	m.errMsg = ""
	m.loading = true
	m.seq++
	seq := m.seq
	svc := m.deps.Reports
	return m, func() tea.Msg {
		rep, err := svc.Fetch(context.Background(), q)
		return reportMsg{seq: seq, rep: rep, err: err}
	}
}

func (m reportModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.toast = ""

	switch msg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return backMsg{} }

	case "tab", "down":
		wasField := m.focus > 0
		m.moveFocus(1)
		if wasField {
			// Leaving a field commits it: refetch with the new inputs.
			return m.startFetch()
		}
		return m, nil

	case "shift+tab", "up":
		wasField := m.focus > 0
		m.moveFocus(-1)
		if wasField {
			return m.startFetch()
		}
		return m, nil

	case "left", "right":
		if m.focus == 0 {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			m.typeIdx = (m.typeIdx + delta + len(reportTypes)) % len(reportTypes)
			m.order = m.fieldsForType()
			if m.focus > len(m.order) {
				m.focus = 0
			}
			// Changing any input refetches immediately.
			return m.startFetch()
		}

	case "enter":
		return m.startFetch()

	case "ctrl+e":
		return m, m.exportCmd("csv")

	case "ctrl+x":
		return m, m.exportCmd("xlsx")
	}

	if m.focus > 0 {
		name := m.order[m.focus-1]
		in := m.inputs[name]
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *reportModel) moveFocus(delta int) {
	total := len(m.order) + 1
	if m.focus > 0 {
		m.inputs[m.order[m.focus-1]].Blur()
	}
	m.focus = (m.focus + delta + total) % total
	if m.focus > 0 {
		m.inputs[m.order[m.focus-1]].Focus()
	}
}

func (m reportModel) exportCmd(format string) tea.Cmd {
	if !m.loaded {
		return nil
	}
	q, err := m.query()
	if err != nil {
		return nil
	}
	rep := m.rep
	return func() tea.Msg {
		path := report.Filename(q, time.Now()) + "." + format
		f, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		defer f.Close()
		if format == "csv" {
			err = report.WriteCSV(f, rep, q)
		} else {
			err = report.WriteXLSX(f, rep, q)
		}
		return exportDoneMsg{path: path, err: err}
	}
}

func (m reportModel) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).
		Render("Reports") + "\n\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	focused := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)

	typeLine := "Type: " + reportTypes[m.typeIdx] + "  (←/→)"
	if m.focus == 0 {
		b.WriteString(focused.Render("▶ "+typeLine) + "\n")
	} else {
		b.WriteString(labelStyle.Render("  "+typeLine) + "\n")
	}

	for i, name := range m.order {
		line := fmt.Sprintf("%-8s %s", name+":", m.inputs[name].View())
		if m.focus == i+1 {
			b.WriteString(focused.Render("▶ ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("✗ "+m.errMsg) + "\n")
	}
	if m.toast != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("✓ "+m.toast) + "\n")
	}
	if m.loading {
		b.WriteString(m.spin.View() + " loading...\n")
	} else if m.loaded {
		b.WriteString(m.renderReport())
	}

	b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).
		Render("↑/↓ field · enter apply · ctrl+e csv · ctrl+x xlsx · esc menu"))
	return b.String()
}

func (m reportModel) renderReport() string {
	var b strings.Builder
	value := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText))

	if t := m.rep.TotalsBlock(); t != nil {
		b.WriteString(fmt.Sprintf("Journeys %s · Revenue %s · Expenses %s · Paid %s · Profit %s\n",
			value.Render(fmt.Sprintf("%d", t.TotalDrives)),
			value.Render(fmt.Sprintf("%.0f", t.TotalAmount)),
			value.Render(fmt.Sprintf("%.0f", t.TotalExpenses)),
			value.Render(fmt.Sprintf("%.0f", t.TotalPaid)),
			value.Render(fmt.Sprintf("%.0f", t.NetProfit))))
	}

	if len(m.rep.Breakdown) > 0 {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-12s %9s %12s %12s %12s %12s\n",
			"DATE", "JOURNEYS", "REVENUE", "EXPENSES", "PAID", "PROFIT"))
		for _, bucket := range m.rep.Breakdown {
			b.WriteString(fmt.Sprintf("%-12s %9d %12.0f %12.0f %12.0f %12.0f\n",
				bucket.Date, bucket.TotalDrives, bucket.TotalAmount,
				bucket.TotalExpenses, bucket.TotalPaid, bucket.NetProfit))
		}
	}
	return b.String()
}
