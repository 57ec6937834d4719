package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fleetdesk/internal/models"
)

// statsMsg settles the dashboard aggregate fetch.
type statsMsg struct {
	stats models.UserStats
	err   error
}

// dashboardModel is the landing page: a handful of fleet-wide counters.
// It is also where under-privileged roles are redirected to.
type dashboardModel struct {
	deps Deps

	stats   models.UserStats
	loaded  bool
	loading bool
	errMsg  string
	spin    spinner.Model

	width, height int
}

func newDashboardModel(deps Deps) dashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	return dashboardModel{deps: deps, spin: sp, loading: true}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.spin.Tick)
}

func (m dashboardModel) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.deps.Fleet.Stats(context.Background())
		return statsMsg{stats: stats, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case statsMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.stats = msg.stats
		m.loaded = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return backMsg{} }
		case "r":
			m.loading = true
			return m, m.fetchCmd()
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder

	user := m.deps.Session.User()
	name := ""
	if user != nil {
		name = user.DisplayName
		if name == "" {
			name = user.Username
		}
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).
		Render("Dashboard") + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).
		Render("Welcome back, "+name) + "\n\n")

	if m.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).
			Render("✗ "+m.errMsg+"  (r to retry)") + "\n\n")
	}
	if m.loading && !m.loaded {
		b.WriteString(m.spin.View() + " loading...\n")
		return b.String()
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 2).
		Width(22)

	metric := func(label string, value int) string {
		return card.Render(fmt.Sprintf("%s\n%s",
			lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(label),
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText)).Render(fmt.Sprintf("%d", value))))
	}

	row1 := lipgloss.JoinHorizontal(lipgloss.Top,
		metric("Trucks", m.stats.TotalTrucks), " ",
		metric("Active trucks", m.stats.ActiveTrucks), " ",
		metric("Drivers", m.stats.TotalDrivers))
	row2 := lipgloss.JoinHorizontal(lipgloss.Top,
		metric("Journeys", m.stats.TotalJourneys), " ",
		metric("Active journeys", m.stats.ActiveJourneys), " ",
		metric("Users", m.stats.TotalUsers))

	b.WriteString(row1 + "\n" + row2 + "\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).
		Render("r refresh · esc menu"))
	return b.String()
}
