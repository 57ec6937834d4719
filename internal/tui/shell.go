package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fleetdesk/internal/resources"
)

// backMsg returns from a page to the menu.
type backMsg struct{}

// authedMsg announces a successful sign-in.
type authedMsg struct{}

// initDoneMsg settles the startup session restore.
type initDoneMsg struct{ err error }

// loggedOutMsg settles a sign-out.
type loggedOutMsg struct{}

type shellState int

const (
	shellLoading shellState = iota
	shellLogin
	shellMenu
	shellPage
)

// menuEntry is one navigable destination. Entries the current role cannot
// open are not rendered at all.
type menuEntry struct {
	title   string
	require resources.Requirement
	build   func(Deps) tea.Model
}

func menuEntries() []menuEntry {
	return []menuEntry{
		{"Dashboard", resources.AnyUser, func(d Deps) tea.Model { return newDashboardModel(d) }},
		{"Trucks", resources.AdminOrOfficer, func(d Deps) tea.Model { return newBrowserModel(d, resources.Trucks()) }},
		{"Drivers", resources.AdminOrOfficer, func(d Deps) tea.Model { return newBrowserModel(d, resources.Drivers()) }},
		{"Customers", resources.AdminOrOfficer, func(d Deps) tea.Model { return newBrowserModel(d, resources.Customers()) }},
		{"Journeys", resources.AdminOrOfficer, func(d Deps) tea.Model { return newBrowserModel(d, resources.Journeys()) }},
		{"Office expenses", resources.AdminOrOfficer, func(d Deps) tea.Model { return newBrowserModel(d, resources.OfficeExpenses()) }},
		{"Reports", resources.AdminOrOfficer, func(d Deps) tea.Model { return newReportModel(d) }},
		{"Users", resources.AdminOnly, func(d Deps) tea.Model { return newBrowserModel(d, resources.Users()) }},
		{"Settings", resources.AdminOnly, func(d Deps) tea.Model { return newSettingsModel(d) }},
		{"Profile", resources.AnyUser, func(d Deps) tea.Model { return newProfileModel(d) }},
	}
}

// shellModel is the outer navigation shell: it restores the session on
// startup, gates everything behind login, and swaps the active page. It also
// watches for mid-flight session teardown: any 401 anywhere clears the
// session store, and the shell drops back to the login screen on the next
// message, discarding whatever page state existed.
type shellModel struct {
	deps Deps

	state  shellState
	cursor int
	page   tea.Model
	login  loginModel
	spin   spinner.Model

	width, height int
}

func newShellModel(deps Deps) shellModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	return shellModel{deps: deps, state: shellLoading, spin: sp}
}

func (m shellModel) Init() tea.Cmd {
	session := m.deps.Session
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		return initDoneMsg{err: session.Initialize(context.Background())}
	})
}

// allowed maps a page requirement onto the session's role predicates.
func (m shellModel) allowed(req resources.Requirement) bool {
	switch req {
	case resources.AdminOnly:
		return m.deps.Session.IsAdmin()
	case resources.AdminOrOfficer:
		return m.deps.Session.IsAdminOrOfficer()
	default:
		return m.deps.Session.Authenticated()
	}
}

// visibleEntries filters the menu down to what the current role may open.
func (m shellModel) visibleEntries() []menuEntry {
	var out []menuEntry
	for _, e := range menuEntries() {
		if m.allowed(e.require) {
			out = append(out, e)
		}
	}
	return out
}

func (m shellModel) toLogin() (tea.Model, tea.Cmd) {
	m.state = shellLogin
	m.page = nil
	m.cursor = 0
	m.login = newLoginModel(m.deps)
	m.login.width, m.login.height = m.width, m.height
	return m, m.login.Init()
}

func (m shellModel) openPage(entry menuEntry) (tea.Model, tea.Cmd) {
	if !m.allowed(entry.require) {
		// Role lost since the menu rendered; fall back to the dashboard.
		entry = menuEntries()[0]
	}
	page := entry.build(m.deps)
	page, _ = page.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.page = page
	m.state = shellPage
	return m, page.Init()
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		switch m.state {
		case shellLogin:
			lm, cmd := m.login.Update(msg)
			m.login = lm.(loginModel)
			return m, cmd
		case shellPage:
			var cmd tea.Cmd
			m.page, cmd = m.page.Update(msg)
			return m, cmd
		}
		return m, nil

	case initDoneMsg:
		if m.deps.Session.Authenticated() {
			m.state = shellMenu
			return m, nil
		}
		return m.toLogin()

	case authedMsg:
		m.state = shellMenu
		m.cursor = 0
		return m, nil

	case backMsg:
		m.state = shellMenu
		m.page = nil
		return m, nil

	case loggedOutMsg:
		return m.toLogin()

	case spinner.TickMsg:
		if m.state == shellLoading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}

	switch m.state {
	case shellLogin:
		lm, cmd := m.login.Update(msg)
		m.login = lm.(loginModel)
		return m, cmd

	case shellMenu:
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.handleMenuKey(key)
		}
		return m, nil

	case shellPage:
		var cmd tea.Cmd
		m.page, cmd = m.page.Update(msg)
		// A 401 on any request tears the session down out-of-band; detect
		// it here and abandon the page.
		if !m.deps.Session.Authenticated() {
			next, loginCmd := m.toLogin()
			return next, tea.Batch(cmd, loginCmd)
		}
		return m, cmd
	}
	return m, nil
}

func (m shellModel) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.visibleEntries()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		m.cursor = (m.cursor - 1 + len(entries) + 1) % (len(entries) + 1)
		return m, nil

	case "down", "j":
		m.cursor = (m.cursor + 1) % (len(entries) + 1)
		return m, nil

	case "enter":
		if m.cursor == len(entries) {
			// Last slot is sign out.
			session := m.deps.Session
			return m, func() tea.Msg {
				session.Logout(context.Background())
				return loggedOutMsg{}
			}
		}
		return m.openPage(entries[m.cursor])
	}

	// Number shortcuts: 1..9 jump straight to an entry.
	if n := msg.String(); len(n) == 1 && n[0] >= '1' && n[0] <= '9' {
		idx := int(n[0] - '1')
		if idx < len(entries) {
			return m.openPage(entries[idx])
		}
	}
	return m, nil
}

func (m shellModel) View() string {
	switch m.state {
	case shellLoading:
		body := m.spin.View() + " restoring session..."
		if m.width == 0 {
			return body
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)

	case shellLogin:
		return m.login.View()

	case shellPage:
		return m.page.View()
	}

	// Menu.
	var b strings.Builder

	user := m.deps.Session.User()
	who := ""
	if user != nil {
		name := user.DisplayName
		if name == "" {
			name = user.Username
		}
		who = fmt.Sprintf("%s (%s)", name, user.Role)
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentMain)).
		Render("🚚 fleetdesk") + "  " +
		lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(who) + "\n\n")

	entries := m.visibleEntries()
	focused := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	normal := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))

	for i, e := range entries {
		line := fmt.Sprintf("%d. %s", i+1, e.title)
		if i == m.cursor {
			b.WriteString(focused.Render("▶ "+line) + "\n")
		} else {
			b.WriteString(normal.Render("  "+line) + "\n")
		}
	}
	signOut := "   Sign out"
	if m.cursor == len(entries) {
		b.WriteString(focused.Render("▶ Sign out") + "\n")
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(signOut) + "\n")
	}

	b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).
		Render("↑/↓ move · enter open · 1-9 jump · q quit"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 3)

	if m.width == 0 {
		return box.Render(b.String())
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box.Render(b.String()))
}
