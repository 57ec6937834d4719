package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loginDoneMsg settles a login attempt.
type loginDoneMsg struct {
	ok  bool
	msg string
}

const (
	loginFieldUsername = 0
	loginFieldPassword = 1
	loginFieldRemember = 2
)

// loginModel is the sign-in screen. A failed attempt shows the server's
// message and leaves the inputs as typed.
type loginModel struct {
	deps Deps

	inputs     []textinput.Model
	focus      int
	remember   bool
	submitting bool
	errMsg     string
	spin       spinner.Model

	width, height int
}

func newLoginModel(deps Deps) loginModel {
	inputs := make([]textinput.Model, 2)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 32
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	}
	inputs[loginFieldUsername].Placeholder = "username"
	inputs[loginFieldUsername].Focus()
	inputs[loginFieldPassword].Placeholder = "password"
	inputs[loginFieldPassword].EchoMode = textinput.EchoPassword
	inputs[loginFieldPassword].EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	return loginModel{deps: deps, inputs: inputs, spin: sp}
}

func (m loginModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

func (m loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loginDoneMsg:
		m.submitting = false
		if !msg.ok {
			m.errMsg = msg.msg
			return m, nil
		}
		return m, func() tea.Msg { return authedMsg{} }

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab", "down", "enter":
			if msg.String() == "enter" && m.focus == loginFieldRemember {
				return m.submit()
			}
			return m.setFocus(m.focus + 1), nil

		case "shift+tab", "up":
			return m.setFocus(m.focus - 1), nil

		case " ":
			if m.focus == loginFieldRemember {
				m.remember = !m.remember
				return m, nil
			}

		case "ctrl+s":
			return m.submit()
		}

		if m.focus < len(m.inputs) {
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m loginModel) setFocus(i int) loginModel {
	total := 3 // username, password, remember
	if m.focus < len(m.inputs) {
		m.inputs[m.focus].Blur()
	}
	m.focus = (i + total) % total
	if m.focus < len(m.inputs) {
		m.inputs[m.focus].Focus()
	}
	return m
}

func (m loginModel) submit() (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[loginFieldUsername].Value())
	password := m.inputs[loginFieldPassword].Value()
	if username == "" || password == "" {
		m.errMsg = "Username and password are required"
		return m, nil
	}
	m.submitting = true
	m.errMsg = ""
	remember := m.remember
	return m, func() tea.Msg {
		ok, msg := m.deps.Session.Login(context.Background(), username, password, remember)
		return loginDoneMsg{ok: ok, msg: msg}
	}
}

func (m loginModel) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentMain)).Render("🚚 fleetdesk")
	b.WriteString(title + "\n\n")

	if m.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("✗ "+m.errMsg) + "\n\n")
	}

	labels := []string{"Username", "Password"}
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	focused := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)

	for i, in := range m.inputs {
		if i == m.focus {
			b.WriteString(focused.Render("▶ "+labels[i]) + "\n")
		} else {
			b.WriteString(labelStyle.Render("  "+labels[i]) + "\n")
		}
		b.WriteString("  " + in.View() + "\n\n")
	}

	check := "☐"
	if m.remember {
		check = "☑"
	}
	rememberLine := "  " + check + " Remember me"
	if m.focus == loginFieldRemember {
		rememberLine = focused.Render("▶ "+check+" Remember me (space to toggle)")
	} else {
		rememberLine = labelStyle.Render(rememberLine)
	}
	b.WriteString(rememberLine + "\n\n")

	if m.submitting {
		b.WriteString(m.spin.View() + " signing in...")
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).
			Render("enter next · ctrl+s sign in · ctrl+c quit"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 3)

	if m.width == 0 {
		return box.Render(b.String())
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box.Render(b.String()))
}
