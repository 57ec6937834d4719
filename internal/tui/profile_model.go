package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fleetdesk/internal/controller"
	"fleetdesk/internal/models"
)

// profileSavedMsg settles a profile update.
type profileSavedMsg struct {
	user models.User
	err  error
}

// profileModel shows the signed-in user and lets them edit their contact
// details. Username and role are server-assigned and stay read-only.
type profileModel struct {
	deps Deps

	draft   *controller.Draft
	form    formModel
	editing bool
	toast   string

	width, height int
}

func newProfileModel(deps Deps) profileModel {
	return profileModel{deps: deps}
}

func (m profileModel) Init() tea.Cmd { return nil }

func (m profileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case profileSavedMsg:
		if msg.err != nil {
			m.draft.ApplyServerError(msg.err)
			return m, nil
		}
		m.deps.Session.UpdateUser(msg.user)
		m.draft.Close()
		m.editing = false
		m.toast = "Profile updated"
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m profileModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.toast = ""

	if m.editing {
		var action formAction
		var cmd tea.Cmd
		m.form, action, cmd = m.form.Update(msg)
		switch action {
		case formCancel:
			m.draft.Close()
			m.editing = false
			return m, nil
		case formSubmit:
			return m.submit()
		}
		return m, cmd
	}

	switch msg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return backMsg{} }
	case "e":
		m.openForm()
		return m, nil
	}
	return m, nil
}

func (m *profileModel) openForm() {
	user := m.deps.Session.User()
	if user == nil {
		return
	}
	fields := []controller.Field{
		{Name: "displayName", Label: "Display name", Kind: controller.Text, Required: true},
		{Name: "email", Label: "Email", Kind: controller.Text},
		{Name: "phone", Label: "Phone", Kind: controller.Text},
	}
	m.draft = controller.NewDraft(fields)
	m.draft.OpenEdit(user.ID, map[string]string{
		"displayName": user.DisplayName,
		"email":       user.Email,
		"phone":       user.Phone,
	})
	m.form = newFormModel("Edit profile", m.draft)
	m.editing = true
}

func (m profileModel) submit() (tea.Model, tea.Cmd) {
	payload, err := m.draft.Payload()
	if err != nil {
		return m, nil
	}
	m.draft.Submitting = true
	svc := m.deps.Fleet
	return m, func() tea.Msg {
		user, err := svc.UpdateProfile(context.Background(), payload)
		return profileSavedMsg{user: user, err: err}
	}
}

func (m profileModel) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).
		Render("Profile") + "\n\n")

	if m.toast != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).
			Render("✓ "+m.toast) + "\n\n")
	}

	if m.editing {
		b.WriteString(m.form.View(m.width))
		return b.String()
	}

	user := m.deps.Session.User()
	if user == nil {
		b.WriteString("Not signed in.\n")
		return b.String()
	}

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	value := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText))

	rows := []struct{ k, v string }{
		{"Username", user.Username},
		{"Display name", user.DisplayName},
		{"Email", user.Email},
		{"Phone", user.Phone},
		{"Role", user.Role},
	}
	for _, r := range rows {
		v := r.v
		if v == "" {
			v = "-"
		}
		b.WriteString(label.Render(padRight(r.k, 14)) + value.Render(v) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).
		Render("e edit · esc menu"))
	return b.String()
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
