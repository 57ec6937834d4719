package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fleetdesk/internal/controller"
	"fleetdesk/internal/models"
)

// settingsMsg settles the settings fetch.
type settingsMsg struct {
	settings models.Settings
	err      error
}

// ratesSavedMsg settles an exchange-rate update.
type ratesSavedMsg struct {
	err error
}

type settingsMode int

const (
	settingsBrowse settingsMode = iota
	settingsEditRates
	settingsAddCurrency
)

// settingsModel is the admin-only operator settings page. The editable part
// is the exchange-rate table; company name and base currency are read-only
// here.
type settingsModel struct {
	deps Deps

	settings models.Settings
	loaded   bool
	loading  bool
	errMsg   string
	toast    string

	mode   settingsMode
	draft  *controller.Draft
	form   formModel
	prompt textinput.Model
	spin   spinner.Model

	width, height int
}

func newSettingsModel(deps Deps) settingsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	prompt := textinput.New()
	prompt.Width = 8
	prompt.CharLimit = 5
	prompt.Placeholder = "USD"

	return settingsModel{deps: deps, spin: sp, prompt: prompt, loading: true}
}

func (m settingsModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.spin.Tick)
}

func (m settingsModel) fetchCmd() tea.Cmd {
	svc := m.deps.Fleet
	return func() tea.Msg {
		s, err := svc.Settings(context.Background())
		return settingsMsg{settings: s, err: err}
	}
}

func (m settingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case settingsMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.settings = msg.settings
		m.loaded = true
		return m, nil

	case ratesSavedMsg:
		if msg.err != nil {
			m.draft.ApplyServerError(msg.err)
			return m, nil
		}
		m.draft.Close()
		m.mode = settingsBrowse
		m.toast = "Exchange rates updated"
		m.loading = true
		return m, m.fetchCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m settingsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.toast = ""

	switch m.mode {
	case settingsEditRates:
		var action formAction
		var cmd tea.Cmd
		m.form, action, cmd = m.form.Update(msg)
		switch action {
		case formCancel:
			m.draft.Close()
			m.mode = settingsBrowse
			return m, nil
		case formSubmit:
			return m.submitRates()
		}
		return m, cmd

	case settingsAddCurrency:
		switch msg.String() {
		case "esc":
			m.mode = settingsBrowse
			m.prompt.Blur()
			return m, nil
		case "enter":
			code := strings.ToUpper(strings.TrimSpace(m.prompt.Value()))
			m.prompt.SetValue("")
			m.prompt.Blur()
			if code == "" {
				m.mode = settingsBrowse
				return m, nil
			}
			m.openRateForm(code)
			return m, nil
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return backMsg{} }
	case "r":
		m.loading = true
		return m, m.fetchCmd()
	case "e":
		if m.loaded {
			m.openRateForm("")
		}
		return m, nil
	case "a":
		if m.loaded {
			m.mode = settingsAddCurrency
			m.prompt.Focus()
		}
		return m, nil
	}
	return m, nil
}

// openRateForm builds a number field per known currency, plus extra when a
// new code is being added.
func (m *settingsModel) openRateForm(extra string) {
	codes := make([]string, 0, len(m.settings.ExchangeRates)+1)
	for code := range m.settings.ExchangeRates {
		codes = append(codes, code)
	}
	if extra != "" {
		if _, ok := m.settings.ExchangeRates[extra]; !ok {
			codes = append(codes, extra)
		}
	}
	sort.Strings(codes)

	fields := make([]controller.Field, len(codes))
	values := make(map[string]string, len(codes))
	for i, code := range codes {
		fields[i] = controller.Field{
			Name:     code,
			Label:    code + " per " + m.settings.BaseCurrency,
			Kind:     controller.Number,
			Required: true,
		}
		if rate, ok := m.settings.ExchangeRates[code]; ok {
			values[code] = fmt.Sprintf("%g", rate)
		}
	}

	m.draft = controller.NewDraft(fields)
	m.draft.OpenEdit("rates", values)
	m.form = newFormModel("Exchange rates", m.draft)
	m.mode = settingsEditRates
}

func (m settingsModel) submitRates() (tea.Model, tea.Cmd) {
	payload, err := m.draft.Payload()
	if err != nil {
		return m, nil
	}
	rates := make(map[string]float64, len(payload))
	for code, v := range payload {
		if n, ok := v.(float64); ok {
			rates[code] = n
		}
	}
	m.draft.Submitting = true
	svc := m.deps.Fleet
	return m, func() tea.Msg {
		return ratesSavedMsg{err: svc.UpdateExchangeRates(context.Background(), rates)}
	}
}

func (m settingsModel) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).
		Render("Settings") + "\n\n")

	if m.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).
			Render("✗ "+m.errMsg+"  (r to retry)") + "\n\n")
	}
	if m.toast != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).
			Render("✓ "+m.toast) + "\n\n")
	}

	if m.mode == settingsEditRates {
		b.WriteString(m.form.View(m.width))
		return b.String()
	}

	if m.loading && !m.loaded {
		b.WriteString(m.spin.View() + " loading...\n")
		return b.String()
	}

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	value := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText))

	b.WriteString(label.Render("Company        ") + value.Render(m.settings.CompanyName) + "\n")
	b.WriteString(label.Render("Base currency  ") + value.Render(m.settings.BaseCurrency) + "\n\n")

	b.WriteString(label.Render("Exchange rates") + "\n")
	codes := make([]string, 0, len(m.settings.ExchangeRates))
	for code := range m.settings.ExchangeRates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	if len(codes) == 0 {
		b.WriteString(label.Render("  (none)") + "\n")
	}
	for _, code := range codes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", code,
			value.Render(fmt.Sprintf("%g", m.settings.ExchangeRates[code]))))
	}
	b.WriteString("\n")

	if m.mode == settingsAddCurrency {
		b.WriteString("Currency code: " + m.prompt.View() + "\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).
			Render("enter continue · esc cancel"))
		return b.String()
	}

	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).
		Render("e edit rates · a add currency · r refresh · esc menu"))
	return b.String()
}
