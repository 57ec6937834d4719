package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fleetdesk/internal/controller"
)

// formAction is what a keypress resolved to at the form level.
type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

// formModel renders a controller.Draft as a vertical field list. Text and
// number fields get a textinput; select fields cycle their options with
// left/right. The draft owns the values and errors; the model owns focus.
type formModel struct {
	draft  *controller.Draft
	title  string
	inputs []textinput.Model
	focus  int
}

func newFormModel(title string, draft *controller.Draft) formModel {
	fields := draft.Fields()
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Width = 40
		in.CharLimit = 200
		in.Placeholder = f.Label
		in.SetValue(draft.Value(f.Name))
		in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		in.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
		inputs[i] = in
	}
	m := formModel{draft: draft, title: title, inputs: inputs}
	m.focusField(0)
	return m
}

func (m *formModel) focusField(i int) {
	fields := m.draft.Fields()
	if len(fields) == 0 {
		return
	}
	// Leaving a field finalizes it: numbers snap back to the last good
	// value if the transient text never became parseable.
	old := m.focus
	m.draft.BlurField(fields[old].Name)
	m.inputs[old].SetValue(m.draft.Value(fields[old].Name))
	m.inputs[old].Blur()

	m.focus = (i + len(fields)) % len(fields)
	if fields[m.focus].Kind != controller.Select {
		m.inputs[m.focus].Focus()
	}
}

// cycleOption moves a select field through its options.
func (m *formModel) cycleOption(delta int) {
	f := m.draft.Fields()[m.focus]
	cur := m.draft.Value(f.Name)
	idx := 0
	for i, opt := range f.Options {
		if opt == cur {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(f.Options)) % len(f.Options)
	m.draft.SetField(f.Name, f.Options[idx])
}

func (m formModel) Update(msg tea.Msg) (formModel, formAction, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, formNone, cmd
	}

	if m.draft.Submitting {
		// Everything is inert while the round-trip runs.
		return m, formNone, nil
	}

	fields := m.draft.Fields()
	field := fields[m.focus]

	switch keyMsg.String() {
	case "esc":
		return m, formCancel, nil
	case "ctrl+s":
		return m, formSubmit, nil
	case "enter", "tab", "down":
		if keyMsg.String() == "enter" && m.focus == len(fields)-1 {
			return m, formSubmit, nil
		}
		m.focusField(m.focus + 1)
		return m, formNone, nil
	case "shift+tab", "up":
		m.focusField(m.focus - 1)
		return m, formNone, nil
	case "left", "right":
		if field.Kind == controller.Select {
			delta := 1
			if keyMsg.String() == "left" {
				delta = -1
			}
			m.cycleOption(delta)
			return m, formNone, nil
		}
	}

	if field.Kind == controller.Select {
		return m, formNone, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(keyMsg)
	m.draft.SetField(field.Name, m.inputs[m.focus].Value())
	return m, formNone, cmd
}

func (m formModel) View(width int) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	focusedLabel := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	if general := m.draft.GeneralError(); general != "" {
		b.WriteString(errStyle.Render(general))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, f := range m.draft.Fields() {
		label := f.Label
		if f.Required || (f.RequiredOnCreate && m.draft.Mode() == controller.ModeCreating) {
			label += " *"
		}
		if i == m.focus {
			b.WriteString(focusedLabel.Render("▶ " + label))
		} else {
			b.WriteString(labelStyle.Render("  " + label))
		}
		b.WriteString("\n")

		if f.Kind == controller.Select {
			val := m.draft.Value(f.Name)
			if val == "" {
				val = "(none)"
			}
			marker := "  "
			if i == m.focus {
				marker = "  ◀ "
			}
			b.WriteString(valueStyle.Render("  " + val))
			if i == m.focus {
				b.WriteString(labelStyle.Render(marker + "▶ (left/right)"))
			}
			b.WriteString("\n")
		} else {
			b.WriteString("  " + m.inputs[i].View() + "\n")
		}

		if msg := m.draft.FieldError(f.Name); msg != "" {
			b.WriteString(errStyle.Render("  ✗ " + msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	help := "enter/tab next • ctrl+s save • esc cancel"
	if m.draft.Submitting {
		help = "saving..."
	}
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Render(help))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorActiveBorder)).
		Padding(1, 2).
		Width(min(width-4, 60))
	return box.Render(b.String())
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
