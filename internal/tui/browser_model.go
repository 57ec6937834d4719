package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fleetdesk/internal/api"
	"fleetdesk/internal/controller"
	"fleetdesk/internal/parser"
	"fleetdesk/internal/resources"
)

// browserMode is the browser's interaction state.
type browserMode int

const (
	modeBrowse browserMode = iota
	modeSearch
	modeFilter
	modeForm
	modeSubForm
	modeConfirm
	modeDetail
)

// listResultMsg carries a fetch result back into the loop.
type listResultMsg[T any] struct {
	res controller.Result[T]
}

// mutationDoneMsg settles a create/update/delete round-trip.
type mutationDoneMsg struct {
	verb string // create, update, delete
	id   string
	err  error
}

// actionDoneMsg settles a row action (e.g. journey complete).
type actionDoneMsg struct {
	name string
	id   string
	err  error
}

// subDoneMsg settles a sub-form submit (installment, proof upload).
type subDoneMsg struct {
	err error
}

// detailMsg settles a detail fetch.
type detailMsg[T any] struct {
	item  T
	extra []string
	err   error
}

// browserModel is the generic resource browser: one instance per entity,
// configured entirely by its Descriptor. It owns a list controller, a form
// draft, and a delete confirmation, and renders them as a table with modal
// overlays.
type browserModel[T any] struct {
	deps Deps
	desc resources.Descriptor[T]

	list    *controller.List[T]
	draft   *controller.Draft
	sub     *controller.Draft
	subSpec *resources.SubForm[T]
	subItem T
	confirm controller.Confirm

	mode   browserMode
	tbl    table.Model
	spin   spinner.Model
	prompt textinput.Model
	form   formModel

	detailLines []string
	toast       string

	width, height int
}

func newBrowserModel[T any](deps Deps, desc resources.Descriptor[T]) browserModel[T] {
	cols := make([]table.Column, len(desc.Columns))
	for i, c := range desc.Columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}
	tbl := table.New(table.WithColumns(cols), table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color(ColorPrimaryText)).Background(lipgloss.Color(ColorAccentMain))
	tbl.SetStyles(styles)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	prompt := textinput.New()
	prompt.Width = 50

	return browserModel[T]{
		deps:   deps,
		desc:   desc,
		list:   controller.NewList[T](deps.Client, desc.Res),
		draft:  controller.NewDraft(desc.Fields),
		tbl:    tbl,
		spin:   sp,
		prompt: prompt,
	}
}

func (m browserModel[T]) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.spin.Tick)
}

// fetchCmd snapshots the current query inside the update loop and runs the
// round-trip on a command goroutine. Stale replies are dropped in Apply.
func (m browserModel[T]) fetchCmd() tea.Cmd {
	job := m.list.StartFetch()
	return func() tea.Msg {
		return listResultMsg[T]{res: job.Do(context.Background())}
	}
}

func (m browserModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := m.height - 10
		if h < 3 {
			h = 3
		}
		m.tbl.SetHeight(h)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case listResultMsg[T]:
		if !m.list.Apply(msg.res) {
			return m, nil // superseded by a newer fetch
		}
		if msg.res.Err != nil && errors.Is(msg.res.Err, api.ErrAuthExpired) {
			// The session store already tore down; the shell notices on
			// the next cycle. Nothing more to do here.
			return m, nil
		}
		m.rebuildRows()
		return m, nil

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case actionDoneMsg:
		m.list.ClearBusy(msg.id)
		if msg.err != nil {
			m.list.SetError(msg.err)
			return m, nil
		}
		m.toast = fmt.Sprintf("%s done", msg.name)
		return m, m.fetchCmd()

	case subDoneMsg:
		m.sub.Submitting = false
		if msg.err != nil {
			m.sub.ApplyServerError(msg.err)
			return m, nil
		}
		m.sub.Close()
		m.mode = modeBrowse
		return m, m.fetchCmd()

	case detailMsg[T]:
		if msg.err != nil {
			m.mode = modeBrowse
			if errors.Is(msg.err, api.ErrNotFound) {
				m.toast = "Record no longer exists"
				return m, m.fetchCmd()
			}
			m.list.SetError(msg.err)
			return m, nil
		}
		m.detailLines = append(m.detailFor(msg.item), msg.extra...)
		m.mode = modeDetail
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m browserModel[T]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.toast = ""
	if m.mode == modeBrowse && msg.String() != "r" {
		m.list.ClearError()
	}

	switch m.mode {
	case modeSearch, modeFilter:
		return m.handlePromptKey(msg)
	case modeForm:
		return m.handleFormKey(msg)
	case modeSubForm:
		return m.handleSubFormKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	case modeDetail:
		switch msg.String() {
		case "esc", "q", "enter":
			m.mode = modeBrowse
		}
		return m, nil
	}

	// Browse mode.
	switch msg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return backMsg{} }

	case "r":
		return m, m.fetchCmd()

	case "left", "[":
		if m.list.SetPage(m.list.State().Page - 1) {
			return m, m.fetchCmd()
		}
		return m, nil

	case "right", "]":
		if m.list.SetPage(m.list.State().Page + 1) {
			return m, m.fetchCmd()
		}
		return m, nil

	case "/":
		m.mode = modeSearch
		m.prompt.Placeholder = "search"
		m.prompt.SetValue(m.list.State().Search)
		m.prompt.Focus()
		return m, nil

	case "f":
		m.mode = modeFilter
		m.prompt.Placeholder = "key:value ... (" + strings.Join(m.desc.Res.FilterKeys, ", ") + ")"
		m.prompt.SetValue(m.currentFilterExpr())
		m.prompt.Focus()
		return m, nil

	case "s":
		st := m.list.State()
		order := "asc"
		if st.SortOrder == "asc" {
			order = "desc"
		}
		m.list.SetSort(st.SortBy, order)
		return m, m.fetchCmd()

	case "n":
		m.draft.OpenCreate(m.desc.Defaults)
		m.form = newFormModel("New "+singular(m.desc.Res.Name), m.draft)
		m.mode = modeForm
		return m, nil

	case "e":
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.draft.OpenEdit(m.desc.ID(item), m.desc.FormValues(item))
		m.form = newFormModel("Edit "+m.desc.Label(item), m.draft)
		m.mode = modeForm
		return m, nil

	case "d":
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirm.Begin(m.desc.ID(item), m.desc.Label(item))
		m.mode = modeConfirm
		return m, nil

	case "enter":
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		id := m.desc.ID(item)
		return m, func() tea.Msg {
			ctx := context.Background()
			got, err := m.list.Get(ctx, id)
			if err != nil {
				return detailMsg[T]{err: err}
			}
			var extra []string
			if m.desc.DetailExtra != nil {
				extra = m.desc.DetailExtra(ctx, m.deps.Fleet, got)
			}
			return detailMsg[T]{item: got, extra: extra}
		}
	}

	for _, action := range m.desc.Actions {
		if msg.String() != action.Key {
			continue
		}
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		if action.When != nil && !action.When(item) {
			return m, nil
		}
		id := m.desc.ID(item)
		// Busy per record: a second press while in flight is a no-op,
		// other rows stay interactive.
		if !m.list.MarkBusy(id) {
			return m, nil
		}
		a := action
		return m, func() tea.Msg {
			err := a.Run(context.Background(), m.deps.Fleet, item)
			return actionDoneMsg{name: a.Name, id: id, err: err}
		}
	}

	for i := range m.desc.SubForms {
		sf := &m.desc.SubForms[i]
		if msg.String() != sf.Key {
			continue
		}
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.sub = controller.NewDraft(sf.Fields)
		m.sub.OpenCreate(nil)
		m.subSpec = sf
		m.subItem = item
		m.form = newFormModel(sf.Title+": "+m.desc.Label(item), m.sub)
		m.mode = modeSubForm
		return m, nil
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m browserModel[T]) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.prompt.Blur()
		return m, nil
	case "enter":
		value := m.prompt.Value()
		m.prompt.Blur()
		wasFilter := m.mode == modeFilter
		m.mode = modeBrowse
		if !wasFilter {
			m.list.SetSearch(strings.TrimSpace(value))
			return m, m.fetchCmd()
		}
		parsed, err := parser.ParseFilters(strings.Fields(value), m.desc.Res.FilterKeys)
		if err != nil {
			m.toast = err.Error()
			return m, nil
		}
		// The expression is the whole filter state: keys left out reset.
		for _, key := range m.desc.Res.FilterKeys {
			m.list.SetFilter(key, parsed.Filters[key])
		}
		if parsed.SortBy != "" {
			m.list.SetSort(parsed.SortBy, parsed.SortOrder)
		}
		return m, m.fetchCmd()
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m browserModel[T]) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form, action, cmd := m.form.Update(msg)
	m.form = form

	switch action {
	case formCancel:
		m.draft.Close()
		m.mode = modeBrowse
		return m, nil

	case formSubmit:
		payload, err := m.draft.Payload()
		if err != nil {
			return m, nil // field errors already recorded on the draft
		}
		if m.desc.Transform != nil {
			payload = m.desc.Transform(payload)
		}
		m.draft.Submitting = true
		editID := m.draft.EditingID()
		return m, func() tea.Msg {
			if editID == "" {
				return mutationDoneMsg{verb: "create", err: m.list.Create(context.Background(), payload)}
			}
			return mutationDoneMsg{verb: "update", id: editID, err: m.list.Update(context.Background(), editID, payload)}
		}
	}
	return m, cmd
}

func (m browserModel[T]) handleSubFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form, action, cmd := m.form.Update(msg)
	m.form = form

	switch action {
	case formCancel:
		m.sub.Close()
		m.mode = modeBrowse
		return m, nil

	case formSubmit:
		payload, err := m.sub.Payload()
		if err != nil {
			return m, nil
		}
		m.sub.Submitting = true
		spec, item := m.subSpec, m.subItem
		return m, func() tea.Msg {
			return subDoneMsg{err: spec.Submit(context.Background(), m.deps.Fleet, item, payload)}
		}
	}
	return m, cmd
}

func (m browserModel[T]) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		if !m.confirm.Busy() {
			m.confirm.Cancel()
			m.mode = modeBrowse
		}
		return m, nil

	case "y", "enter":
		// TryAcquire makes a rapid second confirm a no-op: exactly one
		// DELETE reaches the server.
		if !m.confirm.TryAcquire() {
			return m, nil
		}
		id := m.confirm.ID()
		return m, func() tea.Msg {
			return mutationDoneMsg{verb: "delete", id: id, err: m.list.Remove(context.Background(), id)}
		}
	}
	return m, nil
}

func (m browserModel[T]) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.verb == "delete" {
		if msg.err != nil {
			m.confirm.Finish(false)
			var conflict *api.ConflictError
			switch {
			case errors.As(msg.err, &conflict):
				// Blocked by dependent records: the record stays listed,
				// the message stays up until dismissed.
				m.confirm.Cancel()
				m.mode = modeBrowse
				m.list.SetError(msg.err)
				return m, nil
			case errors.Is(msg.err, api.ErrNotFound):
				m.confirm.Cancel()
				m.mode = modeBrowse
				m.toast = "Already deleted elsewhere"
				return m, m.fetchCmd()
			default:
				m.confirm.Cancel()
				m.mode = modeBrowse
				m.list.SetError(msg.err)
				return m, nil
			}
		}
		m.confirm.Finish(true)
		m.mode = modeBrowse
		// Removing the last item of the last page rolls back one page
		// before the refresh.
		m.list.PageAfterRemoval()
		return m, m.fetchCmd()
	}

	// Create / update.
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrNotFound) {
			m.draft.Close()
			m.mode = modeBrowse
			m.toast = "Record no longer exists"
			return m, m.fetchCmd()
		}
		// Validation errors land on their fields; the form stays open.
		m.draft.ApplyServerError(msg.err)
		return m, nil
	}
	m.draft.Close()
	m.mode = modeBrowse
	m.toast = singular(m.desc.Res.Name) + " saved"
	// Refresh with the current page/filters/sort: the user keeps their
	// place in the list.
	return m, m.fetchCmd()
}

func (m *browserModel[T]) rebuildRows() {
	st := m.list.State()
	rows := make([]table.Row, len(st.Items))
	for i, item := range st.Items {
		rows[i] = table.Row(m.desc.Row(item))
	}
	m.tbl.SetRows(rows)
	if cursor := m.tbl.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.tbl.SetCursor(len(rows) - 1)
	}
}

func (m browserModel[T]) selected() (T, bool) {
	var zero T
	st := m.list.State()
	i := m.tbl.Cursor()
	if i < 0 || i >= len(st.Items) {
		return zero, false
	}
	return st.Items[i], true
}

func (m browserModel[T]) detailFor(item T) []string {
	if m.desc.Detail != nil {
		return m.desc.Detail(item)
	}
	lines := []string{m.desc.Label(item)}
	for _, f := range m.desc.Fields {
		if v := m.desc.FormValues(item)[f.Name]; v != "" {
			lines = append(lines, fmt.Sprintf("%-16s %s", f.Label+":", v))
		}
	}
	return lines
}

func (m browserModel[T]) currentFilterExpr() string {
	st := m.list.State()
	var parts []string
	for _, key := range m.desc.Res.FilterKeys {
		if v := st.Filters[key]; v != "" {
			parts = append(parts, key+":"+v)
		}
	}
	return strings.Join(parts, " ")
}

func (m browserModel[T]) View() string {
	st := m.list.State()

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).
		Render(strings.ToUpper(m.desc.Res.Name[:1]) + m.desc.Res.Name[1:])
	status := fmt.Sprintf("page %d/%d · %d total · sort %s/%s",
		st.Page, maxInt(st.Pages, 1), st.Total, st.SortBy, st.SortOrder)
	if st.Search != "" {
		status += " · search: " + st.Search
	}
	if expr := m.currentFilterExpr(); expr != "" {
		status += " · " + expr
	}
	if st.Loading {
		status = m.spin.View() + " " + status
	}

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(status) + "\n")

	if st.Err != "" {
		// The banner coexists with whatever data we already have: stale
		// but visible beats a blank screen.
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).
			Render("✗ "+st.Err+"  (r to retry, any key to dismiss)") + "\n")
	}
	if m.toast != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("✓ "+m.toast) + "\n")
	}

	switch m.mode {
	case modeForm, modeSubForm:
		b.WriteString("\n" + m.form.View(m.width))
		return b.String()

	case modeConfirm:
		label := m.confirm.Label()
		body := fmt.Sprintf("Delete %q? This cannot be undone.\n\n", label)
		if m.confirm.Busy() {
			body += m.spin.View() + " deleting..."
		} else {
			body += "y confirm · n / esc cancel"
		}
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorWarning)).
			Padding(1, 2)
		b.WriteString("\n" + box.Render(body))
		return b.String()

	case modeDetail:
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			Padding(1, 2)
		b.WriteString("\n" + box.Render(strings.Join(m.detailLines, "\n")+"\n\nesc to close"))
		return b.String()

	case modeSearch, modeFilter:
		b.WriteString("\n> " + m.prompt.View() + "\n")
	}

	b.WriteString("\n" + m.tbl.View() + "\n")

	help := "↑/↓ move · ←/→ page · enter detail · n new · e edit · d delete · / search · f filter · s sort · r refresh · esc menu"
	for _, a := range m.desc.Actions {
		help += " · " + a.Key + " " + a.Name
	}
	for _, sf := range m.desc.SubForms {
		help += " · " + sf.Key + " " + strings.ToLower(sf.Title)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Render(help))
	return b.String()
}

func singular(plural string) string {
	return strings.TrimSuffix(plural, "s")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
