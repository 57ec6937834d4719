// Package tui is the interactive administration UI: a navigation shell
// gating role-protected pages, generic resource browsers over the list
// controllers, and the report view. All state changes happen inside the
// bubbletea update loop; network work runs as commands whose results come
// back as messages.
package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"fleetdesk/internal/api"
	"fleetdesk/internal/fleet"
	"fleetdesk/internal/report"
	"fleetdesk/internal/session"
)

// Deps are the shared services every screen draws on. The session store is
// passed explicitly; screens read the token only through the API client.
type Deps struct {
	Session *session.Store
	Client  *api.Client
	Fleet   *fleet.Service
	Reports *report.Service
	Log     *slog.Logger
}

// Run starts the interactive UI and blocks until the user quits.
func Run(deps Deps) error {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	p := tea.NewProgram(newShellModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
