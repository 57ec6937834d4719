package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fleetdesk/internal/api"
	"fleetdesk/internal/config"
	"fleetdesk/internal/fleet"
	"fleetdesk/internal/localstore"
	"fleetdesk/internal/report"
	"fleetdesk/internal/session"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "fleetdesk",
	Short: "Terminal admin client for the fleet backend",
	Long: `fleetdesk is a terminal client for managing a trucking operation:
trucks, drivers, customers, journeys, expenses, users and reports,
all against the fleet REST backend.`,
}

// app bundles the wired services a command needs. Everything hangs off one
// API client so the 401 teardown hook is registered exactly once.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	local   *localstore.Store
	session *session.Store
	client  *api.Client
	fleet   *fleet.Service
	reports *report.Service
}

func initApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg)

	local, err := localstore.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	sess := session.New(local, log)
	client := api.NewClient(cfg.APIBaseURL, sess, log)
	sess.AttachClient(client)

	return &app{
		cfg:     cfg,
		log:     log,
		local:   local,
		session: sess,
		client:  client,
		fleet:   fleet.NewService(client),
		reports: report.NewService(client),
	}, nil
}

// newLogger writes structured logs to <dataDir>/fleetdesk.log. Stdout stays
// clean for command output; a broken log file falls back to discard rather
// than failing the command.
func newLogger(cfg config.Config) *slog.Logger {
	var w io.Writer = io.Discard
	if err := os.MkdirAll(cfg.DataDir, 0o755); err == nil {
		f, err := os.OpenFile(filepath.Join(cfg.DataDir, "fleetdesk.log"),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			w = f
		}
	}

	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// withApp wraps a command function to wire the services first.
func withApp(fn func(*app, *cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		a, err := initApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		defer a.local.Close()
		fn(a, cmd, args)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}
