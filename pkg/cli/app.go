package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"qrscan-go/pkg/cli/client"
	"qrscan-go/pkg/cli/logger"
	"qrscan-go/pkg/cli/tui"
	"qrscan-go/pkg/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// ErrNoSession is returned when a command needs a session and none is configured
var ErrNoSession = errors.New("no scanner session configured; run 'qrscan session new' first")

type App struct {
	cfg    *config.Config
	client *client.Client
	out    io.Writer

	// sessionOverride is set by the --session flag
	sessionOverride string

	// save persists config changes; replaced in tests
	save func(*config.Config) error
}

func NewApp(cfg *config.Config) *App {
	return &App{
		cfg:  cfg,
		out:  os.Stdout,
		save: config.Save,
	}
}

// SetOutput redirects command output
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// getClient returns the HTTP client, creating it if necessary
func (a *App) getClient() (*client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	if a.cfg.CLI.BaseURL == "" {
		return nil, fmt.Errorf("API base URL not configured")
	}

	a.client = client.NewClient(a.cfg.CLI.BaseURL, time.Duration(a.cfg.CLI.Timeout)*time.Second)
	return a.client, nil
}

// sessionID resolves the session a command works against
func (a *App) sessionID() (uuid.UUID, error) {
	raw := a.sessionOverride
	if raw == "" {
		raw = a.cfg.CLI.SessionID
	}
	if raw == "" {
		return uuid.Nil, ErrNoSession
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid session id %q: %w", raw, err)
	}
	return id, nil
}

// withSession resolves the client and session for a command
func (a *App) withSession() (*client.Client, uuid.UUID, error) {
	c, err := a.getClient()
	if err != nil {
		return nil, uuid.Nil, err
	}
	id, err := a.sessionID()
	if err != nil {
		return nil, uuid.Nil, err
	}
	return c, id, nil
}

// RunTUI starts the interactive viewer. A session is created when none is
// configured yet.
func (a *App) RunTUI() error {
	defer logger.CloseLog()

	apiClient, err := a.getClient()
	if err != nil {
		return err
	}

	id, err := a.sessionID()
	if errors.Is(err, ErrNoSession) {
		view, cerr := a.NewSession()
		if cerr != nil {
			return cerr
		}
		id, err = view.ID, nil
	}
	if err != nil {
		return err
	}

	logger.Log("starting TUI for session %s against %s", id, apiClient.BaseURL())
	p := tea.NewProgram(tui.NewRootModel(apiClient, id, 0), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI failed: %w", err)
	}
	return nil
}
