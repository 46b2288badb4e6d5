package tui

import (
	"strings"
	"time"

	"qrscan-go/pkg/cli/client"
	"qrscan-go/pkg/cli/logger"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// rootModel is the Bubble Tea model that acts as an app shell for multiple flows.
// It presents a simple menu and then hands control to a specific flow model.
type rootModel struct {
	client       *client.Client
	sessionID    uuid.UUID
	pollInterval time.Duration

	// Current active flow (when nil, we are in the main menu)
	current  tea.Model
	showHelp bool
	width    int
	height   int
}

// NewRootModel constructs the root app-shell model for one scanner session.
func NewRootModel(apiClient *client.Client, sessionID uuid.UUID, pollInterval time.Duration) tea.Model {
	return &rootModel{
		client:       apiClient,
		sessionID:    sessionID,
		pollInterval: pollInterval,
	}
}

func (m *rootModel) Init() tea.Cmd {
	return nil
}

// IsDelegating reports whether a flow is active
func (m *rootModel) IsDelegating() bool {
	return m.current != nil
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MenuNavigationMsg:
		logger.Log("rootModel: returning to menu")
		m.current = nil
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}

	// If we have an active flow, delegate all messages to it.
	if m.current != nil {
		var cmd tea.Cmd
		m.current, cmd = m.current.Update(msg)
		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		if handleQuitKeys(key.String()) {
			return m, tea.Quit
		}
		switch key.String() {
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "1":
			return m.start(NewHistoryModel(m.client, m.sessionID, m.pollInterval))
		case "2":
			return m.start(NewSubmitForm(m.client, m.sessionID))
		case "3":
			return m.start(NewWebhookForm(m.client, m.sessionID))
		}
	}

	return m, nil
}

// start activates a flow and replays the last known window size to it
func (m *rootModel) start(flow tea.Model) (tea.Model, tea.Cmd) {
	m.current = flow
	cmds := []tea.Cmd{flow.Init()}
	if m.width > 0 {
		var cmd tea.Cmd
		m.current, cmd = m.current.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *rootModel) View() string {
	if m.current != nil {
		return m.current.View()
	}

	var b strings.Builder

	b.WriteString(renderTitle("QR Scanner"))
	b.WriteString(mutedStyle.Render("Session " + m.sessionID.String()))
	b.WriteString("\n")
	b.WriteString(renderDivider(60))
	b.WriteString("\n\n")
	b.WriteString(boldStyle.Render("Select an action:") + "\n\n")
	b.WriteString("  " + selectedMarkerStyle.Render("1)") + " Scan history (live)\n")
	b.WriteString("  " + selectedMarkerStyle.Render("2)") + " Enter a scan manually\n")
	b.WriteString("  " + selectedMarkerStyle.Render("3)") + " Webhook settings\n")
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Press the number of an option, '?' for help, or 'q' / Esc to quit.") + "\n")
	if m.showHelp {
		b.WriteString("\n" + RootMenuHelpContent())
	}

	return b.String()
}
