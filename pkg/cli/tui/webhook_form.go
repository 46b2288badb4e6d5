package tui

import (
	"strings"

	"qrscan-go/pkg/cli/client"
	"qrscan-go/pkg/cli/logger"
	"qrscan-go/pkg/cli/tui/scanview"
	"qrscan-go/pkg/utils"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// webhookForm edits the session's webhook URL. An empty URL disables
// delivery.
type webhookForm struct {
	client    *client.Client
	sessionID uuid.UUID

	input  textinput.Model
	loaded bool
	saving bool
	saved  bool
	err    error
}

// NewWebhookForm creates the webhook settings flow.
func NewWebhookForm(c *client.Client, sessionID uuid.UUID) tea.Model {
	input := textinput.New()
	input.Placeholder = "https://example.com/webhook"
	input.CharLimit = 2048
	input.Width = 60
	input.Focus()

	return &webhookForm{
		client:    c,
		sessionID: sessionID,
		input:     input,
	}
}

func (m *webhookForm) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg {
		view, err := m.client.GetSession(m.sessionID)
		return scanview.SessionLoadedMsg{View: view, Err: err}
	})
}

func (m *webhookForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanview.SessionLoadedMsg:
		m.loaded = true
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.input.SetValue(msg.View.WebhookURL)
		m.input.CursorEnd()
		return m, nil

	case scanview.WebhookSavedMsg:
		m.saving = false
		if msg.Err != nil {
			logger.LogError(msg.Err, "failed to save webhook URL")
			m.err = msg.Err
			return m, nil
		}
		logger.Log("webhook URL set to %q", msg.URL)
		m.err = nil
		m.saved = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m, func() tea.Msg { return MenuNavigationMsg{} }
		case "enter":
			if m.saving {
				return m, nil
			}
			url, err := utils.ValidateWebhookURL(m.input.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.saving = true
			m.saved = false
			return m, func() tea.Msg {
				err := m.client.SetWebhook(m.sessionID, url)
				return scanview.WebhookSavedMsg{URL: url, Err: err}
			}
		}
		m.saved = false
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *webhookForm) View() string {
	var b strings.Builder

	b.WriteString(renderTitle("Webhook Settings"))
	if !m.loaded {
		b.WriteString(renderLoadingState("Loading current settings..."))
		return b.String()
	}

	b.WriteString(fieldLabelStyle.Render("Webhook URL:") + "\n")
	b.WriteString(m.input.View() + "\n")
	b.WriteString(mutedStyle.Render("Each new scan is POSTed here as JSON. Leave empty to disable.") + "\n\n")

	switch {
	case m.saving:
		b.WriteString(infoStyle.Render("Saving...") + "\n")
	case m.err != nil:
		b.WriteString(renderInlineError(m.err) + "\n")
	case m.saved && strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(renderSuccess("Webhook disabled") + "\n")
	case m.saved:
		b.WriteString(renderSuccess("Webhook saved; applies to new scans") + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("Enter to save • Esc for menu") + "\n")
	return b.String()
}
