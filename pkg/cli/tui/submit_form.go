package tui

import (
	"fmt"
	"strings"

	"qrscan-go/pkg/cli/client"
	"qrscan-go/pkg/cli/logger"
	"qrscan-go/pkg/cli/tui/scanview"
	"qrscan-go/pkg/models"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// submitForm sends a decoded value typed by hand, e.g. from a scanner that
// acts as a keyboard.
type submitForm struct {
	client    *client.Client
	sessionID uuid.UUID

	input      textinput.Model
	submitting bool
	result     *models.ScanResult
	err        error
}

// NewSubmitForm creates the manual scan entry flow.
func NewSubmitForm(c *client.Client, sessionID uuid.UUID) tea.Model {
	input := textinput.New()
	input.Placeholder = "decoded QR text"
	input.CharLimit = 4096
	input.Width = 60
	input.Focus()

	return &submitForm{
		client:    c,
		sessionID: sessionID,
		input:     input,
	}
}

func (m *submitForm) Init() tea.Cmd {
	return textinput.Blink
}

func (m *submitForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanview.SubmitDoneMsg:
		m.submitting = false
		if msg.Err != nil {
			logger.LogError(msg.Err, "manual scan failed")
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.result = msg.Result
		m.input.SetValue("")
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m, func() tea.Msg { return MenuNavigationMsg{} }
		case "enter":
			text := m.input.Value()
			if strings.TrimSpace(text) == "" || m.submitting {
				return m, nil
			}
			m.submitting = true
			return m, func() tea.Msg {
				res, err := m.client.Submit(m.sessionID, text)
				return scanview.SubmitDoneMsg{Result: res, Err: err}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *submitForm) View() string {
	var b strings.Builder

	b.WriteString(renderTitle("Enter a Scan"))
	b.WriteString(fieldLabelStyle.Render("Text:") + "\n")
	b.WriteString(m.input.View() + "\n\n")

	switch {
	case m.submitting:
		b.WriteString(infoStyle.Render("Sending...") + "\n")
	case m.err != nil:
		b.WriteString(renderInlineError(m.err) + "\n")
	case m.result != nil && m.result.Suppressed:
		b.WriteString(renderWarning("Duplicate ignored (same code scanned moments ago)") + "\n")
	case m.result != nil && m.result.Record != nil:
		rec := m.result.Record
		b.WriteString(renderSuccess(fmt.Sprintf("Recorded at %s", formatScanTime(rec.Timestamp))) + "  ")
		b.WriteString(statusGlyph(rec.WebhookStatus) + " " + mutedStyle.Render(statusLabel(rec.WebhookStatus)) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("Enter to submit • Esc for menu") + "\n")
	return b.String()
}
