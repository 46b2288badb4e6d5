package tui

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"qrscan-go/pkg/cli/client"
	"qrscan-go/pkg/cli/logger"
	"qrscan-go/pkg/cli/tui/scanview"
	"qrscan-go/pkg/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

var historyOwners atomic.Int64

// historyModel polls a session and shows its scan history with the webhook
// status of every record.
type historyModel struct {
	client    *client.Client
	sessionID uuid.UUID
	interval  time.Duration
	owner     int

	view     *models.SessionView
	selected int
	step     int
	err      error
	flash    string
	ready    bool
	width    int
}

// NewHistoryModel creates the live history flow.
func NewHistoryModel(c *client.Client, sessionID uuid.UUID, interval time.Duration) tea.Model {
	if interval <= 0 {
		interval = scanview.DefaultPollInterval
	}

	model := &historyModel{
		client:    c,
		sessionID: sessionID,
		interval:  interval,
		owner:     int(historyOwners.Add(1)),
		step:      scanview.StepList,
		width:     scanview.DefaultWidth,
	}

	return NewViewportWrapper(model, ViewportConfig{
		Title:       "Scan History",
		Subtitle:    model.subtitle,
		ShowHeader:  true,
		ShowFooter:  true,
		UseViewport: true,
		EnableHelp:  true,
		EnableMenu:  true,
		HelpContent: HistoryHelpContent,
		MinWidth:    60,
		MinHeight:   10,
	})
}

func (m *historyModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick())
}

func (m *historyModel) fetch() tea.Cmd {
	return func() tea.Msg {
		view, err := m.client.GetSession(m.sessionID)
		return scanview.SessionLoadedMsg{View: view, Err: err}
	}
}

func (m *historyModel) tick() tea.Cmd {
	owner := m.owner
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return scanview.TickMsg{Owner: owner}
	})
}

// CapturesKeys keeps Esc and q inside the model while a popover is open
func (m *historyModel) CapturesKeys() bool {
	return m.step != scanview.StepList
}

func (m *historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width == 0 {
			m.width = scanview.DefaultWidth
		}
		return m, nil

	case scanview.TickMsg:
		if msg.Owner != m.owner {
			return m, nil
		}
		return m, tea.Batch(m.fetch(), m.tick())

	case scanview.SessionLoadedMsg:
		m.ready = true
		if msg.Err != nil {
			logger.LogError(msg.Err, "failed to load session %s", m.sessionID)
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.view = msg.View
		m.clampSelection()
		return m, nil

	case scanview.ActionDoneMsg:
		if msg.Err != nil {
			logger.LogError(msg.Err, "history action failed")
			m.err = msg.Err
			return m, nil
		}
		m.flash = msg.Message
		return m, m.fetch()

	case tea.KeyMsg:
		switch m.step {
		case scanview.StepErrorDetail:
			switch msg.String() {
			case "esc", "enter", "q":
				m.step = scanview.StepList
			}
			return m, nil
		case scanview.StepConfirmClear:
			switch msg.String() {
			case "y", "Y":
				m.step = scanview.StepList
				return m, m.clear()
			default:
				m.step = scanview.StepList
			}
			return m, nil
		}
		return m.handleListKeys(msg)
	}

	return m, nil
}

func (m *historyModel) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	records := m.records()
	if newSelected, handled := handleListNavigation(msg.String(), m.selected, len(records)); handled {
		m.selected = newSelected
		return m, nil
	}

	switch msg.String() {
	case "enter":
		if m.selected < len(records) && records[m.selected].WebhookStatus == models.WebhookError {
			m.step = scanview.StepErrorDetail
		}
	case "c":
		if len(records) > 0 {
			m.step = scanview.StepConfirmClear
		}
	case "r":
		return m, m.reset()
	case "g":
		return m, m.fetch()
	}
	return m, nil
}

func (m *historyModel) clear() tea.Cmd {
	return func() tea.Msg {
		err := m.client.Clear(m.sessionID)
		return scanview.ActionDoneMsg{Message: "History cleared", Err: err}
	}
}

func (m *historyModel) reset() tea.Cmd {
	return func() tea.Msg {
		_, err := m.client.Reset(m.sessionID)
		return scanview.ActionDoneMsg{Message: "Scanner reset", Err: err}
	}
}

func (m *historyModel) records() []models.ScanRecord {
	if m.view == nil {
		return nil
	}
	return m.view.History
}

func (m *historyModel) clampSelection() {
	n := len(m.records())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.step == scanview.StepErrorDetail && (n == 0 || m.records()[m.selected].WebhookStatus != models.WebhookError) {
		m.step = scanview.StepList
	}
}

func (m *historyModel) subtitle() string {
	if m.view == nil {
		return mutedStyle.Render("Webhook: unknown")
	}
	if m.view.WebhookURL == "" {
		return mutedStyle.Render("Webhook: disabled")
	}
	return fieldLabelStyle.Render("Webhook:") + truncate(m.view.WebhookURL, m.width-12)
}

func (m *historyModel) View() string {
	if !m.ready {
		return renderLoadingState("Loading scan history...")
	}

	var b strings.Builder
	records := m.records()

	if m.err != nil {
		b.WriteString(renderInlineError(m.err) + "\n\n")
	} else if m.flash != "" {
		b.WriteString(renderSuccess(m.flash) + "\n\n")
	}

	b.WriteString(renderScanList(records, m.selected, m.width))

	if len(records) > 0 && m.selected < len(records) {
		b.WriteString("\n" + mutedStyle.Render(statusLabel(records[m.selected].WebhookStatus)) + "\n")
	}

	switch m.step {
	case scanview.StepErrorDetail:
		b.WriteString("\n" + renderErrorPopover(records[m.selected]) + "\n")
	case scanview.StepConfirmClear:
		b.WriteString("\n" + renderWarning(fmt.Sprintf("Clear %d scan(s)? y/N", len(records))) + "\n")
	}

	return b.String()
}
