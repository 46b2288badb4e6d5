package tui

import (
	"io"
	"strings"
	"testing"

	"qrscan-go/pkg/cli/logger"
	"qrscan-go/pkg/cli/tui/scanview"
	"qrscan-go/pkg/models"

	tea "github.com/charmbracelet/bubbletea"
)

func init() {
	logger.SetOutput(io.Discard)
}

func newTestHistory(records ...models.ScanRecord) *historyModel {
	m := &historyModel{owner: 7, width: scanview.DefaultWidth}
	m.Update(scanview.SessionLoadedMsg{View: &models.SessionView{
		History:    records,
		WebhookURL: "https://hooks.example/in",
	}})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status models.WebhookStatus
		want   string
	}{
		{models.WebhookDisabled, "Webhook not configured"},
		{models.WebhookPending, "Sending webhook..."},
		{models.WebhookSuccess, "Webhook sent successfully"},
		{models.WebhookError, "Webhook failed - press Enter for details"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := statusLabel(tt.status); got != tt.want {
				t.Errorf("statusLabel(%q) = %q, want %q", tt.status, got, tt.want)
			}
			if statusGlyph(tt.status) == "" {
				t.Errorf("statusGlyph(%q) is empty", tt.status)
			}
		})
	}
}

func TestHistory_ErrorDetail(t *testing.T) {
	m := newTestHistory(
		models.ScanRecord{Text: "ok", Timestamp: 2, WebhookEnabled: true, WebhookStatus: models.WebhookSuccess},
		models.ScanRecord{Text: "bad", Timestamp: 1, WebhookEnabled: true, WebhookStatus: models.WebhookError, WebhookError: "HTTP 500: boom"},
	)

	// Enter on a successful record does nothing
	m.Update(key("enter"))
	if m.step != scanview.StepList {
		t.Fatalf("step = %d after enter on success record", m.step)
	}

	m.Update(key("down"))
	m.Update(key("enter"))
	if m.step != scanview.StepErrorDetail {
		t.Fatalf("step = %d, want error detail", m.step)
	}
	if !m.CapturesKeys() {
		t.Error("popover should capture keys")
	}
	if view := m.View(); !strings.Contains(view, "HTTP 500: boom") || !strings.Contains(view, "Webhook Error") {
		t.Errorf("view missing error details:\n%s", view)
	}

	m.Update(key("esc"))
	if m.step != scanview.StepList {
		t.Errorf("step = %d after esc, want list", m.step)
	}
}

func TestHistory_PopoverClosesWhenRecordResolves(t *testing.T) {
	m := newTestHistory(models.ScanRecord{Text: "x", Timestamp: 1, WebhookEnabled: true, WebhookStatus: models.WebhookError, WebhookError: "Request timed out after 10 seconds"})
	m.Update(key("enter"))

	// History was cleared elsewhere
	m.Update(scanview.SessionLoadedMsg{View: &models.SessionView{}})
	if m.step != scanview.StepList {
		t.Errorf("step = %d, want list after history emptied", m.step)
	}
	if m.selected != 0 {
		t.Errorf("selected = %d, want 0", m.selected)
	}
}

func TestHistory_IgnoresStaleTicks(t *testing.T) {
	m := newTestHistory()

	if _, cmd := m.Update(scanview.TickMsg{Owner: 99}); cmd != nil {
		t.Error("stale tick scheduled work")
	}
	if _, cmd := m.Update(scanview.TickMsg{Owner: 7}); cmd == nil {
		t.Error("own tick did not schedule a poll")
	}
}

func TestHistory_ClearNeedsConfirmation(t *testing.T) {
	m := newTestHistory(models.ScanRecord{Text: "x", Timestamp: 1, WebhookStatus: models.WebhookDisabled})

	m.Update(key("c"))
	if m.step != scanview.StepConfirmClear {
		t.Fatalf("step = %d, want confirm", m.step)
	}
	if _, cmd := m.Update(key("n")); cmd != nil {
		t.Error("declined clear issued a request")
	}
	if m.step != scanview.StepList {
		t.Errorf("step = %d after decline", m.step)
	}
}

func TestRenderScanList(t *testing.T) {
	if got := renderScanList(nil, 0, 80); !strings.Contains(got, "No scans yet") {
		t.Errorf("empty list = %q", got)
	}

	long := strings.Repeat("a", 200)
	got := renderScanList([]models.ScanRecord{{Text: long, Timestamp: 1}}, 0, 80)
	if strings.Contains(got, long) {
		t.Error("long text was not truncated")
	}
	if !strings.Contains(got, "...") {
		t.Error("truncated text missing ellipsis")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9, "")
	want := "one two\nthree\nfour\n"
	if got != want {
		t.Errorf("wrapText = %q, want %q", got, want)
	}
}

func TestRootMenuNavigation(t *testing.T) {
	m := &rootModel{}
	m.current = &submitForm{}

	m.Update(MenuNavigationMsg{})
	if m.IsDelegating() {
		t.Error("menu navigation did not return to the menu")
	}
}
