package scanview

import "qrscan-go/pkg/models"

// SessionLoadedMsg is emitted when a session snapshot has been fetched
type SessionLoadedMsg struct {
	View *models.SessionView
	Err  error
}

// TickMsg triggers a poll. Owner identifies the view that scheduled it so
// a stale view's ticks are ignored.
type TickMsg struct {
	Owner int
}

// ActionDoneMsg is emitted when a clear or reset request completes
type ActionDoneMsg struct {
	Message string
	Err     error
}

// SubmitDoneMsg is emitted when a manually entered scan has been sent
type SubmitDoneMsg struct {
	Result *models.ScanResult
	Err    error
}

// WebhookSavedMsg is emitted when the webhook URL has been updated
type WebhookSavedMsg struct {
	URL string
	Err error
}
