package models

import (
	"time"

	"github.com/google/uuid"
)

// WebhookStatus is the delivery state of a single scan record
type WebhookStatus string

const (
	WebhookDisabled WebhookStatus = "disabled"
	WebhookPending  WebhookStatus = "pending"
	WebhookSuccess  WebhookStatus = "success"
	WebhookError    WebhookStatus = "error"
)

// ScanRecord is one accepted decode in a session's history.
// Timestamp (epoch ms) is the record's identity within its session.
type ScanRecord struct {
	Text           string        `json:"text"`
	Timestamp      int64         `json:"timestamp"`
	WebhookEnabled bool          `json:"webhookEnabled"`
	WebhookStatus  WebhookStatus `json:"webhookStatus"`
	WebhookError   string        `json:"webhookError,omitempty"`
}

// CapturedAt returns the record's timestamp as a time.Time
func (r ScanRecord) CapturedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// ScanCreate is the request body for submitting an already-decoded string
type ScanCreate struct {
	Text string `json:"text" binding:"required"`
}

// ScanResult is returned by the scan endpoints. Record is nil when the
// decode was suppressed by the cooldown window.
type ScanResult struct {
	Record     *ScanRecord `json:"record,omitempty"`
	Suppressed bool        `json:"suppressed"`
}

// WebhookUpdate is the request body for changing a session's webhook URL.
// An empty URL disables delivery.
type WebhookUpdate struct {
	URL string `json:"url" binding:"omitempty,url"`
}

// SessionView is a point-in-time copy of a scanner session
type SessionView struct {
	ID             uuid.UUID    `json:"id"`
	History        []ScanRecord `json:"history"`
	WebhookURL     string       `json:"webhookUrl"`
	Devices        []Device     `json:"devices"`
	SelectedDevice string       `json:"selectedDevice"`
	CreatedAt      time.Time    `json:"createdAt"`
}
