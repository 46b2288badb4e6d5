package webhook

import "time"

// timestampLayout matches the ISO-8601 form browsers produce from
// Date.prototype.toISOString: UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Payload is the JSON body posted to the webhook URL
type Payload struct {
	QRCode    string `json:"qrCode"`
	Timestamp string `json:"timestamp"`
}

// NewPayload builds the body for a decode captured at capturedAt
func NewPayload(text string, capturedAt time.Time) Payload {
	return Payload{
		QRCode:    text,
		Timestamp: FormatTimestamp(capturedAt),
	}
}

// FormatTimestamp renders t as an ISO-8601 UTC string with milliseconds
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
