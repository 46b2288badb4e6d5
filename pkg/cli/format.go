package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"qrscan-go/pkg/models"
)

// FormatHistory formats scans as a table for CLI output, newest first
func FormatHistory(scans []models.ScanRecord) string {
	if len(scans) == 0 {
		return "No scans yet.\n"
	}

	var b strings.Builder

	w := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Time\tWebhook\tText")
	fmt.Fprintln(w, strings.Repeat("─", 8)+"\t"+strings.Repeat("─", 8)+"\t"+strings.Repeat("─", 50))

	for _, scan := range scans {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			FormatTime(scan.Timestamp),
			statusText(scan),
			Truncate(scan.Text, 50),
		)
	}
	w.Flush()

	// Failed deliveries get their reason below the table
	for _, scan := range scans {
		if scan.WebhookStatus == models.WebhookError {
			fmt.Fprintf(&b, "\n✗ %s %s: %s", FormatTime(scan.Timestamp), Truncate(scan.Text, 30), errorText(scan))
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %d scan(s)\n", len(scans)))

	return b.String()
}

// FormatScanResult formats the outcome of one submitted scan
func FormatScanResult(result *models.ScanResult) string {
	if result.Suppressed || result.Record == nil {
		return "Duplicate ignored: the same code was accepted moments ago.\n"
	}

	rec := result.Record
	var b strings.Builder
	b.WriteString("✓ Scan recorded\n")
	b.WriteString(fmt.Sprintf("  Text:    %s\n", rec.Text))
	b.WriteString(fmt.Sprintf("  Time:    %s\n", FormatTime(rec.Timestamp)))
	b.WriteString(fmt.Sprintf("  Webhook: %s\n", statusText(*rec)))
	return b.String()
}

// FormatSession formats a session's settings and history
func FormatSession(view *models.SessionView) string {
	var b strings.Builder

	webhook := view.WebhookURL
	if webhook == "" {
		webhook = "disabled"
	}
	selected := view.SelectedDevice
	if selected == "" {
		selected = "(default camera)"
	}

	b.WriteString(fmt.Sprintf("Session: %s\n", view.ID))
	b.WriteString(fmt.Sprintf("Created: %s\n", view.CreatedAt.Local().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Webhook: %s\n", webhook))
	b.WriteString(fmt.Sprintf("Camera:  %s\n\n", selected))
	b.WriteString(FormatHistory(view.History))
	return b.String()
}

// FormatDevices lists cameras, marking the selected one
func FormatDevices(devices []models.Device, selected string) string {
	if len(devices) == 0 {
		return "No cameras reported by the scanner client.\n"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, " \tID\tLabel")
	for _, d := range devices {
		marker := " "
		if d.DeviceID == selected {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", marker, d.DeviceID, d.Label)
	}
	w.Flush()
	return b.String()
}

func statusText(scan models.ScanRecord) string {
	switch scan.WebhookStatus {
	case models.WebhookPending:
		return "pending"
	case models.WebhookSuccess:
		return "sent"
	case models.WebhookError:
		return "failed"
	default:
		return "off"
	}
}

func errorText(scan models.ScanRecord) string {
	if scan.WebhookError == "" {
		return "Failed to send webhook"
	}
	return scan.WebhookError
}

// Truncate shortens s to maxLen runes
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatTime formats an epoch-millisecond timestamp as local wall-clock time
func FormatTime(ms int64) string {
	return time.UnixMilli(ms).Local().Format("15:04:05")
}
