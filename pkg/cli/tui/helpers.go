package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"qrscan-go/pkg/cli/client"
	"qrscan-go/pkg/models"
)

// renderEmptyState renders a standard empty state message
func renderEmptyState(message string) string {
	return "\n" + mutedStyle.Render(message) + "\n"
}

// renderLoadingState renders a standard loading message
func renderLoadingState(message string) string {
	return "\n" + infoStyle.Render(message) + "\n"
}

// renderScanList renders the history newest first with a webhook glyph per row
func renderScanList(records []models.ScanRecord, selected int, width int) string {
	if len(records) == 0 {
		return renderEmptyState("No scans yet. Point a camera at a QR code or upload an image.")
	}

	textWidth := width - 16
	if textWidth < 20 {
		textWidth = 20
	}

	var b strings.Builder
	for i, rec := range records {
		marker := " "
		style := scanTextStyle
		if i == selected {
			marker = selectedMarkerStyle.Render("→")
			style = selectedStyle
		}

		b.WriteString(fmt.Sprintf("%s %s %s\n", marker, statusGlyph(rec.WebhookStatus), style.Render(truncate(rec.Text, textWidth))))
		b.WriteString(fmt.Sprintf("    %s\n", scanTimeStyle.Render(formatScanTime(rec.Timestamp))))
		if i < len(records)-1 {
			b.WriteString("  " + renderDivider(textWidth) + "\n")
		}
	}
	return b.String()
}

// renderErrorPopover renders the details of a failed delivery
func renderErrorPopover(rec models.ScanRecord) string {
	msg := rec.WebhookError
	if msg == "" {
		msg = "Failed to send webhook"
	}

	body := errorStyle.Render("⚠ Webhook Error") + "\n" +
		fieldLabelStyle.Render("Scan:") + " " + truncate(rec.Text, 36) + "\n" +
		wrapText(msg, 44, "") +
		helpStyle.Render("Esc to close")
	return popoverStyle.Render(body)
}

// formatScanTime renders a record timestamp in local wall-clock time
func formatScanTime(ms int64) string {
	return time.UnixMilli(ms).Local().Format("15:04:05")
}

// truncate shortens s to maxLen runes
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// wrapText wraps text to a specified width, breaking at word boundaries
func wrapText(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + "\n"
	}

	var b strings.Builder
	line := ""
	for _, word := range words {
		if len(line)+len(word)+1 > width && line != "" {
			b.WriteString(fmt.Sprintf("%s%s\n", indent, line))
			line = word
		} else {
			if line != "" {
				line += " "
			}
			line += word
		}
	}
	if line != "" {
		b.WriteString(fmt.Sprintf("%s%s\n", indent, line))
	}
	return b.String()
}

// handleListNavigation handles common navigation keys for list views (up/down/j/k)
// Returns the new selected index and whether navigation occurred
func handleListNavigation(key string, selected int, total int) (newSelected int, handled bool) {
	switch key {
	case "up", "k":
		if selected > 0 {
			return selected - 1, true
		}
		return selected, true
	case "down", "j":
		if selected < total-1 {
			return selected + 1, true
		}
		return selected, true
	}
	return selected, false
}

// handleQuitKeys checks if a key should quit the current view
func handleQuitKeys(key string) bool {
	switch key {
	case "ctrl+c", "q", "esc":
		return true
	}
	return false
}

// renderInlineError renders an error message inline (without full error view formatting)
func renderInlineError(err error) string {
	if err == nil {
		return ""
	}
	return renderError(userFacingError(err).Error())
}

// userFacingError strips transport detail from API errors
func userFacingError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.Message)
	}

	return err
}
