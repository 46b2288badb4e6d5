package tui

import (
	"strings"

	"qrscan-go/pkg/models"

	"github.com/charmbracelet/lipgloss"
)

// Define a consistent color palette
var (
	colorPrimary   = lipgloss.Color("62")  // Purple/blue
	colorSecondary = lipgloss.Color("244") // Gray
	colorSuccess   = lipgloss.Color("42")  // Green
	colorError     = lipgloss.Color("196") // Red
	colorWarning   = lipgloss.Color("214") // Orange/Yellow
	colorInfo      = lipgloss.Color("39")  // Cyan
	colorMuted     = lipgloss.Color("240") // Dark gray
	colorBorder    = lipgloss.Color("238") // Border gray
)

// Reusable style definitions
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	boldStyle = lipgloss.NewStyle().Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorInfo)

	// Scan row styles
	scanTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	scanTimeStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			MarginRight(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	selectedMarkerStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	dividerStyle = lipgloss.NewStyle().
			Foreground(colorBorder)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	// Error detail popover
	popoverStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Padding(0, 1).
			Width(48)
)

// statusGlyph returns the webhook indicator shown next to a scan
func statusGlyph(status models.WebhookStatus) string {
	switch status {
	case models.WebhookPending:
		return infoStyle.Render("…")
	case models.WebhookSuccess:
		return successStyle.Render("✓")
	case models.WebhookError:
		return errorStyle.Render("✗")
	default:
		return mutedStyle.Render("–")
	}
}

// statusLabel describes a webhook status in words
func statusLabel(status models.WebhookStatus) string {
	switch status {
	case models.WebhookPending:
		return "Sending webhook..."
	case models.WebhookSuccess:
		return "Webhook sent successfully"
	case models.WebhookError:
		return "Webhook failed - press Enter for details"
	default:
		return "Webhook not configured"
	}
}

func renderTitle(title string) string {
	return "\n" + titleStyle.Render(title) + "\n"
}

func renderSuccess(msg string) string {
	return successStyle.Render("✓ " + msg)
}

func renderError(msg string) string {
	return errorStyle.Render("❌ " + msg)
}

func renderWarning(msg string) string {
	return warningStyle.Render("⚠ " + msg)
}

func renderDivider(length int) string {
	return dividerStyle.Render(strings.Repeat("─", length))
}
