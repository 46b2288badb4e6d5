package tui

import (
	"fmt"
	"strings"
)

// HelpItem represents a single keyboard shortcut and its description
type HelpItem struct {
	Key         string
	Description string
}

// RootMenuHelpContent returns help for root menu
func RootMenuHelpContent() string {
	items := []HelpItem{
		{"1-3", "Select menu option"},
		{"q / Esc", "Quit"},
	}
	return renderHelpItems(items)
}

// HistoryHelpContent returns help for the scan history view
func HistoryHelpContent() string {
	items := []HelpItem{
		{"↑ / ↓ / j / k", "Navigate scans"},
		{"Enter", "Show webhook error details"},
		{"Esc", "Close error details"},
		{"c", "Clear history"},
		{"r", "Reset scanner (clear history and restart camera)"},
		{"g", "Refresh now"},
		{"m", "Return to menu"},
		{"q", "Quit"},
		{"?", "Show this help"},
	}
	return renderHelpItems(items)
}

// renderHelpItems formats help items into a readable string
func renderHelpItems(items []HelpItem) string {
	var b strings.Builder
	for _, item := range items {
		keyStyle := boldStyle.Foreground(colorPrimary)
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			keyStyle.Render(item.Key),
			item.Description))
	}
	return b.String()
}
