package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateWebhookURL trims and validates a webhook URL. An empty value is
// valid and disables delivery; anything else must be an absolute http(s) URL.
func ValidateWebhookURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid URL: scheme must be http or https")
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid URL: missing host")
	}
	return s, nil
}
