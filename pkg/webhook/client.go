package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single delivery attempt
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response body is kept
const maxErrorBody = 4096

// truncatedMarker ends an error body that was cut at maxErrorBody
const truncatedMarker = "... (truncated)"

// Client posts decoded QR payloads to a webhook URL. Each call is exactly one
// request; there are no retries.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a delivery client. A non-positive timeout uses
// DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// Timeout returns the per-delivery bound
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Deliver posts text and its capture time to target. Failures are always
// returned as *DeliveryError.
func (c *Client) Deliver(ctx context.Context, target, text string, capturedAt time.Time) error {
	u, err := url.Parse(target)
	if err != nil {
		return newInvalidURLError(target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return newInvalidURLError(fmt.Sprintf("unsupported scheme %q", u.Scheme), nil)
	}

	jsonData, err := json.Marshal(NewPayload(text, capturedAt))
	if err != nil {
		return newNetworkError(fmt.Errorf("failed to marshal payload: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(jsonData))
	if err != nil {
		return newInvalidURLError(target, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody+1))
		if err != nil {
			return c.classify(ctx, err)
		}
		if len(body) > maxErrorBody {
			body = append(body[:maxErrorBody], truncatedMarker...)
		}
		return newHTTPStatusError(resp.StatusCode, string(body))
	}

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return nil
}

func (c *Client) classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return newTimeoutError(c.timeout, err)
	case errors.Is(ctx.Err(), context.Canceled):
		return newCancelledError(err)
	default:
		return newNetworkError(err)
	}
}

// UserMessage extracts the display text for a delivery failure
func UserMessage(err error) string {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.UserMessage()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
