package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"qrscan-go/pkg/cli/client"
	"qrscan-go/pkg/cli/logger"
	"qrscan-go/pkg/models"

	"github.com/google/uuid"
)

// NewSession creates a session on the server and remembers it in the config
func (a *App) NewSession() (*models.SessionView, error) {
	apiClient, err := a.getClient()
	if err != nil {
		return nil, err
	}

	view, err := apiClient.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	logger.Log("created session %s", view.ID)

	previous := a.cfg.CLI.SessionID
	a.cfg.CLI.SessionID = view.ID.String()
	a.sessionOverride = ""
	if err := a.save(a.cfg); err != nil {
		return nil, fmt.Errorf("failed to save session id: %w", err)
	}
	a.retireSession(apiClient, previous)

	fmt.Fprintf(a.out, "✓ Session created: %s\n", view.ID)
	if view.WebhookURL != "" {
		fmt.Fprintf(a.out, "  Webhook: %s\n", view.WebhookURL)
	}
	return view, nil
}

// retireSession deletes a session the config no longer points at. A session
// that is already gone is fine; other failures are only logged.
func (a *App) retireSession(apiClient *client.Client, previous string) {
	id, err := uuid.Parse(previous)
	if err != nil {
		return
	}

	err = apiClient.DeleteSession(id)
	var apiErr *client.APIError
	switch {
	case err == nil:
		logger.Log("deleted previous session %s", id)
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
	default:
		logger.Log("failed to delete previous session %s: %v", id, err)
	}
}

// ShowSession prints the session's settings and history
func (a *App) ShowSession() error {
	apiClient, id, err := a.withSession()
	if err != nil {
		return err
	}

	view, err := apiClient.GetSession(id)
	if err != nil {
		return fmt.Errorf("failed to fetch session: %w", err)
	}

	fmt.Fprint(a.out, FormatSession(view))
	return nil
}

// DeleteSession closes the session on the server and forgets it
func (a *App) DeleteSession() error {
	apiClient, id, err := a.withSession()
	if err != nil {
		return err
	}

	if err := apiClient.DeleteSession(id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if a.cfg.CLI.SessionID == id.String() {
		a.cfg.CLI.SessionID = ""
		if err := a.save(a.cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	fmt.Fprintf(a.out, "✓ Session %s deleted\n", id)
	return nil
}

// Scan submits an already-decoded value
func (a *App) Scan(text string) error {
	apiClient, id, err := a.withSession()
	if err != nil {
		return err
	}

	result, err := apiClient.Submit(id, text)
	if err != nil {
		return fmt.Errorf("failed to submit scan: %w", err)
	}

	fmt.Fprint(a.out, FormatScanResult(result))
	return nil
}

// Upload sends an image file to be decoded on the server
func (a *App) Upload(path string) error {
	apiClient, id, err := a.withSession()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	result, err := apiClient.Upload(id, filepath.Base(path), f)
	if err != nil {
		return err
	}

	fmt.Fprint(a.out, FormatScanResult(result))
	return nil
}

// History prints the scan history
func (a *App) History() error {
	apiClient, id, err := a.withSession()
	if err != nil {
		return err
	}

	scans, err := apiClient.ListScans(id)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	fmt.Fprint(a.out, FormatHistory(scans))
	return nil
}

// Clear empties the scan history
func (a *App) Clear() error {
	apiClient, id, err := a.withSession()
	if err != nil {
		return err
	}

	if err := apiClient.Clear(id); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Fprintln(a.out, "✓ History cleared")
	return nil
}

// Reset clears the history and restarts the capture source
func (a *App) Reset() error {
	apiClient, id, err := a.withSession()
	if err != nil {
		return err
	}

	if _, err := apiClient.Reset(id); err != nil {
		return fmt.Errorf("failed to reset scanner: %w", err)
	}

	fmt.Fprintln(a.out, "✓ Scanner reset")
	return nil
}

// SetWebhook changes the webhook URL; an empty URL disables delivery
func (a *App) SetWebhook(url string) error {
	apiClient, id, err := a.withSession()
	if err != nil {
		return err
	}

	if err := apiClient.SetWebhook(id, url); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	if url == "" {
		fmt.Fprintln(a.out, "✓ Webhook disabled")
		return nil
	}
	fmt.Fprintf(a.out, "✓ Webhook set to %s (applies to new scans)\n", url)
	return nil
}

// ShowWebhook prints the current webhook URL
func (a *App) ShowWebhook() error {
	apiClient, id, err := a.withSession()
	if err != nil {
		return err
	}

	view, err := apiClient.GetSession(id)
	if err != nil {
		return fmt.Errorf("failed to fetch session: %w", err)
	}

	if view.WebhookURL == "" {
		fmt.Fprintln(a.out, "Webhook: disabled")
		return nil
	}
	fmt.Fprintf(a.out, "Webhook: %s\n", view.WebhookURL)
	return nil
}

// ListDevices prints the capture devices the session knows about
func (a *App) ListDevices() error {
	apiClient, id, err := a.withSession()
	if err != nil {
		return err
	}

	view, err := apiClient.GetSession(id)
	if err != nil {
		return fmt.Errorf("failed to fetch session: %w", err)
	}

	fmt.Fprint(a.out, FormatDevices(view.Devices, view.SelectedDevice))
	return nil
}

// SelectDevice switches live decoding to another camera
func (a *App) SelectDevice(deviceID string) error {
	apiClient, id, err := a.withSession()
	if err != nil {
		return err
	}

	if err := apiClient.SelectDevice(id, deviceID); err != nil {
		return fmt.Errorf("failed to select device: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Camera %s selected\n", deviceID)
	return nil
}
