package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"qrscan-go/pkg/models"

	"github.com/google/uuid"
)

func sessionPath(id uuid.UUID, suffix string) string {
	return fmt.Sprintf("/api/v1/sessions/%s%s", id.String(), suffix)
}

// CreateSession starts a new scanner session
func (c *Client) CreateSession() (*models.SessionView, error) {
	var view models.SessionView
	if _, err := c.doJSONRequest(http.MethodPost, "/api/v1/sessions", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// GetSession retrieves a session snapshot
func (c *Client) GetSession(id uuid.UUID) (*models.SessionView, error) {
	var view models.SessionView
	if err := c.doGetRequest(sessionPath(id, ""), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// DeleteSession closes a session on the server
func (c *Client) DeleteSession(id uuid.UUID) error {
	return c.doDeleteRequest(sessionPath(id, ""))
}

// ListScans retrieves the session's history, newest first
func (c *Client) ListScans(id uuid.UUID) ([]models.ScanRecord, error) {
	var scans []models.ScanRecord
	if err := c.doGetRequest(sessionPath(id, "/scans"), &scans); err != nil {
		return nil, err
	}
	return scans, nil
}

// Submit sends an already-decoded string
func (c *Client) Submit(id uuid.UUID, text string) (*models.ScanResult, error) {
	var result models.ScanResult
	if _, err := c.doJSONRequest(http.MethodPost, sessionPath(id, "/scans"), models.ScanCreate{Text: text}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Upload sends an image to be decoded on the server
func (c *Client) Upload(id uuid.UUID, filename string, image io.Reader) (*models.ScanResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := c.buildRequest(http.MethodPost, sessionPath(id, "/upload"), mw.FormDataContentType(), &body)
	if err != nil {
		return nil, err
	}

	var result models.ScanResult
	if _, err := c.doRequest(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Clear empties the session's history
func (c *Client) Clear(id uuid.UUID) error {
	return c.doDeleteRequest(sessionPath(id, "/scans"))
}

// Reset clears the history and restarts the capture source
func (c *Client) Reset(id uuid.UUID) (*models.SessionView, error) {
	var view models.SessionView
	if _, err := c.doJSONRequest(http.MethodPost, sessionPath(id, "/reset"), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// SetWebhook changes the delivery URL; an empty URL disables delivery
func (c *Client) SetWebhook(id uuid.UUID, url string) error {
	_, err := c.doJSONRequest(http.MethodPut, sessionPath(id, "/webhook"), models.WebhookUpdate{URL: url}, nil)
	return err
}

// SetDevices reports the raw capture-device listing
func (c *Client) SetDevices(id uuid.UUID, listing []models.MediaDevice) ([]models.Device, error) {
	var devices []models.Device
	if _, err := c.doJSONRequest(http.MethodPut, sessionPath(id, "/devices"), listing, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// SelectDevice switches live decoding to deviceID
func (c *Client) SelectDevice(id uuid.UUID, deviceID string) error {
	_, err := c.doJSONRequest(http.MethodPut, sessionPath(id, "/devices/selected"), models.DeviceSelect{DeviceID: deviceID}, nil)
	return err
}
