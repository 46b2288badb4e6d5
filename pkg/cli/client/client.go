package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is an HTTP client for the scan intake API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client. A zero timeout uses 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	// Remove trailing slash from base URL
	baseURL = strings.TrimSuffix(baseURL, "/")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// buildRequest creates an HTTP request with proper headers
func (c *Client) buildRequest(method, path, contentType string, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s%s", c.baseURL, path)

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// doRequest performs an HTTP request and handles the response. It returns
// the status code so callers can tell 200 from 201 and 204.
func (c *Client) doRequest(req *http.Request, result interface{}) (int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	// Check for HTTP errors
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorResp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error != "" {
			return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: errorResp.Error}
		}
		// If JSON parsing failed, return the raw body
		errorMsg := string(body)
		if errorMsg == "" {
			errorMsg = resp.Status
		}
		return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: errorMsg}
	}

	// Parse JSON response if result is provided
	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// doJSONRequest performs a JSON request (POST, PUT, DELETE)
func (c *Client) doJSONRequest(method, path string, payload interface{}, result interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := c.buildRequest(method, path, "application/json", body)
	if err != nil {
		return 0, err
	}

	return c.doRequest(req, result)
}

// doGetRequest performs a GET request
func (c *Client) doGetRequest(path string, result interface{}) error {
	req, err := c.buildRequest(http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}

	_, err = c.doRequest(req, result)
	return err
}

// doDeleteRequest performs a DELETE request
func (c *Client) doDeleteRequest(path string) error {
	req, err := c.buildRequest(http.MethodDelete, path, "", nil)
	if err != nil {
		return err
	}

	_, err = c.doRequest(req, nil)
	return err
}
