package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	graphAPIVersion = "v21.0"

	// DefaultGraphAPIBase is the production Meta Graph API endpoint.
	// Overridable per adapter for tests.
	DefaultGraphAPIBase = "https://graph.facebook.com/" + graphAPIVersion
)

const defaultHTTPTimeout = 30 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// graphError is the Meta Graph API error envelope. Graph endpoints report
// failures in the body with a 200-range or error status alike, so the
// envelope is checked on every response.
type graphError struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// doGraphPost sends a JSON POST to a Graph API endpoint and decodes the
// response into out after checking the error envelope.
func doGraphPost(ctx context.Context, client *http.Client, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeGraphResponse(resp.Body, out)
}

// doGraphGet fetches a Graph API endpoint and decodes the response into out.
func doGraphGet(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeGraphResponse(resp.Body, out)
}

func decodeGraphResponse(r io.Reader, out any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var envelope graphError
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("%s", envelope.Error.Message)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
