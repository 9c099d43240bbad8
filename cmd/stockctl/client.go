package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type stockClient struct {
	baseURL string
	station string
	user    string
	role    string
	http    *http.Client
}

func newClient() *stockClient {
	return &stockClient{
		baseURL: serverURL,
		station: resolvedStation(),
		user:    asUser,
		role:    asRole,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do builds a request with the identity and station headers, executes it and
// decodes a JSON response into v (when v is non-nil).
func (c *stockClient) do(method, path string, body any, v any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.station != "" {
		req.Header.Set("X-Station", c.station)
	}
	if c.user != "" {
		req.Header.Set("X-Remote-User", c.user)
	}
	if c.role != "" {
		req.Header.Set("X-Remote-Role", c.role)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	if v != nil {
		return json.NewDecoder(resp.Body).Decode(v)
	}
	return nil
}

func (c *stockClient) getJSON(path string, v any) error {
	return c.do(http.MethodGet, path, nil, v)
}

func (c *stockClient) postJSON(path string, body, v any) error {
	return c.do(http.MethodPost, path, body, v)
}

func (c *stockClient) delete(path string) error {
	return c.do(http.MethodDelete, path, nil, nil)
}

// getText fetches a plain-text endpoint such as the health probes.
func (c *stockClient) getText(path string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("request creation failed: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}
	return string(bytes.TrimSpace(respBody)), nil
}
