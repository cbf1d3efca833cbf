package bibleapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://bible-api.com"

// Client fetches passage text from the bible-api.com JSON endpoint.
type Client struct {
	baseURL     string
	translation string
	httpClient  *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL, translation string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL:     strings.TrimRight(base, "/"),
		translation: strings.TrimSpace(translation),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Passage retrieves the text for a reference such as "John 3" or
// "Romans 8:28-30".
func (c *Client) Passage(ctx context.Context, reference string) (string, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return "", fmt.Errorf("reference cannot be empty")
	}
	endpoint := c.baseURL + "/" + url.PathEscape(reference)
	if c.translation != "" {
		endpoint += "?translation=" + url.QueryEscape(c.translation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build passage request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("passage request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("passage request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read passage response: %w", err)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("decode passage response: %w", err)
	}
	if raw.Error != "" {
		return "", fmt.Errorf("passage api error: %s", raw.Error)
	}

	text := strings.TrimSpace(raw.Text)
	if text == "" {
		return "", fmt.Errorf("passage api returned empty text for %q", reference)
	}
	return text, nil
}

type apiResponse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
	Error     string `json:"error"`
}
