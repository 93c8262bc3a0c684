// Package gemini calls the Generative Language generateContent endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"
)

var (
	// ErrMissingKey is returned when no API key is configured.
	ErrMissingKey = errors.New("gemini: missing API key")
	// ErrNoCandidates is returned when the response has no candidate text.
	ErrNoCandidates = errors.New("gemini: response has no candidate text")
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type candidate struct {
	Content content `json:"content"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

// Client holds the upstream credential. Only the intermediary creates one.
type Client struct {
	BaseURL string
	Model   string
	Key     string
	HTTP    *http.Client
}

// New creates a client. Empty baseURL and model fall back to the defaults.
func New(baseURL, model, key string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Key:     key,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the generateContent URL for the configured model.
func (c *Client) Endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, c.Model)
}

// Generate sends prompt as a single user part and returns the first
// candidate's first text part.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.Key == "" {
		return "", ErrMissingKey
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.Key)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call gemini: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("gemini: unexpected status %d: %s", resp.StatusCode, snippet(data))
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoCandidates
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrNoCandidates
	}
	return text, nil
}

const snippetRunes = 200

// snippet returns at most snippetRunes runes of an error body.
func snippet(data []byte) string {
	r := []rune(strings.TrimSpace(string(data)))
	if len(r) > snippetRunes {
		return string(r[:snippetRunes]) + "..."
	}
	return string(r)
}
