// Package forge is the client side of prompt generation: it sends node labels
// to the intermediary and tracks what the result surface shows.
package forge

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

// Display texts
const (
	Fallback           = "Forge Error. Check API Key."
	Pending            = "Consulting Gemini..."
	DefaultInstruction = "Create a professional prompt from:"
)

// ErrUpstream is returned when the intermediary could not produce a result.
var ErrUpstream = errors.New("forge: generation failed")

// Request is the body of POST /api/forge.
type Request struct {
	Instruction string `json:"prompt_instruction"`
	Payload     string `json:"payload"`
}

// Response is the body returned by POST /api/forge.
type Response struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Generator turns a label payload into a refined prompt.
type Generator interface {
	Generate(ctx context.Context, payload string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, payload string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, payload string) (string, error) {
	return f(ctx, payload)
}

// Client calls the generation intermediary over HTTP. It never holds the
// upstream credential.
type Client struct {
	BaseURL     string
	Instruction string
	HTTP        *http.Client
}

// NewClient creates a client for the intermediary at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Instruction: DefaultInstruction,
		HTTP:        &http.Client{Timeout: timeout},
	}
}

// Generate posts payload and returns the generated text.
func (c *Client) Generate(ctx context.Context, payload string) (string, error) {
	body, err := json.Marshal(Request{Instruction: c.Instruction, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/forge", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach intermediary: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%w: status %d, undecodable body: %v", ErrUpstream, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, out.Error)
	}
	if out.Text == "" {
		return "", fmt.Errorf("%w: empty text", ErrUpstream)
	}
	return out.Text, nil
}
