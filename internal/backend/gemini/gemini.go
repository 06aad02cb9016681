// Package gemini implements assistant.Completer with the Gemini
// generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash-exp"

// DefaultEndpoint is the v1beta base URL of the Generative Language API.
const DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/"

// Config selects the key, model and optional endpoint.
type Config struct {
	APIKey   string
	Model    string
	Endpoint string
}

// Client is a Gemini text completer.
type Client struct {
	http     *http.Client
	endpoint string
	model    string
}

// New creates a Gemini client. The API key is attached by the Google
// transport; extra options are appended after the ones derived from cfg.
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.New("gemini: api key required")
	}
	all := append([]option.ClientOption{option.WithAPIKey(key)}, opts...)

	hc, _, err := htransport.NewClient(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create transport: %w", err)
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		http:     hc,
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
	}, nil
}

// Model returns the configured model id.
func (c *Client) Model() string { return c.model }

type part struct {
	Text string `json:"text,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

// Complete sends prompt as a single user turn and joins the text parts of
// the first candidate that has any.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: encode request: %w", err)
	}

	u := c.endpoint + "/models/" + url.PathEscape(c.model) + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	for _, cand := range out.Candidates {
		if cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
		if text := b.String(); strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	return "", errors.New("gemini: response has no text")
}
