// Package genai is a small client for the Generative Language
// generateContent endpoint.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bhe-24/pustakamateri/internal/app/system/metrics"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash-preview-09-2025"
)

var (
	// ErrNoAPIKey is returned before any network call when no key is set.
	ErrNoAPIKey = errors.New("genai: api key is empty")
	// ErrEmptyResponse means the service answered without any text.
	ErrEmptyResponse = errors.New("genai: response has no text")
)

// Client calls generateContent. There is no retry and no streaming.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewClient builds a client. Empty baseURL and model use the defaults.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c != nil && c.apiKey != "" }

// Model is the model name used in requests.
func (c *Client) Model() string { return c.model }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata,omitempty"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends prompt with an optional system instruction and returns
// the text of the first part of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt, systemInstruction string) (string, error) {
	if !c.Configured() {
		return "", ErrNoAPIKey
	}

	req := generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}
	if systemInstruction != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: systemInstruction}}}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("genai: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("genai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.ObserveGenAIRequest(c.model, start, err)
		return "", fmt.Errorf("genai: do request: %w", redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveGenAIRequest(c.model, start, err)
		return "", fmt.Errorf("genai: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr apiErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			err = fmt.Errorf("genai: %s", apiErr.Error.Message)
		} else {
			err = fmt.Errorf("genai: unexpected status %d", resp.StatusCode)
		}
		metrics.ObserveGenAIRequest(c.model, start, err)
		return "", err
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		metrics.ObserveGenAIRequest(c.model, start, err)
		return "", fmt.Errorf("genai: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 ||
		strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text) == "" {
		metrics.ObserveGenAIRequest(c.model, start, ErrEmptyResponse)
		return "", ErrEmptyResponse
	}

	metrics.ObserveGenAIRequest(c.model, start, nil)
	if u := out.UsageMetadata; u != nil {
		metrics.ObserveGenAITokens(c.model, u.PromptTokenCount, u.CandidatesTokenCount, u.TotalTokenCount)
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// redactKey keeps the API key out of transport errors, which embed the URL.
func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), url.QueryEscape(key), "REDACTED"))
}
