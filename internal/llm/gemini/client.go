package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"service-advisor/internal/llm"
	"service-advisor/internal/shared/metrics"
	"service-advisor/internal/shared/telemetry"
	"service-advisor/internal/shared/util"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 60 * time.Second
	maxBodyBytes   = 10 << 20
)

// Client implements llm.Client against the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new Gemini client. A non-positive timeout uses the default.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required: %w", llm.ErrNotConfigured)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL_NAME is required: %w", llm.ErrNotConfigured)
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		model:   strings.TrimSpace(model),
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Endpoint returns the generateContent URL for the configured model. The
// credential travels in a header, so the URL is safe to log.
func (c *Client) Endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

// Generate sends prompt as a single user turn. It never retries.
func (c *Client) Generate(ctx context.Context, prompt string) (llm.RawResponse, error) {
	payload, err := json.Marshal(generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return llm.RawResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(payload))
	if err != nil {
		return llm.RawResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncUpstreamTransportError()
		return llm.RawResponse{}, &llm.TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	metrics.ObserveUpstreamDurationMs(float64(elapsed.Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncUpstreamTransportError()
		return llm.RawResponse{}, &llm.TransportError{Op: "read body", Err: err}
	}

	telemetry.Info("llm.response", map[string]any{
		"model":       c.model,
		"prompt_hash": util.HashText(prompt),
		"status":      resp.StatusCode,
		"bytes":       len(body),
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	})

	return llm.RawResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

var _ llm.Client = (*Client)(nil)
