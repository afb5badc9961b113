// Package pipeline forwards raw messages to the upstream classification
// pipeline. The service only proxies; the pipeline's response comes back to
// the caller untouched.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mailward/mailward/internal/config"
)

// AnalyzeRequest carries one message for classification, raw or base64.
type AnalyzeRequest struct {
	MimeRaw string `json:"mime_raw,omitempty"`
	MimeB64 string `json:"mime_b64,omitempty"`
}

// System defines the public contract for pipeline submission.
type System interface {
	Handler() *Handler
	Enabled() bool
	Analyze(ctx context.Context, req AnalyzeRequest) (json.RawMessage, error)
}

type client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a pipeline client. An empty base URL disables submission; the
// handler then answers 503.
func New(cfg config.PipelineConfig, logger *slog.Logger) System {
	return &client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:  logger.With("system", "pipeline"),
	}
}

func (c *client) Handler() *Handler {
	return NewHandler(c, c.logger)
}

func (c *client) Enabled() bool {
	return c.baseURL != ""
}

// Analyze posts the message to the pipeline and returns its raw JSON
// response. Non-2xx upstream answers surface as ErrUpstream.
func (c *client) Analyze(ctx context.Context, req AnalyzeRequest) (json.RawMessage, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if req.MimeRaw == "" && req.MimeB64 == "" {
		return nil, ErrEmptyMessage
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode analyze request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("pipeline rejected message", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: non-JSON response", ErrUpstream)
	}

	return json.RawMessage(body), nil
}
