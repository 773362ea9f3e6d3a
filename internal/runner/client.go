// Package runner sends source text to a language's execution endpoint and
// maps the reply to an Outcome.
package runner

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"coderunner/internal/catalog"
	"coderunner/internal/telemetry"
)

// Outcome is the settled result of one run. Err is nil on success.
type Outcome struct {
	Output string
	Err    error
}

func (o Outcome) Succeeded() bool { return o.Err == nil }

// Message is the text shown in the error region for a failed outcome.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	if msg := o.Err.Error(); msg != "" {
		return msg
	}
	return fallbackMessage
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(lg *telemetry.Logger) Option {
	return func(c *Client) {
		c.logger = lg
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(ua)
	}
}

// Client performs one POST per run. It has no retries and no timeout of its
// own; the context is the only way to abandon a request.
type Client struct {
	http      *http.Client
	logger    *telemetry.Logger
	userAgent string
}

func NewClient(opts ...Option) *Client {
	c := &Client{http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Run(ctx context.Context, lang catalog.Language, source string) Outcome {
	if strings.TrimSpace(source) == "" {
		return Outcome{Err: ErrEmptyInput}
	}

	start := time.Now()
	c.logger.Info("runner.request", map[string]any{"lang": lang.ID, "endpoint": lang.Endpoint, "bytes": len(source)})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lang.Endpoint, strings.NewReader(source))
	if err != nil {
		return c.fail(lang, start, &NetworkError{Err: err})
	}
	req.Header.Set("Content-Type", "text/plain")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(lang, start, &NetworkError{Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return c.fail(lang, start, &HTTPStatusError{Code: resp.StatusCode})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(lang, start, &NetworkError{Err: err})
	}
	c.logger.Info("runner.response", map[string]any{
		"lang":        lang.ID,
		"status":      resp.StatusCode,
		"bytes":       len(body),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return Outcome{Output: string(body)}
}

func (c *Client) fail(lang catalog.Language, start time.Time, err error) Outcome {
	c.logger.Error("runner.failed", map[string]any{
		"lang":        lang.ID,
		"error":       err.Error(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return Outcome{Err: err}
}
