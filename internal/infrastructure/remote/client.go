// Package remote talks to the school API: the authentication endpoint and
// the academic resource endpoints.
package remote

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

	"github.com/rs/zerolog"

	"github.com/schoolhub/school-console/internal/core/domain"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 512
)

// Config is shared by AuthClient and ResourceClient.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client, for tests.
	HTTPClient *http.Client
	// Observe, when set, receives the latency of every upstream call.
	Observe func(endpoint string, status int, elapsed time.Duration)
}

// StatusError is an unexpected upstream response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

type transport struct {
	baseURL string
	http    *http.Client
	observe func(string, int, time.Duration)
	log     zerolog.Logger
}

func newTransport(cfg Config, log zerolog.Logger) transport {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return transport{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		observe: cfg.Observe,
		log:     log,
	}
}

// do sends one request. endpoint is the route template used as the metric
// label. Transport failures wrap domain.ErrConnection.
func (t transport) do(ctx context.Context, method, path, endpoint, bearer string, body any) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		t.record(endpoint, 0, start)
		if errors.Is(err, context.Canceled) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %s %s: %v", domain.ErrConnection, method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	t.record(endpoint, resp.StatusCode, start)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %v", domain.ErrConnection, path, err)
	}

	t.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("upstream request")
	return resp, payload, nil
}

func (t transport) record(endpoint string, status int, start time.Time) {
	if t.observe != nil {
		t.observe(endpoint, status, time.Since(start))
	}
}

func statusError(method, path string, code int, body []byte) *StatusError {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return &StatusError{Method: method, Path: path, Code: code, Body: s}
}
