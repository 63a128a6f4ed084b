// Package client is a typed HTTP client for the lab API.
package client

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

	"github.com/letsconfuse/manualQaLabs/pkg/api"
	"github.com/letsconfuse/manualQaLabs/pkg/env"
	"github.com/letsconfuse/manualQaLabs/pkg/logging"
	"github.com/letsconfuse/manualQaLabs/pkg/monitor"
	"github.com/letsconfuse/manualQaLabs/pkg/progress"
	"github.com/letsconfuse/manualQaLabs/pkg/report"
	"github.com/letsconfuse/manualQaLabs/pkg/runner"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// ClientOption configures an APIClient via functional options.
type ClientOption func(*APIClient)

// APIClient calls the lab API. Defaults let callers use
// NewAPIClient(url) with zero options.
type APIClient struct {
	baseURL    string
	token      string
	logger     logging.Logger
	httpClient *http.Client
}

// NewAPIClient creates an API client targeting the given base URL.
func NewAPIClient(baseURL string, opts ...ClientOption) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logging.NullLogger{},
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithToken sends token as a bearer token on every request.
func WithToken(token string) ClientOption {
	return func(c *APIClient) { c.token = token }
}

// WithTimeout overrides the default HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *APIClient) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *APIClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger logs each request at debug level with secrets
// redacted.
func WithLogger(logger logging.Logger) ClientOption {
	return func(c *APIClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// BaseURL returns the API base URL.
func (c *APIClient) BaseURL() string { return c.baseURL }

// Health calls /health.
func (c *APIClient) Health(ctx context.Context) (api.HealthResponse, error) {
	var out api.HealthResponse
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

// Scenarios lists the catalog, optionally filtered by type.
func (c *APIClient) Scenarios(
	ctx context.Context, t scenario.Type,
) ([]api.ScenarioSummary, error) {
	path := "/api/v1/scenarios"
	if t != "" {
		path += "?type=" + url.QueryEscape(string(t))
	}
	var out []api.ScenarioSummary
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// Checklist returns a scenario's learner checklist.
func (c *APIClient) Checklist(
	ctx context.Context, id scenario.ID,
) (*report.Checklist, error) {
	var out report.Checklist
	if err := c.do(ctx, http.MethodGet, scenarioPath(id, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Progress returns a scenario's progress.
func (c *APIClient) Progress(
	ctx context.Context, id scenario.ID,
) (progress.Snapshot, error) {
	var out progress.Snapshot
	err := c.do(ctx, http.MethodGet, scenarioPath(id, "/progress"), nil, &out)
	return out, err
}

// Reset clears a scenario's progress.
func (c *APIClient) Reset(
	ctx context.Context, id scenario.ID,
) (progress.Snapshot, error) {
	var out progress.Snapshot
	err := c.do(ctx, http.MethodDelete, scenarioPath(id, "/progress"), nil, &out)
	return out, err
}

// Open starts a session.
func (c *APIClient) Open(
	ctx context.Context, id scenario.ID,
) (runner.SessionInfo, error) {
	var out runner.SessionInfo
	err := c.do(ctx, http.MethodPost, scenarioPath(id, "/sessions"), nil, &out)
	return out, err
}

// Evaluate runs one action against a throwaway detector.
func (c *APIClient) Evaluate(
	ctx context.Context, id scenario.ID, a scenario.Action,
) (*runner.Outcome, error) {
	var out runner.Outcome
	if err := c.do(ctx, http.MethodPost, scenarioPath(id, "/evaluate"), a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submit runs one action in a session.
func (c *APIClient) Submit(
	ctx context.Context, sessionID string, a scenario.Action,
) (*runner.Outcome, error) {
	var out runner.Outcome
	if err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/actions"), a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Session returns a live session.
func (c *APIClient) Session(
	ctx context.Context, sessionID string,
) (runner.SessionInfo, error) {
	var out runner.SessionInfo
	err := c.do(ctx, http.MethodGet, sessionPath(sessionID, ""), nil, &out)
	return out, err
}

// Sessions lists live sessions.
func (c *APIClient) Sessions(ctx context.Context) ([]runner.SessionInfo, error) {
	var out []runner.SessionInfo
	err := c.do(ctx, http.MethodGet, "/api/v1/sessions", nil, &out)
	return out, err
}

// Close ends a session.
func (c *APIClient) Close(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, sessionPath(sessionID, ""), nil, nil)
}

// Summary returns the master summary across scenarios.
func (c *APIClient) Summary(ctx context.Context) (*report.MasterSummary, error) {
	var out report.MasterSummary
	if err := c.do(ctx, http.MethodGet, "/api/v1/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dashboard returns the live dashboard.
func (c *APIClient) Dashboard(ctx context.Context) (monitor.DashboardView, error) {
	var out monitor.DashboardView
	err := c.do(ctx, http.MethodGet, "/api/v1/dashboard", nil, &out)
	return out, err
}

func scenarioPath(id scenario.ID, suffix string) string {
	return "/api/v1/scenarios/" + url.PathEscape(string(id)) + suffix
}

func sessionPath(id, suffix string) string {
	return "/api/v1/sessions/" + url.PathEscape(id) + suffix
}

// do sends body as JSON and decodes a 2xx response into out. out
// may be nil for empty responses.
func (c *APIClient) do(
	ctx context.Context, method, path string, body, out any,
) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.logRequest(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		var er api.ErrorResponse
		if json.Unmarshal(data, &er) == nil && er.Error != "" {
			msg = er.Error
		}
		return &StatusError{Code: resp.StatusCode, Message: msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *APIClient) logRequest(req *http.Request) {
	fields := []logging.Field{
		logging.StringField("method", req.Method),
		logging.StringField("url", env.RedactURL(req.URL.String())),
	}
	for k, v := range env.RedactHeaders(req.Header) {
		fields = append(fields, logging.StringField("header."+strings.ToLower(k), v))
	}
	c.logger.Debug("api request", fields...)
}
