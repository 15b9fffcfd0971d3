// Package gateway wraps the commerce platform's HTTP API. Every call is
// bearer-token authenticated; a missing token fails before any network
// traffic happens. Responses are decoded into the payload types in
// types.go and failures are mapped onto the domain error codes.
package gateway

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

	"github.com/mvillagra/storefront-session/pkg/config"
	pkgerrors "github.com/mvillagra/storefront-session/pkg/errors"
	"github.com/mvillagra/storefront-session/pkg/logger"
	"github.com/mvillagra/storefront-session/pkg/metrics"
)

var (
	errBaseURLRequired = errors.New("gateway base url is required")
	errLoggerRequired  = errors.New("gateway logger is required")
)

// Client exposes the commerce platform primitives with centralized auth,
// logging, metrics, and error mapping.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logg       *logger.Logger
	metrics    *metrics.GatewayMetrics
}

// NewClient initializes the platform wrapper and validates the target.
func NewClient(cfg config.GatewayConfig, logg *logger.Logger, m *metrics.GatewayMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parsing gateway base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	transport := http.DefaultTransport
	if cfg.MaxIdleConn > 0 {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.MaxIdleConns = cfg.MaxIdleConn
		t.MaxIdleConnsPerHost = cfg.MaxIdleConn
		transport = t
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
		logg:       logg,
		metrics:    m,
	}, nil
}

// BaseURL reports the configured platform endpoint.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// Ping verifies the platform is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping gateway: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("gateway unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

type errorPayload struct {
	Message string `json:"message"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p errorPayload) message() string {
	if p.Message != "" {
		return p.Message
	}
	return p.Error.Message
}

func (c *Client) do(ctx context.Context, token, operation, method, path string, body, out any) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session token")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log(ctx, "request", operation, map[string]any{"method": method, "path": path})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveDuration(operation, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(operation, string(pkgerrors.CodeDependency))
		c.log(ctx, "error", operation, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("gateway %s failed", operation))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncFailure(operation, string(pkgerrors.CodeDependency))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read gateway %s response", operation))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		code := domainCodeForStatus(resp.StatusCode)
		message := remoteMessage(raw)
		if message == "" {
			message = fmt.Sprintf("gateway %s failed with status %d", operation, resp.StatusCode)
		}
		c.metrics.IncFailure(operation, string(code))
		c.log(ctx, "error", operation, map[string]any{"status": resp.StatusCode, "error": message})
		return pkgerrors.New(code, message)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			c.metrics.IncFailure(operation, string(pkgerrors.CodeDependency))
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode gateway %s response", operation))
		}
	}

	c.metrics.IncSuccess(operation)
	c.log(ctx, "response", operation, map[string]any{"status": resp.StatusCode})
	return nil
}

func remoteMessage(raw []byte) string {
	var payload errorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.message())
}

func (c *Client) log(ctx context.Context, phase, operation string, fields map[string]any) {
	if c == nil || c.logg == nil {
		return
	}
	logFields := map[string]any{
		"operation": operation,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logg.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logg.Error(ctx, fmt.Sprintf("gateway %s", operation), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logg.Info(ctx, fmt.Sprintf("gateway %s", phase))
	}
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return pkgerrors.CodeUnauthorized
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.CodeValidation
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}
