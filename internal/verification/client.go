// Package verification calls the civil-status and employment authorities.
//
// Each call is a single attempt bounded by its own timeout. Any failure
// (transport error, timeout, non-2xx status, malformed or mismatched
// payload) is absorbed: the client logs it and returns the degraded default
// tagged with the failure, so callers never branch on an error.
package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cnr/internal/platform/config"
	"cnr/internal/platform/metrics"
	id "cnr/pkg/domain"
	"cnr/pkg/requestcontext"
)

const maxResponseBytes = 1 << 20

// Option configures a client.
type Option func(*caller)

// WithLogger sets the logger used for degraded-mode warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *caller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records call latency and degraded substitutions.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *caller) {
		c.metrics = m
	}
}

// WithHTTPClient replaces the transport. The per-call timeout is still
// enforced through the request context.
func WithHTTPClient(client *http.Client) Option {
	return func(c *caller) {
		if client != nil {
			c.http = client
		}
	}
}

// caller holds the request plumbing shared by both clients.
type caller struct {
	authority Authority
	baseURL   string
	path      string
	timeout   time.Duration
	http      *http.Client
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func newCaller(authority Authority, path string, cfg config.AuthorityConfig, opts []Option) *caller {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultAuthorityTimeout
	}
	c := &caller{
		authority: authority,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		path:      path,
		timeout:   timeout,
		http:      &http.Client{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs one bounded GET and decodes the JSON body into out.
func (c *caller) get(ctx context.Context, externalID id.ExternalID, out any) *AuthorityError {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + c.path + url.PathEscape(externalID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return newAuthorityError(CategoryContractMismatch, c.authority, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return newAuthorityError(classifyTransport(ctx, err), c.authority, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		failure := newAuthorityError(classifyStatus(resp.StatusCode), c.authority, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
		failure.StatusCode = resp.StatusCode
		return failure
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		// A deadline hit while streaming the body is still a timeout.
		if ctx.Err() != nil {
			return newAuthorityError(classifyTransport(ctx, err), c.authority, "read body", err)
		}
		return newAuthorityError(CategoryBadData, c.authority, "decode body", err)
	}
	return nil
}

func (c *caller) degrade(ctx context.Context, externalID id.ExternalID, failure *AuthorityError, started time.Time) {
	c.metrics.ObserveAuthorityLatency(string(c.authority), string(SourceDegraded), time.Since(started))
	c.metrics.IncrementDegraded(string(c.authority), string(failure.Category))
	c.logger.WarnContext(ctx, "authority unavailable, using degraded default",
		"authority", c.authority,
		"external_id", externalID.String(),
		"category", failure.Category,
		"status_code", failure.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
		"error", failure.Error(),
	)
}

func (c *caller) succeed(started time.Time) {
	c.metrics.ObserveAuthorityLatency(string(c.authority), string(SourceAuthority), time.Since(started))
}

func classifyTransport(ctx context.Context, err error) Category {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return CategoryTimeout
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return CategoryCanceled
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}
	return CategoryOutage
}

func classifyStatus(status int) Category {
	switch {
	case status == http.StatusNotFound:
		return CategoryNotFound
	case status == http.StatusTooManyRequests:
		return CategoryRateLimited
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return CategoryTimeout
	case status >= 500:
		return CategoryOutage
	default:
		return CategoryContractMismatch
	}
}

// checkIdentifier rejects payloads that answer for someone else.
func checkIdentifier(authority Authority, want id.ExternalID, got *string) *AuthorityError {
	if got == nil || *got == "" {
		return newAuthorityError(CategoryBadData, authority, "identifier missing from response", nil)
	}
	if *got != want.String() {
		return newAuthorityError(CategoryBadData, authority, fmt.Sprintf("identifier mismatch: got %q", *got), nil)
	}
	return nil
}
