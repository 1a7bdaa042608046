// Package apiclient is the JSON transport to the clinic REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/martclinic/kiosk/internal/shared/config"
	apperrors "github.com/martclinic/kiosk/internal/shared/errors"
	"github.com/martclinic/kiosk/internal/shared/metrics"
)

var tracer = otel.Tracer("github.com/martclinic/kiosk/apiclient")

// maxErrorBody caps how much of a failed response is kept for diagnostics
const maxErrorBody = 4 << 10

// Config holds configuration for the API client
type Config struct {
	BaseURL        string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	// RetryAttempts is the number of extra tries after a connection
	// failure. POST is never retried.
	RetryAttempts     int
	RetryDelay        time.Duration
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return ConfigFrom(config.Defaults().API)
}

// ConfigFrom maps the application config section onto the client config
func ConfigFrom(c config.APIConfig) Config {
	return Config{
		BaseURL:           c.BaseURL,
		ConnectTimeout:    c.ConnectTimeout,
		RequestTimeout:    c.RequestTimeout,
		RetryAttempts:     c.RetryAttempts,
		RetryDelay:        c.RetryDelay,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
		UserAgent:         c.UserAgent,
	}
}

// Client sends JSON requests to the clinic API. It is safe for concurrent
// use and is meant to be created once at startup.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	cfg        Config
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a client for cfg.BaseURL
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if logger == nil {
		logger = slog.Default()
	}

	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		base: base,
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		cfg:     cfg,
		limiter: limiter,
		logger:  logger.With(slog.String("component", "apiclient")),
	}, nil
}

// BaseURL returns the normalised API root
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Do sends one request. path is relative to the base URL ("persons/12").
// in, when non-nil, is sent as the JSON body; out, when non-nil, receives
// the decoded 2xx body. An empty or null body leaves out untouched.
//
// Non-2xx responses return an *errors.AppError (404 wraps ErrNotFound).
// Connection failures are retried for GET, PUT and DELETE only.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.resolve(path, query)
	resource := metrics.Resource(path)

	ctx, span := tracer.Start(ctx, "clinicapi "+method+" "+resource,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", c.base.Path+strings.TrimPrefix(path, "/")),
		),
	)
	defer span.End()

	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			span.SetStatus(codes.Error, "encode")
			return apperrors.Transport(fmt.Errorf("encode request: %w", err))
		}
	}

	start := time.Now()
	resp, err := c.send(ctx, method, target, payload)
	if err != nil {
		metrics.RecordAPIRequest(method, resource, metrics.OutcomeTransport, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.logger.DebugContext(ctx, "api request failed",
			slog.String("method", method), slog.String("path", path), slog.Any("error", err))
		return apperrors.Transport(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.DebugContext(ctx, "api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		outcome := metrics.OutcomeError
		if resp.StatusCode == http.StatusNotFound {
			outcome = metrics.OutcomeNotFound
		}
		metrics.RecordAPIRequest(method, resource, outcome, time.Since(start))
		span.SetStatus(codes.Error, resp.Status)
		return apperrors.Status(resp.StatusCode, method, path, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordAPIRequest(method, resource, metrics.OutcomeTransport, time.Since(start))
		span.SetStatus(codes.Error, "read body")
		return apperrors.Transport(fmt.Errorf("read response: %w", err))
	}
	metrics.RecordAPIRequest(method, resource, metrics.OutcomeOK, time.Since(start))

	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		span.SetStatus(codes.Error, "decode")
		return apperrors.Decode(err)
	}
	return nil
}

// send performs the HTTP exchange, retrying connection failures on
// idempotent methods.
func (c *Client) send(ctx context.Context, method, target string, payload []byte) (*http.Response, error) {
	attempts := 1
	if retryable(method) {
		attempts += max(c.cfg.RetryAttempts, 0)
	}
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			metrics.RecordAPIRetry(method)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("X-Request-ID", requestID)
		if c.cfg.UserAgent != "" {
			req.Header.Set("User-Agent", c.cfg.UserAgent)
		}
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, err
			}
			continue
		}
		return resp, nil
	}

	if attempts > 1 {
		return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return nil, lastErr
}

func (c *Client) resolve(path string, query url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func retryable(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodHead:
		return true
	default:
		return false
	}
}
