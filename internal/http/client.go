// Package http is the Responsys transport: it sends one logical request,
// retries a single 429 after a fixed pause and normalizes transport failures
// into responsys.ClientError values.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/responsys-client/internal/constants"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request is one logical request. URL is absolute; Form takes precedence
// over Body when both are set.
type Request struct {
	Method  string
	URL     string
	Query   url.Values
	Headers map[string]string
	Body    interface{}
	Form    url.Values
}

// Response is the fully read response of the last physical attempt.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	// Attempts is the number of physical requests sent, 2 after a 429 retry.
	Attempts int
}

// Client sends requests to Responsys.
type Client struct {
	client        *retryablehttp.Client
	logger        Logger
	debug         bool
	userAgent     string
	timeout       time.Duration
	rateLimitWait time.Duration
	limiter       *rate.Limiter
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRateLimitWait sets the pause before retrying a 429.
func WithRateLimitWait(wait time.Duration) Option {
	return func(c *Client) {
		if wait > 0 {
			c.rateLimitWait = wait
		}
	}
}

// WithRequestsPerSecond paces outgoing requests. Zero disables pacing.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewClient creates a new transport.
func NewClient(opts ...Option) *Client {
	c := &Client{
		logger:        noopLogger{},
		userAgent:     "responsys-client/1.0",
		timeout:       constants.DefaultHTTPTimeout,
		rateLimitWait: constants.RateLimitWait,
	}

	for _, opt := range opts {
		opt(c)
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = c.timeout
	rc.RetryMax = 1
	rc.RetryWaitMin = c.rateLimitWait
	rc.RetryWaitMax = c.rateLimitWait
	rc.CheckRetry = RateLimitRetryPolicy
	rc.Backoff = c.rateLimitBackoff
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.RequestLogHook = countAttempts

	if c.limiter != nil {
		rc.HTTPClient.Transport = &pacedTransport{next: rc.HTTPClient.Transport, limiter: c.limiter}
	}

	if c.debug {
		rc.Logger = &leveledLogger{logger: c.logger}
	} else {
		rc.Logger = nil
	}

	c.client = rc

	return c
}

// RateLimitRetryPolicy retries a response only when it is a 429. Transport
// errors are never retried.
func RateLimitRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return false, nil
	}

	return resp.StatusCode == http.StatusTooManyRequests, nil
}

func (c *Client) rateLimitBackoff(_, _ time.Duration, attemptNum int, resp *http.Response) time.Duration {
	fields := map[string]interface{}{
		"wait":    c.rateLimitWait.String(),
		"attempt": attemptNum,
	}
	if resp != nil && resp.Request != nil {
		fields["method"] = resp.Request.Method
		fields["url"] = resp.Request.URL.String()
	}

	c.logger.Warn("Rate limited by Responsys, waiting before retry", fields)

	return c.rateLimitWait
}

type attemptsKey struct{}

func countAttempts(_ retryablehttp.Logger, req *http.Request, _ int) {
	if counter, ok := req.Context().Value(attemptsKey{}).(*int); ok {
		*counter++
	}
}

// pacedTransport waits for the limiter before every physical request,
// including the 429 retry.
type pacedTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *pacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	err := t.limiter.Wait(req.Context())
	if err != nil {
		return nil, fmt.Errorf("waiting for request pacing: %w", err)
	}

	return t.next.RoundTrip(req)
}

// Do sends the request, retrying once on 429.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL, err := withQuery(req.URL, req.Query)
	if err != nil {
		return nil, responsys.NewTransportError(req.Method, req.URL, err)
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	attempts := 0
	ctx = context.WithValue(ctx, attemptsKey{}, &attempts)

	var rawBody interface{}
	if len(body) > 0 {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, responsys.NewTransportError(req.Method, fullURL, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	c.logRequest(req.Method, fullURL, body)

	start := time.Now()

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}

		return nil, c.classify(req.Method, fullURL, err)
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classify(req.Method, fullURL, err)
	}

	if attempts == 0 {
		attempts = 1
	}

	c.logResponse(req.Method, fullURL, resp.StatusCode, attempts, time.Since(start), respBody)

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
		Attempts:   attempts,
	}, nil
}

func (c *Client) classify(method, fullURL string, err error) error {
	if isTimeout(err) {
		c.logger.Error("Request to Responsys timed out", map[string]interface{}{
			"method": method,
			"url":    fullURL,
		})

		return responsys.NewTimeoutError(method, fullURL, err)
	}

	c.logger.Error("Request to Responsys failed", map[string]interface{}{
		"method": method,
		"url":    fullURL,
		"error":  err.Error(),
	})

	return responsys.NewTransportError(method, fullURL, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

func encodeBody(req *Request) ([]byte, string, error) {
	if req.Form != nil {
		return []byte(req.Form.Encode()), "application/x-www-form-urlencoded", nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", err
	}

	return data, "application/json", nil
}

func withQuery(rawURL string, query url.Values) (string, error) {
	if len(query) == 0 {
		return rawURL, nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	merged := parsed.Query()
	for key, values := range query {
		for _, value := range values {
			merged.Add(key, value)
		}
	}

	parsed.RawQuery = merged.Encode()

	return parsed.String(), nil
}

// ResolveURL resolves an absolute API path against a base URL, keeping the
// base's scheme and host.
func ResolveURL(base, path string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", base, err)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parsing path %q: %w", path, err)
	}

	return baseURL.ResolveReference(ref).String(), nil
}

func (c *Client) logRequest(method, fullURL string, body []byte) {
	if !c.debug {
		return
	}

	fields := map[string]interface{}{
		"method": method,
		"url":    fullURL,
	}
	if len(body) > 0 && !bytes.Contains(body, []byte("password=")) {
		fields["body"] = string(body)
	}

	c.logger.Debug("HTTP Request", fields)
}

func (c *Client) logResponse(method, fullURL string, status, attempts int, elapsed time.Duration, body []byte) {
	if !c.debug {
		return
	}

	fields := map[string]interface{}{
		"method":   method,
		"url":      fullURL,
		"status":   status,
		"attempts": attempts,
		"duration": elapsed.String(),
	}
	if len(body) > 0 && !strings.Contains(string(body), "authToken") {
		fields["body"] = string(body)
	}

	c.logger.Debug("HTTP Response", fields)
}

// leveledLogger bridges retryablehttp's key/value logging onto Logger.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}

type noopLogger struct{}

func (noopLogger) Debug(string, map[string]interface{}) {}
func (noopLogger) Info(string, map[string]interface{})  {}
func (noopLogger) Warn(string, map[string]interface{})  {}
func (noopLogger) Error(string, map[string]interface{}) {}
