// Package tmdb is the upstream client for The Movie Database API.
package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/ports"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultTimeout  = 10 * time.Second
	contentTypeJSON = "application/json;charset=utf-8"

	// DefaultMaxResponseBytes caps a single upstream body; bodies are cached whole.
	DefaultMaxResponseBytes = 8 << 20
)

// Client calls the TMDB API and applies the retry policy to every call.
type Client struct {
	apiKey      string
	accessToken string
	baseURL     string
	httpClient  *http.Client
	retry       RetryPolicy
	limiter     *rate.Limiter
	maxBody     int64
	logger      *logrus.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// WithRateLimit throttles outgoing attempts to rps with the given burst. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMaxResponseBytes caps the upstream body size. n <= 0 keeps the default.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithLogger sets the operational logger.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey, accessToken string, opts ...Option) *Client {
	c := &Client{
		apiKey:      apiKey,
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		httpClient:  NewHTTPClient(defaultTimeout),
		retry:       DefaultRetryPolicy(),
		maxBody:     DefaultMaxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.Logger == nil {
		c.retry.Logger = c.logger
	}
	return c
}

// NewHTTPClient returns an HTTP client whose dial, TLS and header timeouts are bounded by timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// Call performs req with the retry policy applied. Transport failures are retried;
// a reply with status >= 400 is returned at once as *HTTPStatusError.
func (c *Client) Call(ctx context.Context, req *ports.UpstreamRequest) (*ports.UpstreamResponse, error) {
	op := req.Operation
	if op == "" {
		op = req.Method + " " + req.Path
	}
	start := time.Now()

	var resp *ports.UpstreamResponse
	err := c.retry.Do(ctx, op, func(ctx context.Context) error {
		r, err := c.do(ctx, req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})

	upstreamRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	upstreamRequestsTotal.WithLabelValues(op, outcomeOf(err)).Inc()
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// do performs a single attempt.
func (c *Client) do(ctx context.Context, req *ports.UpstreamRequest) (*ports.UpstreamResponse, error) {
	op := req.Operation
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Op: op + ": throttle", Err: err}
		}
	}

	endpoint, err := c.buildURL(req)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", contentTypeJSON)
	}
	if req.Authenticated {
		httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
		httpReq.Header.Set("Content-Type", contentTypeJSON)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "execute request", Err: err}
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(httpResp.Body, c.maxBody+1))
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}
	if int64(len(payload)) > c.maxBody {
		return nil, fmt.Errorf("%w: status %d, limit %d bytes", ErrResponseTooLarge, httpResp.StatusCode, c.maxBody)
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		return nil, &HTTPStatusError{Status: httpResp.StatusCode, Body: payload}
	}
	return &ports.UpstreamResponse{StatusCode: httpResp.StatusCode, Body: payload}, nil
}

func (c *Client) buildURL(req *ports.UpstreamRequest) (string, error) {
	u, err := url.Parse(c.baseURL + req.Path)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, vs := range req.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if !req.Authenticated && c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
