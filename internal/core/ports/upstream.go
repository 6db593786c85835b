package ports

import (
	"context"
	"net/url"
)

// UpstreamRequest describes one call to the movie catalog API.
type UpstreamRequest struct {
	// Operation names the call in logs and metrics, e.g. "popular_movies".
	Operation string
	Method    string
	// Path is relative to the configured base URL, e.g. "/movie/popular".
	Path  string
	Query url.Values
	// Body is JSON-encoded when non-nil.
	Body any
	// Authenticated adds the bearer access token headers.
	Authenticated bool
}

// UpstreamResponse is a successful (status < 400) upstream reply.
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}

// UpstreamClient performs upstream calls with the retry policy applied.
type UpstreamClient interface {
	Call(ctx context.Context, req *UpstreamRequest) (*UpstreamResponse, error)
}

// AccountContext identifies the upstream account all account-scoped calls act on.
type AccountContext struct {
	APIKey    string
	AccountID string
}
