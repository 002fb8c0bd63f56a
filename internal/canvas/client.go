// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package canvas implements a minimal client for the Canvas LMS REST API:
// course-URL parsing, authenticated GETs with rate-limit waits, and
// Link-header pagination over the assignment-submissions endpoint.
package canvas

import (
	"context"
	"io"
	"net/http"

	"github.com/pdiddy/canvas-fetch/internal/httputil"
)

// Client issues authenticated requests against one Canvas instance.
type Client struct {
	// BaseURL is the instance base address with a trailing slash
	// (e.g. "https://canvas.example.com/").
	BaseURL string

	// Token is the Canvas API access token, sent as a Bearer credential.
	Token string

	// UserAgent is sent with every request.
	UserAgent string

	// HTTPClient performs the requests. Tests substitute an httptest client.
	HTTPClient *http.Client
}

// Get issues an authenticated GET against url. Rate-limited responses are
// waited out and reissued; waits are announced on w. The caller owns the
// response body.
func (c *Client) Get(ctx context.Context, url string, w io.Writer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	return httputil.DoWithRetryAfter(ctx, c.HTTPClient, req, w)
}
