// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by listing and downloads.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryAfterUnit scales the server-supplied Retry-After value. Production
// uses one second; tests shrink it to avoid real sleeps.
var RetryAfterUnit = time.Second

// DoWithRetryAfter executes an HTTP request and, whenever the response
// carries a Retry-After header, drains and closes the body, waits the
// server-specified number of units, and reissues the identical request.
// The caller's request is never mutated: each attempt clones req with ctx.
// There is no retry ceiling; if the context is cancelled during a wait the
// function returns ctx.Err(). Responses without the header are returned
// as-is, whatever their status, so the caller can inspect them. Waits are
// announced on w.
func DoWithRetryAfter(ctx context.Context, client *http.Client, req *http.Request, w io.Writer) (*http.Response, error) {
	for {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		wait, ok := retryAfter(resp)
		if !ok {
			return resp, nil
		}

		// Drain and close the body before the wait.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		fmt.Fprintf(w, "rate limited, waiting %v before reissuing request\n", wait)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// retryAfter parses the Retry-After header as a delay in units. A missing,
// malformed, or negative value reports false.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return time.Duration(n) * RetryAfterUnit, true
}
