// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assets verifies that referenced image URLs actually resolve.
package assets

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

// ProbeTimeout bounds each individual HEAD request. A slow candidate is
// skipped, not retried.
var ProbeTimeout = 2 * time.Second

// PlaceholderCutoff is the minimum Content-Length, in bytes, that
// distinguishes a real cover from the placeholder stub some providers
// return for missing images.
const PlaceholderCutoff = 1000

// Prober checks candidate image URLs with bounded HEAD requests.
type Prober struct {
	Client *http.Client

	// UserAgent is sent with each probe when non-empty.
	UserAgent string

	// MinBytes rejects candidates whose declared Content-Length is at or
	// below this value. Zero disables the size check; providers known to
	// serve placeholder stubs set it to PlaceholderCutoff.
	MinBytes int64
}

// ResolveCover probes candidates in order and returns the first URL that
// resolves, or "" when none do. Candidates are ordered primary-first by
// the caller; a timeout or network error on one candidate simply advances
// to the next. A "" result means "no cover", never an error.
func (p *Prober) ResolveCover(ctx context.Context, candidates []string) string {
	for _, url := range candidates {
		if url == "" {
			continue
		}
		if p.Exists(ctx, url) {
			return url
		}
	}
	return ""
}

// Exists reports whether a single URL resolves to a real asset.
func (p *Prober) Exists(ctx context.Context, url string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}
	if p.MinBytes > 0 {
		length, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
		if err != nil || length <= p.MinBytes {
			return false
		}
	}
	return true
}
