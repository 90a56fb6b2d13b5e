// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across the pipeline.
package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// GetJSON issues a GET request and decodes the JSON body into v. Failures
// are classified with the shared error taxonomy: connection and timeout
// errors wrap types.ErrTransport, HTTP 404 wraps types.ErrNotFound,
// HTTP 401/403 wraps types.ErrStoreAuth, any other non-2xx status wraps
// types.ErrTransport, and a body that does not decode wraps
// types.ErrProviderFormat. No retry is attempted.
func GetJSON(ctx context.Context, client *http.Client, url string, header http.Header, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", types.ErrTransport, url, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode, url); err != nil {
		io.Copy(io.Discard, resp.Body)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", types.ErrProviderFormat, url, err)
	}
	return nil
}

// DoJSON executes a prepared request and decodes the JSON body into v,
// with the same error classification as GetJSON. Used for the store's
// POST/PATCH calls. A nil v discards the body.
func DoJSON(client *http.Client, req *http.Request, v any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", types.ErrTransport, req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode, req.URL.String()); err != nil {
		io.Copy(io.Discard, resp.Body)
		return err
	}

	if v == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", types.ErrProviderFormat, req.URL, err)
	}
	return nil
}

func classifyStatus(status int, url string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d from %s", types.ErrStoreAuth, status, url)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: HTTP 404 from %s", types.ErrNotFound, url)
	default:
		return fmt.Errorf("%w: HTTP %d from %s", types.ErrTransport, status, url)
	}
}
