// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error taxonomy for the pipeline. Callers classify failures with
// errors.Is; the concrete message carries the operation and the faulting
// provider or store.
var (
	// ErrTransport marks a network or timeout failure.
	ErrTransport = errors.New("transport failure")

	// ErrProviderFormat marks an unexpected or missing JSON shape in a
	// provider response.
	ErrProviderFormat = errors.New("unexpected provider response")

	// ErrNotFound marks a valid call that matched no entity.
	ErrNotFound = errors.New("not found")

	// ErrStoreAuth marks rejected store credentials. Always surfaced to
	// the caller, never swallowed.
	ErrStoreAuth = errors.New("store rejected credentials")

	// ErrValidation marks caller-supplied data violating a schema
	// invariant, such as a missing title.
	ErrValidation = errors.New("invalid record")
)
