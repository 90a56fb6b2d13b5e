// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the collection-manager
// pipeline: catalog queries, search candidates, normalized records, and the
// typed-property shapes of the remote store.
package types

import "strings"

// MediaKind identifies the collection type a record belongs to. All
// downstream behavior switches on this enum, never on capability probing.
type MediaKind string

const (
	MediaGame  MediaKind = "game"
	MediaAnime MediaKind = "anime"
	MediaBook  MediaKind = "book"
	MediaVinyl MediaKind = "vinyl"
)

// QueryKind selects how a provider interprets the query text.
type QueryKind string

const (
	QueryAny      QueryKind = "any"
	QueryTitle    QueryKind = "title"
	QueryAuthor   QueryKind = "author"
	QueryISBN     QueryKind = "isbn"
	QueryLabel    QueryKind = "label"
	QueryCombined QueryKind = "combined"
)

// CatalogQuery holds the parameters for one provider search call.
// Constructed per call and never mutated afterwards.
type CatalogQuery struct {
	Text string
	Kind QueryKind

	// Locale is the preferred language for results ("pol" for Open
	// Library, "pl" for Google Books). Empty means no preference.
	Locale string
}

// IsEmpty reports whether the query contains no searchable text.
func (q CatalogQuery) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == ""
}

// CandidateSummary is a lightweight search hit awaiting user selection.
// It exists only for the duration of a selection prompt.
type CandidateSummary struct {
	ProviderID   string
	DisplayTitle string
	Year         int
	HasCover     bool
}

// ScalarKind tags the value held by a Scalar.
type ScalarKind int

const (
	ScalarText ScalarKind = iota
	ScalarNumber
	ScalarList
)

// Scalar is a tagged value carried in NormalizedItem.Extra: free text, a
// number, or a list of names.
type Scalar struct {
	Kind   ScalarKind
	Text   string
	Number float64
	List   []string
}

// TextScalar wraps a string value.
func TextScalar(s string) Scalar { return Scalar{Kind: ScalarText, Text: s} }

// NumberScalar wraps a numeric value.
func NumberScalar(n float64) Scalar { return Scalar{Kind: ScalarNumber, Number: n} }

// ListScalar wraps a list of names.
func ListScalar(vals ...string) Scalar { return Scalar{Kind: ScalarList, List: vals} }

// NormalizedItem is the canonical cross-provider record produced by
// hydration. CoverURL, when set, has already passed the asset existence
// probe; the mapping layer never receives an unverified URL.
type NormalizedItem struct {
	// Title is the display name. Mandatory: hydration fails rather than
	// return a record without one.
	Title string

	// Creators holds authors, artists, or studios depending on the kind.
	Creators []string

	// Year is the release/publication year; 0 means unknown.
	Year int

	// Description is the synopsis or blurb, when the provider has one.
	Description string

	// CoverURL and IconURL are verified external image URLs; empty means
	// no usable asset was found.
	CoverURL string
	IconURL  string

	// Links are external reference URLs for display.
	Links []string

	// Extra holds provider- and kind-specific fields keyed by logical
	// name ("status", "platform", "studio", "isbn", ...).
	Extra map[string]Scalar
}

// SetExtra stores a scalar under the logical field name, allocating the
// map on first use.
func (n *NormalizedItem) SetExtra(name string, v Scalar) {
	if n.Extra == nil {
		n.Extra = make(map[string]Scalar)
	}
	n.Extra[name] = v
}
