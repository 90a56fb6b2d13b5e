// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider queries external media catalogs and normalizes their
// records. Each catalog (Open Library, Google Books, Jikan, Discogs,
// SteamGridDB) is one adapter behind the Provider interface; raw response
// shapes never cross the adapter boundary.
package provider

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// Provider searches a single external catalog and hydrates selected hits
// into normalized records.
//
// Search issues one HTTP GET with provider-specific parameters derived
// from the query kind. On a transport or decode failure it returns an
// empty list together with the error; callers treat that as "no results"
// and may surface the error as a warning.
//
// Detail fetches the full record for a previously returned candidate id.
// Failures on the primary fetch report types.ErrNotFound; secondary
// cross-references degrade to best-effort fallbacks instead.
type Provider interface {
	Name() string
	Kind() types.MediaKind
	Search(ctx context.Context, query types.CatalogQuery) ([]types.CandidateSummary, error)
	Detail(ctx context.Context, id string) (*types.NormalizedItem, error)
}

// AssetResolver is the optional capability of providers that keep image
// retrieval separate from metadata.
type AssetResolver interface {
	ResolveAssets(ctx context.Context, id string) (iconURL, coverURL string, err error)
}

// Registry holds the configured providers by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds a registry from the given providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get returns the named provider.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: no provider named %q", types.ErrValidation, name)
	}
	return p, nil
}

// ForKind returns the first provider serving the given media kind.
func (r *Registry) ForKind(kind types.MediaKind) (Provider, error) {
	for _, name := range r.Names() {
		if r.providers[name].Kind() == kind {
			return r.providers[name], nil
		}
	}
	return nil, fmt.Errorf("%w: no provider for media kind %q", types.ErrValidation, kind)
}

// Names lists the registered provider names in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
