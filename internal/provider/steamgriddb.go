// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/assets"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/httputil"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// steamGridDBBase is the SteamGridDB API root. Declared as a var so
// tests can substitute an httptest server.
var steamGridDBBase = "https://www.steamgriddb.com/api/v2"

// steamGridDimensions restricts grid art to the vertical cover shape.
const steamGridDimensions = "600x900"

// SteamGridDB is the game adapter. It resolves titles through the
// autocomplete endpoint and cover and icon art through the grid and
// icon endpoints.
type SteamGridDB struct {
	Client    *http.Client
	Prober    *assets.Prober
	APIKey    string
	UserAgent string
}

// Name returns the adapter identifier.
func (s *SteamGridDB) Name() string { return "steamgriddb" }

// Kind returns the media kind this adapter serves.
func (s *SteamGridDB) Kind() types.MediaKind { return types.MediaGame }

// Search resolves a title through the autocomplete endpoint.
func (s *SteamGridDB) Search(ctx context.Context, query types.CatalogQuery) ([]types.CandidateSummary, error) {
	if query.IsEmpty() {
		return nil, fmt.Errorf("%w: empty query", types.ErrValidation)
	}
	if s.APIKey == "" {
		return nil, fmt.Errorf("%w: steamgriddb api key not configured", types.ErrStoreAuth)
	}

	var resp steamGridGamesResponse
	reqURL := steamGridDBBase + "/search/autocomplete/" + url.PathEscape(query.Text)
	if err := httputil.GetJSON(ctx, s.Client, reqURL, s.header(), &resp); err != nil {
		return nil, fmt.Errorf("steamgriddb search: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: steamgriddb search rejected", types.ErrProviderFormat)
	}

	summaries := make([]types.CandidateSummary, 0, len(resp.Data))
	for _, game := range resp.Data {
		if game.Name == "" {
			continue
		}
		summaries = append(summaries, types.CandidateSummary{
			ProviderID:   fmt.Sprintf("%d", game.ID),
			DisplayTitle: game.Name,
			Year:         releaseYear(game.ReleaseDate),
		})
	}
	return summaries, nil
}

// Detail hydrates a game entry and resolves its artwork.
func (s *SteamGridDB) Detail(ctx context.Context, id string) (*types.NormalizedItem, error) {
	var resp steamGridGameResponse
	reqURL := steamGridDBBase + "/games/id/" + url.PathEscape(id)
	if err := httputil.GetJSON(ctx, s.Client, reqURL, s.header(), &resp); err != nil {
		return nil, fmt.Errorf("%w: steamgriddb game %s: %v", types.ErrNotFound, id, err)
	}
	if !resp.Success || resp.Data.Name == "" {
		return nil, fmt.Errorf("%w: steamgriddb game %s", types.ErrNotFound, id)
	}

	item := &types.NormalizedItem{
		Title: resp.Data.Name,
		Year:  releaseYear(resp.Data.ReleaseDate),
	}

	iconURL, coverURL, err := s.ResolveAssets(ctx, id)
	if err == nil {
		item.IconURL = iconURL
		item.CoverURL = coverURL
	}

	return item, nil
}

// ResolveAssets fetches the grid and icon listings for a game and
// returns the first asset of each kind that actually exists. Either
// value may be empty when no asset passes the probe.
func (s *SteamGridDB) ResolveAssets(ctx context.Context, id string) (iconURL, coverURL string, err error) {
	var grids steamGridAssetsResponse
	gridURL := steamGridDBBase + "/grids/game/" + url.PathEscape(id) + "?dimensions=" + steamGridDimensions
	if err := httputil.GetJSON(ctx, s.Client, gridURL, s.header(), &grids); err != nil {
		return "", "", fmt.Errorf("steamgriddb grids: %w", err)
	}
	coverURL = s.Prober.ResolveCover(ctx, assetURLs(grids.Data))

	var icons steamGridAssetsResponse
	iconsURL := steamGridDBBase + "/icons/game/" + url.PathEscape(id)
	if err := httputil.GetJSON(ctx, s.Client, iconsURL, s.header(), &icons); err != nil {
		return "", "", fmt.Errorf("steamgriddb icons: %w", err)
	}
	iconURL = s.Prober.ResolveCover(ctx, assetURLs(pngFirst(icons.Data)))

	return iconURL, coverURL, nil
}

// pngFirst orders PNG assets ahead of other mime types; icon slots want
// transparency when available.
func pngFirst(entries []steamGridAsset) []steamGridAsset {
	ordered := make([]steamGridAsset, 0, len(entries))
	for _, entry := range entries {
		if entry.Mime == "image/png" {
			ordered = append(ordered, entry)
		}
	}
	for _, entry := range entries {
		if entry.Mime != "image/png" {
			ordered = append(ordered, entry)
		}
	}
	return ordered
}

func assetURLs(entries []steamGridAsset) []string {
	urls := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.URL != "" {
			urls = append(urls, entry.URL)
		}
	}
	return urls
}

func releaseYear(ts int64) int {
	if ts <= 0 {
		return 0
	}
	return time.Unix(ts, 0).UTC().Year()
}

func (s *SteamGridDB) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+s.APIKey)
	if s.UserAgent != "" {
		h.Set("User-Agent", s.UserAgent)
	}
	return h
}

// SteamGridDB API JSON structures.
type steamGridGamesResponse struct {
	Success bool            `json:"success"`
	Data    []steamGridGame `json:"data"`
}

type steamGridGameResponse struct {
	Success bool          `json:"success"`
	Data    steamGridGame `json:"data"`
}

type steamGridGame struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ReleaseDate int64  `json:"release_date"`
}

type steamGridAssetsResponse struct {
	Success bool             `json:"success"`
	Data    []steamGridAsset `json:"data"`
}

type steamGridAsset struct {
	ID   int    `json:"id"`
	URL  string `json:"url"`
	Mime string `json:"mime"`
}
