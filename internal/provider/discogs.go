// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/assets"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/httputil"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// discogsBase is the Discogs API root. Declared as a var so tests can
// substitute an httptest server.
var discogsBase = "https://api.discogs.com"

const discogsSearchLimit = 20

// Discogs name disambiguation suffix, e.g. "Echo (2)".
var discogsSuffix = regexp.MustCompile(`\s\(\d+\)$`)

// Discogs is the vinyl release adapter. All requests carry the personal
// access token; Discogs rejects anonymous search.
type Discogs struct {
	Client    *http.Client
	Prober    *assets.Prober
	Token     string
	UserAgent string
}

// Name returns the adapter identifier.
func (d *Discogs) Name() string { return "discogs" }

// Kind returns the media kind this adapter serves.
func (d *Discogs) Kind() types.MediaKind { return types.MediaVinyl }

// Search queries the release database, restricted to the vinyl format.
// Label queries use the dedicated label parameter instead of free text.
func (d *Discogs) Search(ctx context.Context, query types.CatalogQuery) ([]types.CandidateSummary, error) {
	if query.IsEmpty() {
		return nil, fmt.Errorf("%w: empty query", types.ErrValidation)
	}
	if d.Token == "" {
		return nil, fmt.Errorf("%w: discogs token not configured", types.ErrStoreAuth)
	}

	params := url.Values{
		"type":     {"release"},
		"format":   {"Vinyl"},
		"per_page": {fmt.Sprintf("%d", discogsSearchLimit)},
	}
	switch query.Kind {
	case types.QueryTitle:
		params.Set("release_title", query.Text)
	case types.QueryAuthor:
		params.Set("artist", query.Text)
	case types.QueryLabel:
		params.Set("label", query.Text)
	case types.QueryCombined:
		// "Artist - Album" splits on the first separator.
		if artist, album, ok := strings.Cut(query.Text, " - "); ok {
			params.Set("artist", strings.TrimSpace(artist))
			params.Set("release_title", strings.TrimSpace(album))
		} else {
			params.Set("q", query.Text)
		}
	default:
		params.Set("q", query.Text)
	}

	var resp discogsSearchResponse
	reqURL := discogsBase + "/database/search?" + params.Encode()
	if err := httputil.GetJSON(ctx, d.Client, reqURL, d.header(), &resp); err != nil {
		return nil, fmt.Errorf("discogs search: %w", err)
	}

	summaries := make([]types.CandidateSummary, 0, len(resp.Results))
	for _, hit := range resp.Results {
		if hit.Title == "" {
			continue
		}
		summaries = append(summaries, types.CandidateSummary{
			ProviderID:   fmt.Sprintf("%d", hit.ID),
			DisplayTitle: hit.Title,
			Year:         yearOf(hit.Year),
			HasCover:     hit.CoverImage != "",
		})
	}
	return summaries, nil
}

// Detail hydrates a release. A failed fetch or missing title reports
// types.ErrNotFound.
func (d *Discogs) Detail(ctx context.Context, id string) (*types.NormalizedItem, error) {
	var rel discogsRelease
	reqURL := discogsBase + "/releases/" + url.PathEscape(id)
	if err := httputil.GetJSON(ctx, d.Client, reqURL, d.header(), &rel); err != nil {
		return nil, fmt.Errorf("%w: discogs release %s: %v", types.ErrNotFound, id, err)
	}
	if rel.Title == "" {
		return nil, fmt.Errorf("%w: discogs release %s has no title", types.ErrNotFound, id)
	}

	item := &types.NormalizedItem{
		Title:       rel.Title,
		Year:        rel.Year,
		Description: rel.Notes,
	}
	for _, artist := range rel.Artists {
		if name := cleanArtist(artist.Name); name != "" {
			item.Creators = append(item.Creators, name)
		}
	}

	if formats := formatNames(rel.Formats); len(formats) > 0 {
		item.SetExtra("format", types.TextScalar(strings.Join(formats, ", ")))
	}
	if labels := labelNames(rel.Labels); len(labels) > 0 {
		item.SetExtra("label", types.ListScalar(labels...))
	}
	if genres := append(append([]string{}, rel.Genres...), rel.Styles...); len(genres) > 0 {
		item.SetExtra("genre", types.ListScalar(genres...))
	}
	if rel.Country != "" {
		item.SetExtra("country", types.TextScalar(rel.Country))
	}
	if rel.URI != "" {
		item.SetExtra("info", types.TextScalar(rel.URI))
		item.Links = append(item.Links, rel.URI)
	}

	if cover := pickReleaseImage(rel.Images); cover != "" {
		item.CoverURL = d.Prober.ResolveCover(ctx, []string{cover})
		item.IconURL = item.CoverURL
	}

	return item, nil
}

// cleanArtist strips the "(2)" style disambiguation Discogs appends to
// artists that share a name.
func cleanArtist(name string) string {
	return strings.TrimSpace(discogsSuffix.ReplaceAllString(name, ""))
}

// pickReleaseImage prefers the primary image, then the first of any type.
func pickReleaseImage(images []discogsImage) string {
	for _, img := range images {
		if img.Type == "primary" && img.URI != "" {
			return img.URI
		}
	}
	for _, img := range images {
		if img.URI != "" {
			return img.URI
		}
	}
	return ""
}

// formatNames flattens format names and their descriptions ("Vinyl",
// "LP", "Album") into one deduplicated list.
func formatNames(formats []discogsFormat) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}
	for _, f := range formats {
		add(f.Name)
		for _, desc := range f.Descriptions {
			add(desc)
		}
	}
	return names
}

func labelNames(labels []discogsLabel) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		if name := cleanArtist(l.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (d *Discogs) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Discogs token="+d.Token)
	if d.UserAgent != "" {
		h.Set("User-Agent", d.UserAgent)
	}
	return h
}

// Discogs API JSON structures.
type discogsSearchResponse struct {
	Results []discogsSearchResult `json:"results"`
}

type discogsSearchResult struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	CoverImage string `json:"cover_image"`
}

type discogsRelease struct {
	ID      int             `json:"id"`
	Title   string          `json:"title"`
	Year    int             `json:"year"`
	Country string          `json:"country"`
	Notes   string          `json:"notes"`
	URI     string          `json:"uri"`
	Artists []discogsArtist `json:"artists"`
	Labels  []discogsLabel  `json:"labels"`
	Formats []discogsFormat `json:"formats"`
	Genres  []string        `json:"genres"`
	Styles  []string        `json:"styles"`
	Images  []discogsImage  `json:"images"`
}

type discogsArtist struct {
	Name string `json:"name"`
}

type discogsLabel struct {
	Name string `json:"name"`
}

type discogsFormat struct {
	Name         string   `json:"name"`
	Descriptions []string `json:"descriptions"`
}

type discogsImage struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
}
