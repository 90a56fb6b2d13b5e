// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/assets"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/httputil"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// jikanBase is the Jikan v4 API root. Declared as a var so tests can
// substitute an httptest server.
var jikanBase = "https://api.jikan.moe/v4"

const jikanSearchLimit = 10

// Jikan is the MyAnimeList adapter backed by the unauthenticated Jikan
// mirror. Anime has no locale dimension, so search results keep the
// provider's relevance order.
type Jikan struct {
	Client    *http.Client
	Prober    *assets.Prober
	UserAgent string
}

// Name returns the adapter identifier.
func (j *Jikan) Name() string { return "jikan" }

// Kind returns the media kind this adapter serves.
func (j *Jikan) Kind() types.MediaKind { return types.MediaAnime }

// Search queries the anime endpoint by free text.
func (j *Jikan) Search(ctx context.Context, query types.CatalogQuery) ([]types.CandidateSummary, error) {
	if query.IsEmpty() {
		return nil, fmt.Errorf("%w: empty query", types.ErrValidation)
	}

	params := url.Values{
		"q":     {query.Text},
		"limit": {fmt.Sprintf("%d", jikanSearchLimit)},
	}
	var resp jikanSearchResponse
	reqURL := jikanBase + "/anime?" + params.Encode()
	if err := httputil.GetJSON(ctx, j.Client, reqURL, j.header(), &resp); err != nil {
		return nil, fmt.Errorf("jikan search: %w", err)
	}

	summaries := make([]types.CandidateSummary, 0, len(resp.Data))
	for _, entry := range resp.Data {
		if entry.Title == "" {
			continue
		}
		summaries = append(summaries, types.CandidateSummary{
			ProviderID:   fmt.Sprintf("%d", entry.MalID),
			DisplayTitle: entry.Title,
			Year:         entry.Year,
			HasCover:     entry.Images.JPG.ImageURL != "",
		})
	}
	return summaries, nil
}

// Detail hydrates an anime entry. The full endpoint carries relations,
// which feed the seasons estimate. A failed fetch or missing title
// reports types.ErrNotFound.
func (j *Jikan) Detail(ctx context.Context, id string) (*types.NormalizedItem, error) {
	var resp jikanFullResponse
	reqURL := jikanBase + "/anime/" + url.PathEscape(id) + "/full"
	if err := httputil.GetJSON(ctx, j.Client, reqURL, j.header(), &resp); err != nil {
		return nil, fmt.Errorf("%w: jikan anime %s: %v", types.ErrNotFound, id, err)
	}
	entry := resp.Data
	if entry.Title == "" {
		return nil, fmt.Errorf("%w: jikan anime %s has no title", types.ErrNotFound, id)
	}

	item := &types.NormalizedItem{
		Title:       entry.Title,
		Year:        entry.Year,
		Description: entry.Synopsis,
	}
	for _, studio := range entry.Studios {
		if studio.Name != "" {
			item.Creators = append(item.Creators, studio.Name)
		}
	}

	if entry.Episodes > 0 {
		item.SetExtra("episodes", types.NumberScalar(float64(entry.Episodes)))
	}
	item.SetExtra("seasons", types.NumberScalar(float64(estimateSeasons(entry.Relations))))
	if status := normalizeAiring(entry.Status); status != "" {
		item.SetExtra("airing", types.TextScalar(status))
	}
	if entry.URL != "" {
		item.SetExtra("mal", types.TextScalar(entry.URL))
		item.Links = append(item.Links, entry.URL)
	}
	for _, ext := range entry.External {
		if ext.Name == "AniDB" && ext.URL != "" {
			item.SetExtra("anidb", types.TextScalar(ext.URL))
			item.Links = append(item.Links, ext.URL)
			break
		}
	}

	cover := entry.Images.JPG.LargeImageURL
	if cover == "" {
		cover = entry.Images.JPG.ImageURL
	}
	if cover != "" {
		item.CoverURL = j.Prober.ResolveCover(ctx, []string{cover})
		item.IconURL = item.CoverURL
	}

	return item, nil
}

// estimateSeasons counts one season plus one per sequel or prequel
// relation. A show with no relation data counts as a single season.
func estimateSeasons(relations []jikanRelation) int {
	seasons := 1
	for _, rel := range relations {
		if rel.Relation == "Sequel" || rel.Relation == "Prequel" {
			seasons++
		}
	}
	return seasons
}

// normalizeAiring folds MyAnimeList status strings into the two values
// the library tracks.
func normalizeAiring(status string) string {
	switch status {
	case "Currently Airing":
		return "AIRING"
	case "Finished Airing":
		return "ENDED"
	case "":
		return ""
	default:
		return status
	}
}

func (j *Jikan) header() http.Header {
	h := http.Header{}
	if j.UserAgent != "" {
		h.Set("User-Agent", j.UserAgent)
	}
	return h
}

// Jikan v4 JSON structures.
type jikanSearchResponse struct {
	Data []jikanAnime `json:"data"`
}

type jikanFullResponse struct {
	Data jikanAnime `json:"data"`
}

type jikanAnime struct {
	MalID     int             `json:"mal_id"`
	URL       string          `json:"url"`
	Title     string          `json:"title"`
	Year      int             `json:"year"`
	Episodes  int             `json:"episodes"`
	Status    string          `json:"status"`
	Synopsis  string          `json:"synopsis"`
	Images    jikanImages     `json:"images"`
	Studios   []jikanNamed    `json:"studios"`
	Relations []jikanRelation `json:"relations"`
	External  []jikanExternal `json:"external"`
}

type jikanImages struct {
	JPG jikanImageSet `json:"jpg"`
}

type jikanImageSet struct {
	ImageURL      string `json:"image_url"`
	LargeImageURL string `json:"large_image_url"`
}

type jikanNamed struct {
	Name string `json:"name"`
}

type jikanRelation struct {
	Relation string `json:"relation"`
}

type jikanExternal struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
