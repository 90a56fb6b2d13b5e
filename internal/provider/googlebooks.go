// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/assets"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/httputil"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// googleBooksBase is the Google Books volumes endpoint root. Declared as
// a var so tests can substitute an httptest server.
var googleBooksBase = "https://www.googleapis.com/books/v1"

const googleBooksSearchLimit = 15

// GoogleBooks is the Google Books adapter. Locale bias uses the
// langRestrict filter with the localizer's two-letter tag.
type GoogleBooks struct {
	Client    *http.Client
	Prober    *assets.Prober
	Localizer *Localizer
	UserAgent string
}

// Name returns the adapter identifier.
func (g *GoogleBooks) Name() string { return "googlebooks" }

// Kind returns the media kind this adapter serves.
func (g *GoogleBooks) Kind() types.MediaKind { return types.MediaBook }

// Search queries the volumes endpoint with a kind-specific term prefix
// (intitle:, inauthor:, isbn:). The locale filter is dropped in exactly
// one widening re-query when a locale-scoped search returns nothing,
// except for ISBN queries.
func (g *GoogleBooks) Search(ctx context.Context, query types.CatalogQuery) ([]types.CandidateSummary, error) {
	if query.IsEmpty() {
		return nil, fmt.Errorf("%w: empty query", types.ErrValidation)
	}

	locale := query.Locale
	if locale != "" {
		locale = g.Localizer.ShortTag()
	}
	hits, err := g.searchOnce(ctx, query, locale)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 && locale != "" && query.Kind != types.QueryISBN {
		return g.searchOnce(ctx, query, "")
	}
	return hits, nil
}

func (g *GoogleBooks) searchOnce(ctx context.Context, query types.CatalogQuery, locale string) ([]types.CandidateSummary, error) {
	term := query.Text
	switch query.Kind {
	case types.QueryTitle:
		term = "intitle:" + query.Text
	case types.QueryAuthor:
		term = "inauthor:" + query.Text
	case types.QueryISBN:
		term = "isbn:" + cleanISBN(query.Text)
	}

	params := url.Values{
		"q":          {term},
		"maxResults": {fmt.Sprintf("%d", googleBooksSearchLimit)},
		"orderBy":    {"relevance"},
		"printType":  {"books"},
	}
	if locale != "" {
		params.Set("langRestrict", locale)
	}

	var resp googleVolumesResponse
	reqURL := googleBooksBase + "/volumes?" + params.Encode()
	if err := httputil.GetJSON(ctx, g.Client, reqURL, g.header(), &resp); err != nil {
		return nil, fmt.Errorf("googlebooks search: %w", err)
	}

	hits := make([]rankedHit, 0, len(resp.Items))
	for _, vol := range resp.Items {
		info := vol.VolumeInfo
		if info.Title == "" {
			continue
		}
		hits = append(hits, rankedHit{
			summary: types.CandidateSummary{
				ProviderID:   vol.ID,
				DisplayTitle: info.Title,
				Year:         yearOf(info.PublishedDate),
				HasCover:     info.ImageLinks != nil,
			},
			localeMatch: g.Localizer.MatchLanguage(info.Language) ||
				g.Localizer.MatchTitle(info.Title) ||
				g.Localizer.MatchPublisher(info.Publisher),
		})
	}
	return rankByLocale(hits), nil
}

// Detail hydrates a volume. The volume fetch is the primary detail call;
// its failure, or a volume without a title, reports types.ErrNotFound.
func (g *GoogleBooks) Detail(ctx context.Context, id string) (*types.NormalizedItem, error) {
	var vol googleVolume
	reqURL := googleBooksBase + "/volumes/" + url.PathEscape(id)
	if err := httputil.GetJSON(ctx, g.Client, reqURL, g.header(), &vol); err != nil {
		return nil, fmt.Errorf("%w: googlebooks volume %s: %v", types.ErrNotFound, id, err)
	}
	info := vol.VolumeInfo
	if info.Title == "" {
		return nil, fmt.Errorf("%w: googlebooks volume %s has no title", types.ErrNotFound, id)
	}

	item := &types.NormalizedItem{
		Title:       info.Title,
		Creators:    info.Authors,
		Year:        yearOf(info.PublishedDate),
		Description: info.Description,
	}

	if info.Publisher != "" {
		item.SetExtra("publisher", types.TextScalar(info.Publisher))
	}
	if info.PageCount > 0 {
		item.SetExtra("pages", types.NumberScalar(float64(info.PageCount)))
	}
	if len(info.Categories) > 0 {
		item.SetExtra("categories", types.ListScalar(info.Categories...))
	}
	if isbn := pickISBN(info.IndustryIdentifiers); isbn != "" {
		item.SetExtra("isbn", types.TextScalar(isbn))
	}
	if info.InfoLink != "" {
		item.SetExtra("info", types.TextScalar(info.InfoLink))
		item.Links = append(item.Links, info.InfoLink)
	}

	if best := bestImageURL(info.ImageLinks); best != "" {
		item.CoverURL = g.Prober.ResolveCover(ctx, []string{best})
		item.IconURL = item.CoverURL
	}

	return item, nil
}

// bestImageURL picks the largest available image, upgraded to https and
// stripped of the zoom parameter the API appends to thumbnails.
func bestImageURL(links *googleImageLinks) string {
	if links == nil {
		return ""
	}
	for _, candidate := range []string{links.ExtraLarge, links.Large, links.Medium, links.Small, links.Thumbnail} {
		if candidate == "" {
			continue
		}
		candidate = strings.Replace(candidate, "http://", "https://", 1)
		return strings.ReplaceAll(candidate, "&zoom=1", "")
	}
	return ""
}

func pickISBN(ids []googleIdentifier) string {
	var isbn10 string
	for _, id := range ids {
		switch id.Type {
		case "ISBN_13":
			return id.Identifier
		case "ISBN_10":
			isbn10 = id.Identifier
		}
	}
	return isbn10
}

func (g *GoogleBooks) header() http.Header {
	h := http.Header{}
	if g.UserAgent != "" {
		h.Set("User-Agent", g.UserAgent)
	}
	return h
}

// Google Books API JSON structures.
type googleVolumesResponse struct {
	Items []googleVolume `json:"items"`
}

type googleVolume struct {
	ID         string           `json:"id"`
	VolumeInfo googleVolumeInfo `json:"volumeInfo"`
}

type googleVolumeInfo struct {
	Title               string             `json:"title"`
	Authors             []string           `json:"authors"`
	Publisher           string             `json:"publisher"`
	PublishedDate       string             `json:"publishedDate"`
	Description         string             `json:"description"`
	PageCount           int                `json:"pageCount"`
	Categories          []string           `json:"categories"`
	Language            string             `json:"language"`
	InfoLink            string             `json:"infoLink"`
	ImageLinks          *googleImageLinks  `json:"imageLinks"`
	IndustryIdentifiers []googleIdentifier `json:"industryIdentifiers"`
}

type googleImageLinks struct {
	Thumbnail  string `json:"thumbnail"`
	Small      string `json:"small"`
	Medium     string `json:"medium"`
	Large      string `json:"large"`
	ExtraLarge string `json:"extraLarge"`
}

type googleIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}
