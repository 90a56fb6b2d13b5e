// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/assets"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/httputil"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// Open Library endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	openLibraryBase      = "https://openlibrary.org"
	openLibraryCoverBase = "https://covers.openlibrary.org/b"
)

// Search result limits, raised for combined queries to compensate for the
// broader match set.
const (
	openLibrarySearchLimit   = 40
	openLibraryCombinedLimit = 60
	openLibraryEditionsLimit = 20
)

// openLibrarySearchFields is the field projection requested from the
// search endpoint.
const openLibrarySearchFields = "key,title,author_name,first_publish_year,cover_i,isbn,language,publisher,edition_count"

// OpenLibrary is the Open Library book adapter. Results are ranked with
// the locale buckets and covers are verified against the placeholder
// cutoff, since Open Library serves a small stub image for missing covers.
type OpenLibrary struct {
	Client    *http.Client
	Prober    *assets.Prober
	Localizer *Localizer
	UserAgent string
}

// Name returns the adapter identifier.
func (o *OpenLibrary) Name() string { return "openlibrary" }

// Kind returns the media kind this adapter serves.
func (o *OpenLibrary) Kind() types.MediaKind { return types.MediaBook }

// Search queries the Open Library search endpoint and returns
// locale-ranked candidates. A locale-scoped search with zero hits is
// widened exactly once by dropping the language filter; ISBN queries are
// never widened, an ISBN is unambiguous.
func (o *OpenLibrary) Search(ctx context.Context, query types.CatalogQuery) ([]types.CandidateSummary, error) {
	if query.IsEmpty() {
		return nil, fmt.Errorf("%w: empty query", types.ErrValidation)
	}

	hits, err := o.searchOnce(ctx, query, query.Locale)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 && query.Locale != "" && query.Kind != types.QueryISBN {
		return o.searchOnce(ctx, query, "")
	}
	return hits, nil
}

func (o *OpenLibrary) searchOnce(ctx context.Context, query types.CatalogQuery, locale string) ([]types.CandidateSummary, error) {
	params := url.Values{
		"limit":  {fmt.Sprintf("%d", openLibrarySearchLimit)},
		"fields": {openLibrarySearchFields},
		"mode":   {"everything"},
	}

	switch query.Kind {
	case types.QueryTitle:
		params.Set("q", query.Text)
		params.Set("title", query.Text)
	case types.QueryAuthor:
		params.Set("q", query.Text)
		params.Set("author", query.Text)
	case types.QueryISBN:
		params.Set("isbn", cleanISBN(query.Text))
	case types.QueryCombined:
		params.Set("q", query.Text)
		params.Set("limit", fmt.Sprintf("%d", openLibraryCombinedLimit))
	default:
		params.Set("q", query.Text)
	}
	if locale != "" {
		params.Set("language", locale)
	}

	var resp openLibrarySearchResponse
	reqURL := openLibraryBase + "/search.json?" + params.Encode()
	if err := httputil.GetJSON(ctx, o.Client, reqURL, o.header(), &resp); err != nil {
		return nil, fmt.Errorf("openlibrary search: %w", err)
	}

	hits := make([]rankedHit, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		title := doc.Title
		if o.Localizer.MatchLanguage(doc.Language...) {
			title = o.Localizer.MarkTitle(title)
		}
		hits = append(hits, rankedHit{
			summary: types.CandidateSummary{
				ProviderID:   strings.TrimPrefix(doc.Key, "/works/"),
				DisplayTitle: title,
				Year:         doc.FirstPublishYear,
				HasCover:     doc.CoverID != 0,
			},
			localeMatch: o.Localizer.Match(doc.Language, doc.Title, doc.Publisher),
		})
	}
	return rankByLocale(hits), nil
}

// Detail hydrates a work into a normalized record. The work fetch is
// primary: its failure, or a work without a title, reports
// types.ErrNotFound. The editions listing and author references are
// secondary and degrade to the fields already known.
func (o *OpenLibrary) Detail(ctx context.Context, id string) (*types.NormalizedItem, error) {
	var work openLibraryWork
	workURL := openLibraryBase + "/works/" + id + ".json"
	if err := httputil.GetJSON(ctx, o.Client, workURL, o.header(), &work); err != nil {
		return nil, fmt.Errorf("%w: openlibrary work %s: %v", types.ErrNotFound, id, err)
	}
	if work.Title == "" {
		return nil, fmt.Errorf("%w: openlibrary work %s has no title", types.ErrNotFound, id)
	}

	// Editions are a cross-reference: a failed fetch leaves the slice
	// empty and hydration continues with work-level fields.
	var editions openLibraryEditionsResponse
	editionsURL := fmt.Sprintf("%s/works/%s/editions.json?limit=%d", openLibraryBase, id, openLibraryEditionsLimit)
	_ = httputil.GetJSON(ctx, o.Client, editionsURL, o.header(), &editions)

	edition, localeEdition := o.pickEdition(editions.Entries)

	title := work.Title
	if localeEdition && edition.Title != "" {
		title = edition.Title
	} else if translated, ok := o.Localizer.LocalTitle(work.Title); ok {
		title = translated
	}

	item := &types.NormalizedItem{
		Title:       title,
		Creators:    o.resolveAuthors(ctx, work.Authors),
		Year:        yearOf(work.FirstPublishDate),
		Description: decodeTextOrValue(work.Description),
		Links:       []string{openLibraryBase + "/works/" + id},
	}

	var isbn string
	if edition != nil {
		if len(edition.ISBN13) > 0 {
			isbn = edition.ISBN13[0]
		} else if len(edition.ISBN10) > 0 {
			isbn = edition.ISBN10[0]
		}
		if len(edition.Publishers) > 0 {
			item.SetExtra("publisher", types.TextScalar(edition.Publishers[0]))
		}
		if edition.NumberOfPages > 0 {
			item.SetExtra("pages", types.NumberScalar(float64(edition.NumberOfPages)))
		}
	}
	if isbn != "" {
		item.SetExtra("isbn", types.TextScalar(isbn))
	}
	if len(work.Subjects) > 0 {
		subjects := work.Subjects
		// Subject lists run long; keep the leading entries.
		if len(subjects) > 10 {
			subjects = subjects[:10]
		}
		item.SetExtra("categories", types.ListScalar(subjects...))
	}
	item.SetExtra("info", types.TextScalar(openLibraryBase+"/works/"+id))

	item.CoverURL = o.Prober.ResolveCover(ctx, o.coverCandidates(id, work, edition, localeEdition, isbn))
	item.IconURL = item.CoverURL

	return item, nil
}

// pickEdition selects the edition used for metadata: prefer editions in
// the desired locale language, among those prefer one carrying a cover,
// ties broken by list order. Without a locale match the first edition is
// used for identifiers only.
func (o *OpenLibrary) pickEdition(entries []openLibraryEdition) (edition *openLibraryEdition, localeMatch bool) {
	var first, firstLocale, firstLocaleCover *openLibraryEdition
	for i := range entries {
		e := &entries[i]
		if first == nil {
			first = e
		}
		if !o.Localizer.MatchLanguage(e.languageTags()...) {
			continue
		}
		if firstLocale == nil {
			firstLocale = e
		}
		if firstLocaleCover == nil && len(e.Covers) > 0 {
			firstLocaleCover = e
		}
	}
	if firstLocaleCover != nil {
		return firstLocaleCover, true
	}
	if firstLocale != nil {
		return firstLocale, true
	}
	return first, false
}

// resolveAuthors fetches each author reference. A failed fetch falls back
// to a name title-cased from the reference key, never an empty entry.
func (o *OpenLibrary) resolveAuthors(ctx context.Context, refs []openLibraryAuthorRef) []string {
	var authors []string
	for _, ref := range refs {
		key := ref.Author.Key
		if key == "" {
			continue
		}
		var author openLibraryAuthor
		if err := httputil.GetJSON(ctx, o.Client, openLibraryBase+key+".json", o.header(), &author); err != nil || author.Name == "" {
			authors = append(authors, titleCaseSegment(key))
			continue
		}
		authors = append(authors, author.Name)
	}
	return authors
}

// coverCandidates orders the cover URL variants primary-first: the
// locale edition's cover id, the work cover id, any edition cover id,
// then the ISBN-derived and OLID-derived schemes.
func (o *OpenLibrary) coverCandidates(id string, work openLibraryWork, edition *openLibraryEdition, localeEdition bool, isbn string) []string {
	var ids []int64
	if localeEdition && edition != nil && len(edition.Covers) > 0 {
		ids = append(ids, edition.Covers[0])
	}
	if len(work.Covers) > 0 {
		ids = append(ids, work.Covers[0])
	}
	if edition != nil && len(edition.Covers) > 0 {
		ids = append(ids, edition.Covers[0])
	}

	var candidates []string
	seen := make(map[int64]bool)
	for _, coverID := range ids {
		if coverID == 0 || seen[coverID] {
			continue
		}
		seen[coverID] = true
		candidates = append(candidates, fmt.Sprintf("%s/id/%d-L.jpg", openLibraryCoverBase, coverID))
	}
	if isbn != "" {
		candidates = append(candidates, fmt.Sprintf("%s/isbn/%s-L.jpg", openLibraryCoverBase, cleanISBN(isbn)))
	}
	candidates = append(candidates, fmt.Sprintf("%s/olid/%s-L.jpg", openLibraryCoverBase, id))
	return candidates
}

func (o *OpenLibrary) header() http.Header {
	h := http.Header{}
	if o.UserAgent != "" {
		h.Set("User-Agent", o.UserAgent)
	}
	return h
}

// decodeTextOrValue handles fields the API serves either as a bare string
// or as a {"type": ..., "value": ...} object.
func decodeTextOrValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Value
	}
	return ""
}

// Open Library API JSON structures.
type openLibrarySearchResponse struct {
	Docs []openLibraryDoc `json:"docs"`
}

type openLibraryDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverID          int64    `json:"cover_i"`
	ISBN             []string `json:"isbn"`
	Language         []string `json:"language"`
	Publisher        []string `json:"publisher"`
	EditionCount     int      `json:"edition_count"`
}

type openLibraryWork struct {
	Title            string                 `json:"title"`
	Description      json.RawMessage        `json:"description"`
	Subjects         []string               `json:"subjects"`
	Covers           []int64                `json:"covers"`
	Authors          []openLibraryAuthorRef `json:"authors"`
	FirstPublishDate string                 `json:"first_publish_date"`
}

type openLibraryAuthorRef struct {
	Author openLibraryKeyRef `json:"author"`
}

type openLibraryKeyRef struct {
	Key string `json:"key"`
}

type openLibraryAuthor struct {
	Name string `json:"name"`
}

type openLibraryEditionsResponse struct {
	Entries []openLibraryEdition `json:"entries"`
}

type openLibraryEdition struct {
	Title         string              `json:"title"`
	Languages     []openLibraryKeyRef `json:"languages"`
	Covers        []int64             `json:"covers"`
	ISBN13        []string            `json:"isbn_13"`
	ISBN10        []string            `json:"isbn_10"`
	Publishers    []string            `json:"publishers"`
	NumberOfPages int                 `json:"number_of_pages"`
}

func (e *openLibraryEdition) languageTags() []string {
	tags := make([]string, 0, len(e.Languages))
	for _, ref := range e.Languages {
		if i := strings.LastIndex(ref.Key, "/"); i >= 0 {
			tags = append(tags, ref.Key[i+1:])
		}
	}
	return tags
}
