// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/assets"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// newOpenLibrary points the adapter at a test server and restores the
// endpoint vars on cleanup.
func newOpenLibrary(t *testing.T, api, covers *httptest.Server) *OpenLibrary {
	t.Helper()
	origBase, origCovers := openLibraryBase, openLibraryCoverBase
	openLibraryBase = api.URL
	if covers != nil {
		openLibraryCoverBase = covers.URL
	}
	t.Cleanup(func() {
		openLibraryBase = origBase
		openLibraryCoverBase = origCovers
	})
	return &OpenLibrary{
		Client:    api.Client(),
		Prober:    &assets.Prober{Client: api.Client(), MinBytes: assets.PlaceholderCutoff},
		Localizer: DefaultPolish(),
	}
}

func searchDoc(key, title string, year int, coverID int64, languages ...string) map[string]any {
	doc := map[string]any{
		"key":                "/works/" + key,
		"title":              title,
		"first_publish_year": year,
		"language":           languages,
	}
	if coverID != 0 {
		doc["cover_i"] = coverID
	}
	return doc
}

func TestOpenLibrarySearchRanking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"docs": []any{
			searchDoc("OL1W", "Dune", 1965, 0, "eng"),
			searchDoc("OL2W", "Dune Messiah", 1969, 101, "eng"),
			searchDoc("OL3W", "Diuna", 1965, 0, "pol"),
			searchDoc("OL4W", "Diuna: Mesjasz", 1969, 102, "pol"),
		}})
	}))
	defer srv.Close()

	ol := newOpenLibrary(t, srv, nil)
	got, err := ol.Search(context.Background(), types.CatalogQuery{Text: "Dune", Kind: types.QueryTitle, Locale: "pol"})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	want := []string{"Diuna: Mesjasz [PL]", "Dune Messiah", "Diuna [PL]", "Dune"}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].DisplayTitle != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i].DisplayTitle, want[i])
		}
	}
	if got[0].ProviderID != "OL4W" {
		t.Errorf("ProviderID = %q, want the bare work key OL4W", got[0].ProviderID)
	}
}

func TestOpenLibrarySearchWidensOnce(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Query().Get("language"))
		if r.URL.Query().Get("language") != "" {
			json.NewEncoder(w).Encode(map[string]any{"docs": []any{}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"docs": []any{
			searchDoc("OL1W", "Solaris", 1961, 103, "eng"),
		}})
	}))
	defer srv.Close()

	ol := newOpenLibrary(t, srv, nil)
	got, err := ol.Search(context.Background(), types.CatalogQuery{Text: "Solaris", Kind: types.QueryTitle, Locale: "pol"})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("got %d requests, want a locale pass and one widened pass", len(calls))
	}
	if calls[0] != "pol" || calls[1] != "" {
		t.Errorf("language filters = %v, want [pol, empty]", calls)
	}
	if len(got) != 1 || got[0].DisplayTitle != "Solaris" {
		t.Errorf("widened results = %+v", got)
	}
}

func TestOpenLibrarySearchISBNNeverWidens(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if got := r.URL.Query().Get("isbn"); got != "9788375103075" {
			t.Errorf("isbn param = %q, want cleaned digits", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"docs": []any{}})
	}))
	defer srv.Close()

	ol := newOpenLibrary(t, srv, nil)
	got, err := ol.Search(context.Background(), types.CatalogQuery{Text: "978-83-7510-307-5", Kind: types.QueryISBN, Locale: "pol"})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("got %d requests, ISBN queries must not widen", calls)
	}
	if len(got) != 0 {
		t.Errorf("got %d results, want none", len(got))
	}
}

func TestOpenLibrarySearchEmptyQuery(t *testing.T) {
	ol := &OpenLibrary{}
	if _, err := ol.Search(context.Background(), types.CatalogQuery{Text: "   "}); !errors.Is(err, types.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestOpenLibraryDetail(t *testing.T) {
	covers := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The locale edition cover is the placeholder stub; the work
		// cover is a real image.
		size := "500"
		if r.URL.Path == "/id/111-L.jpg" {
			size = "48213"
		}
		w.Header().Set("Content-Length", size)
	}))
	defer covers.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/works/OL893415W.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"title":              "Dune",
			"description":        map[string]any{"type": "/type/text", "value": "Arrakis, the desert planet."},
			"subjects":           []string{"Science fiction", "Ecology"},
			"covers":             []int64{111},
			"first_publish_date": "October 1, 1965",
			"authors": []any{
				map[string]any{"author": map[string]any{"key": "/authors/OL79034A"}},
				map[string]any{"author": map[string]any{"key": "/authors/beverly_herbert"}},
			},
		})
	})
	mux.HandleFunc("/works/OL893415W/editions.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"entries": []any{
			map[string]any{
				"title":     "Dune",
				"languages": []any{map[string]any{"key": "/languages/eng"}},
				"isbn_13":   []string{"9780441013593"},
			},
			map[string]any{
				"title":           "Diuna",
				"languages":       []any{map[string]any{"key": "/languages/pol"}},
				"covers":          []int64{222},
				"isbn_13":         []string{"9788375103075"},
				"publishers":      []string{"Rebis"},
				"number_of_pages": 412,
			},
		}})
	})
	mux.HandleFunc("/authors/OL79034A.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"name": "Frank Herbert"})
	})
	// No handler for /authors/beverly_herbert.json: that fetch 404s and
	// the name falls back to the reference key.
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ol := newOpenLibrary(t, srv, covers)
	item, err := ol.Detail(context.Background(), "OL893415W")
	if err != nil {
		t.Fatalf("Detail() error: %v", err)
	}

	if item.Title != "Diuna" {
		t.Errorf("Title = %q, want the locale edition title", item.Title)
	}
	if len(item.Creators) != 2 || item.Creators[0] != "Frank Herbert" || item.Creators[1] != "Beverly Herbert" {
		t.Errorf("Creators = %v", item.Creators)
	}
	if item.Year != 1965 {
		t.Errorf("Year = %d, want 1965", item.Year)
	}
	if item.Description != "Arrakis, the desert planet." {
		t.Errorf("Description = %q", item.Description)
	}
	if got := item.Extra["publisher"].Text; got != "Rebis" {
		t.Errorf("publisher = %q", got)
	}
	if got := item.Extra["pages"].Number; got != 412 {
		t.Errorf("pages = %v", got)
	}
	if got := item.Extra["isbn"].Text; got != "9788375103075" {
		t.Errorf("isbn = %q", got)
	}
	if got := item.Extra["categories"].List; len(got) != 2 || got[0] != "Science fiction" {
		t.Errorf("categories = %v", got)
	}
	if want := covers.URL + "/id/111-L.jpg"; item.CoverURL != want {
		t.Errorf("CoverURL = %q, want %q (stub cover must be skipped)", item.CoverURL, want)
	}
	if item.IconURL != item.CoverURL {
		t.Errorf("IconURL = %q, want the cover", item.IconURL)
	}
}

func TestOpenLibraryDetailTranslatedTitleFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/works/OL893415W.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"title": "Dune"})
	})
	// Editions listing fails; hydration degrades to the translation table.
	srv := httptest.NewServer(mux)
	defer srv.Close()

	covers := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(assets.PlaceholderCutoff+1))
	}))
	defer covers.Close()

	ol := newOpenLibrary(t, srv, covers)
	item, err := ol.Detail(context.Background(), "OL893415W")
	if err != nil {
		t.Fatalf("Detail() error: %v", err)
	}
	if item.Title != "Diuna" {
		t.Errorf("Title = %q, want the translated title", item.Title)
	}
	if want := covers.URL + "/olid/OL893415W-L.jpg"; item.CoverURL != want {
		t.Errorf("CoverURL = %q, want the olid scheme %q", item.CoverURL, want)
	}
}

func TestOpenLibraryDetailNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ol := newOpenLibrary(t, srv, nil)
	if _, err := ol.Detail(context.Background(), "OL0W"); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestOpenLibraryDetailUntitledWork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"subjects": []string{"orphaned"}})
	}))
	defer srv.Close()

	ol := newOpenLibrary(t, srv, nil)
	if _, err := ol.Detail(context.Background(), "OL0W"); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}
