// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/assets"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

func newDiscogs(t *testing.T, srv *httptest.Server) *Discogs {
	t.Helper()
	orig := discogsBase
	discogsBase = srv.URL
	t.Cleanup(func() { discogsBase = orig })
	return &Discogs{
		Client: srv.Client(),
		Prober: &assets.Prober{Client: srv.Client()},
		Token:  "test-token",
	}
}

func TestDiscogsSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") != "release" || q.Get("format") != "Vinyl" {
			t.Errorf("search not restricted to vinyl releases: %v", q)
		}
		if got := r.Header.Get("Authorization"); got != "Discogs token=test-token" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"results": []any{
			map[string]any{"id": 101, "title": "Radiohead - OK Computer", "year": "1997", "cover_image": "https://img/ok.jpg"},
		}})
	}))
	defer srv.Close()

	d := newDiscogs(t, srv)
	got, err := d.Search(context.Background(), types.CatalogQuery{Text: "OK Computer"})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(got) != 1 || got[0].ProviderID != "101" || got[0].Year != 1997 || !got[0].HasCover {
		t.Errorf("results = %+v", got)
	}
}

func TestDiscogsSearchByLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("label") != "Parlophone" || q.Get("q") != "" {
			t.Errorf("label query used wrong params: %v", q)
		}
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer srv.Close()

	d := newDiscogs(t, srv)
	if _, err := d.Search(context.Background(), types.CatalogQuery{Text: "Parlophone", Kind: types.QueryLabel}); err != nil {
		t.Fatalf("Search() error: %v", err)
	}
}

func TestDiscogsSearchCombinedSplit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("artist") != "Radiohead" || q.Get("release_title") != "OK Computer" {
			t.Errorf("combined query not split: %v", q)
		}
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer srv.Close()

	d := newDiscogs(t, srv)
	if _, err := d.Search(context.Background(), types.CatalogQuery{Text: "Radiohead - OK Computer", Kind: types.QueryCombined}); err != nil {
		t.Fatalf("Search() error: %v", err)
	}
}

func TestFormatNamesDedup(t *testing.T) {
	got := formatNames([]discogsFormat{
		{Name: "Vinyl", Descriptions: []string{"LP", "Album"}},
		{Name: "Vinyl", Descriptions: []string{"LP", "Reissue"}},
	})
	want := []string{"Vinyl", "LP", "Album", "Reissue"}
	if len(got) != len(want) {
		t.Fatalf("formatNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("formatNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDiscogsSearchWithoutToken(t *testing.T) {
	d := &Discogs{}
	if _, err := d.Search(context.Background(), types.CatalogQuery{Text: "x"}); !errors.Is(err, types.ErrStoreAuth) {
		t.Fatalf("error = %v, want ErrStoreAuth", err)
	}
}

func TestDiscogsDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/releases/101", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":      101,
			"title":   "OK Computer",
			"year":    1997,
			"country": "UK",
			"notes":   "Gatefold sleeve.",
			"uri":     "https://www.discogs.com/release/101",
			"artists": []any{map[string]any{"name": "Radiohead (2)"}},
			"labels":  []any{map[string]any{"name": "Parlophone"}},
			"formats": []any{map[string]any{"name": "Vinyl"}, map[string]any{"name": "LP"}},
			"genres":  []string{"Rock"},
			"styles":  []string{"Alternative Rock"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	d := newDiscogs(t, srv)
	item, err := d.Detail(context.Background(), "101")
	if err != nil {
		t.Fatalf("Detail() error: %v", err)
	}
	if item.Title != "OK Computer" || item.Year != 1997 {
		t.Errorf("Title/Year = %q/%d", item.Title, item.Year)
	}
	if len(item.Creators) != 1 || item.Creators[0] != "Radiohead" {
		t.Errorf("Creators = %v, disambiguation suffix must be stripped", item.Creators)
	}
	if got := item.Extra["format"].Text; got != "Vinyl, LP" {
		t.Errorf("format = %q", got)
	}
	if got := item.Extra["label"].List; len(got) != 1 || got[0] != "Parlophone" {
		t.Errorf("label = %v", got)
	}
	if got := item.Extra["genre"].List; len(got) != 2 || got[0] != "Rock" || got[1] != "Alternative Rock" {
		t.Errorf("genre = %v, want genres then styles", got)
	}
	if got := item.Extra["country"].Text; got != "UK" {
		t.Errorf("country = %q", got)
	}
	if item.Description != "Gatefold sleeve." {
		t.Errorf("Description = %q", item.Description)
	}
}

func TestCleanArtist(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Radiohead (2)", "Radiohead"},
		{"Echo (13)", "Echo"},
		{"Pink Floyd", "Pink Floyd"},
		{"Matmos (Not 2)", "Matmos (Not 2)"},
	}
	for _, tt := range tests {
		if got := cleanArtist(tt.in); got != tt.want {
			t.Errorf("cleanArtist(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPickReleaseImage(t *testing.T) {
	images := []discogsImage{
		{Type: "secondary", URI: "https://img/back.jpg"},
		{Type: "primary", URI: "https://img/front.jpg"},
	}
	if got := pickReleaseImage(images); got != "https://img/front.jpg" {
		t.Errorf("pickReleaseImage() = %q, want the primary image", got)
	}
	if got := pickReleaseImage(images[:1]); got != "https://img/back.jpg" {
		t.Errorf("pickReleaseImage() = %q, want the only image", got)
	}
	if got := pickReleaseImage(nil); got != "" {
		t.Errorf("pickReleaseImage(nil) = %q", got)
	}
}

func TestDiscogsDetailNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	d := newDiscogs(t, srv)
	if _, err := d.Detail(context.Background(), "404"); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}
