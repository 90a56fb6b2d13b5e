// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/assets"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

func newSteamGridDB(t *testing.T, srv *httptest.Server) *SteamGridDB {
	t.Helper()
	orig := steamGridDBBase
	steamGridDBBase = srv.URL
	t.Cleanup(func() { steamGridDBBase = orig })
	return &SteamGridDB{
		Client: srv.Client(),
		Prober: &assets.Prober{Client: srv.Client()},
		APIKey: "test-key",
	}
}

func TestSteamGridDBSearch(t *testing.T) {
	released := time.Date(2015, 5, 19, 0, 0, 0, 0, time.UTC).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/autocomplete/The%20Witcher%203" && r.URL.Path != "/search/autocomplete/The Witcher 3" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []any{
				map[string]any{"id": 5248, "name": "The Witcher 3: Wild Hunt", "release_date": released},
			},
		})
	}))
	defer srv.Close()

	s := newSteamGridDB(t, srv)
	got, err := s.Search(context.Background(), types.CatalogQuery{Text: "The Witcher 3"})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(got) != 1 || got[0].ProviderID != "5248" || got[0].Year != 2015 {
		t.Errorf("results = %+v", got)
	}
}

func TestSteamGridDBSearchRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	s := newSteamGridDB(t, srv)
	if _, err := s.Search(context.Background(), types.CatalogQuery{Text: "x"}); !errors.Is(err, types.ErrProviderFormat) {
		t.Fatalf("error = %v, want ErrProviderFormat", err)
	}
}

func TestSteamGridDBSearchWithoutKey(t *testing.T) {
	s := &SteamGridDB{}
	if _, err := s.Search(context.Background(), types.CatalogQuery{Text: "x"}); !errors.Is(err, types.ErrStoreAuth) {
		t.Fatalf("error = %v, want ErrStoreAuth", err)
	}
}

func TestSteamGridDBResolveAssets(t *testing.T) {
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/grids/game/5248", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("dimensions"); got != steamGridDimensions {
			t.Errorf("dimensions = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []any{
				map[string]any{"id": 1, "url": srvURL + "/asset/dead.png"},
				map[string]any{"id": 2, "url": srvURL + "/asset/grid.png"},
			},
		})
	})
	mux.HandleFunc("/icons/game/5248", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []any{
				map[string]any{"id": 3, "url": srvURL + "/asset/icon.ico", "mime": "image/vnd.microsoft.icon"},
				map[string]any{"id": 4, "url": srvURL + "/asset/icon.png", "mime": "image/png"},
			},
		})
	})
	mux.HandleFunc("/asset/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/asset/dead.png" {
			w.WriteHeader(http.StatusNotFound)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	s := newSteamGridDB(t, srv)
	iconURL, coverURL, err := s.ResolveAssets(context.Background(), "5248")
	if err != nil {
		t.Fatalf("ResolveAssets() error: %v", err)
	}
	if want := srv.URL + "/asset/grid.png"; coverURL != want {
		t.Errorf("coverURL = %q, want %q (dead asset must be skipped)", coverURL, want)
	}
	if want := srv.URL + "/asset/icon.png"; iconURL != want {
		t.Errorf("iconURL = %q, want the PNG preferred over %q", iconURL, srv.URL+"/asset/icon.ico")
	}
}

func TestSteamGridDBDetail(t *testing.T) {
	released := time.Date(2015, 5, 19, 0, 0, 0, 0, time.UTC).Unix()
	mux := http.NewServeMux()
	mux.HandleFunc("/games/id/5248", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": 5248, "name": "The Witcher 3: Wild Hunt", "release_date": released},
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Grid and icon listings come back empty.
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []any{}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newSteamGridDB(t, srv)
	item, err := s.Detail(context.Background(), "5248")
	if err != nil {
		t.Fatalf("Detail() error: %v", err)
	}
	if item.Title != "The Witcher 3: Wild Hunt" || item.Year != 2015 {
		t.Errorf("Title/Year = %q/%d", item.Title, item.Year)
	}
	if item.CoverURL != "" || item.IconURL != "" {
		t.Errorf("assets = %q/%q, want none for empty listings", item.CoverURL, item.IconURL)
	}
}

func TestSteamGridDBDetailNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	s := newSteamGridDB(t, srv)
	if _, err := s.Detail(context.Background(), "0"); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestReleaseYear(t *testing.T) {
	if got := releaseYear(0); got != 0 {
		t.Errorf("releaseYear(0) = %d", got)
	}
	ts := time.Date(1998, 4, 3, 12, 0, 0, 0, time.UTC).Unix()
	if got := releaseYear(ts); got != 1998 {
		t.Errorf("releaseYear() = %d, want 1998", got)
	}
}
