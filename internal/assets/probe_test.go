// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
)

// coverServer serves HEAD responses keyed by path: status and declared
// content length.
func coverServer(t *testing.T, responses map[string]struct {
	status int
	length int
}, hits *map[string]int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			(*hits)[r.URL.Path]++
		}
		resp, ok := responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(resp.length))
		w.WriteHeader(resp.status)
	}))
}

func TestResolveCoverFirstPassingWins(t *testing.T) {
	hits := map[string]int{}
	srv := coverServer(t, map[string]struct {
		status int
		length int
	}{
		"/a.jpg": {http.StatusNotFound, 0},
		"/b.jpg": {http.StatusOK, 120}, // placeholder stub
		"/c.jpg": {http.StatusOK, 48213},
		"/d.jpg": {http.StatusOK, 90000},
	}, &hits)
	defer srv.Close()

	p := &Prober{Client: srv.Client(), MinBytes: PlaceholderCutoff}
	got := p.ResolveCover(context.Background(), []string{
		srv.URL + "/a.jpg",
		srv.URL + "/b.jpg",
		srv.URL + "/c.jpg",
		srv.URL + "/d.jpg",
	})

	if got != srv.URL+"/c.jpg" {
		t.Fatalf("ResolveCover() = %q, want %q", got, srv.URL+"/c.jpg")
	}
	// Acceptance stops the walk: the fourth candidate is never probed.
	if hits["/d.jpg"] != 0 {
		t.Errorf("candidate after acceptance was probed %d times", hits["/d.jpg"])
	}
}

func TestResolveCoverNonePass(t *testing.T) {
	srv := coverServer(t, map[string]struct {
		status int
		length int
	}{
		"/a.jpg": {http.StatusNotFound, 0},
	}, nil)
	defer srv.Close()

	p := &Prober{Client: srv.Client()}
	if got := p.ResolveCover(context.Background(), []string{srv.URL + "/a.jpg", srv.URL + "/missing.jpg"}); got != "" {
		t.Fatalf("ResolveCover() = %q, want empty", got)
	}
}

func TestResolveCoverSkipsEmptyCandidates(t *testing.T) {
	srv := coverServer(t, map[string]struct {
		status int
		length int
	}{
		"/ok.jpg": {http.StatusOK, 5000},
	}, nil)
	defer srv.Close()

	p := &Prober{Client: srv.Client()}
	got := p.ResolveCover(context.Background(), []string{"", srv.URL + "/ok.jpg"})
	if got != srv.URL+"/ok.jpg" {
		t.Fatalf("ResolveCover() = %q, want %q", got, srv.URL+"/ok.jpg")
	}
}

func TestExistsWithoutSizeCheck(t *testing.T) {
	// Without MinBytes a tiny asset still counts: only Discogs-style
	// status checking applies.
	srv := coverServer(t, map[string]struct {
		status int
		length int
	}{
		"/tiny.jpg": {http.StatusOK, 10},
	}, nil)
	defer srv.Close()

	p := &Prober{Client: srv.Client()}
	if !p.Exists(context.Background(), srv.URL+"/tiny.jpg") {
		t.Fatal("Exists() = false, want true without size check")
	}
	withCutoff := &Prober{Client: srv.Client(), MinBytes: PlaceholderCutoff}
	if withCutoff.Exists(context.Background(), srv.URL+"/tiny.jpg") {
		t.Fatal("Exists() = true, want false under placeholder cutoff")
	}
}

func TestExistsTransportErrorAdvances(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	var served int32
	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&served, 1)
		w.Header().Set("Content-Length", "4000")
	}))
	defer live.Close()

	p := &Prober{Client: live.Client()}
	got := p.ResolveCover(context.Background(), []string{deadURL + "/x.jpg", live.URL + "/y.jpg"})
	if got != live.URL+"/y.jpg" {
		t.Fatalf("ResolveCover() = %q, want fallback candidate", got)
	}
	if atomic.LoadInt32(&served) != 1 {
		t.Errorf("fallback probed %d times, want 1", served)
	}
}
