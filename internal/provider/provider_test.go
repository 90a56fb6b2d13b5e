// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"errors"
	"testing"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry(&Jikan{}, &OpenLibrary{}, &Discogs{})

	p, err := r.Get("jikan")
	if err != nil {
		t.Fatalf("Get(jikan) error: %v", err)
	}
	if p.Kind() != types.MediaAnime {
		t.Errorf("Kind() = %q", p.Kind())
	}

	if _, err := r.Get("unknown"); !errors.Is(err, types.ErrValidation) {
		t.Errorf("Get(unknown) error = %v, want ErrValidation", err)
	}

	byKind, err := r.ForKind(types.MediaBook)
	if err != nil {
		t.Fatalf("ForKind(book) error: %v", err)
	}
	if byKind.Name() != "openlibrary" {
		t.Errorf("ForKind(book) = %q", byKind.Name())
	}
	if _, err := r.ForKind(types.MediaGame); !errors.Is(err, types.ErrValidation) {
		t.Errorf("ForKind(game) error = %v, want ErrValidation", err)
	}

	want := []string{"discogs", "jikan", "openlibrary"}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
