// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// ExtractID normalizes a database or page reference into a bare id.
// Accepts a raw id, a hyphenated UUID, or a navigable URL whose last path
// segment ends in the id after a title slug. The result is hyphen-free
// and capped at 32 characters.
func ExtractID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty database reference", types.ErrValidation)
	}

	id := ref
	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("%w: unparseable reference %q", types.ErrValidation, ref)
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		id = segments[len(segments)-1]
		// A shared link carries a title slug before the id, joined by
		// hyphens: "My-Games-1a2b3c...".
		if i := strings.LastIndex(id, "-"); i >= 0 {
			id = id[i+1:]
		}
	}

	id = strings.ReplaceAll(id, "-", "")
	if id == "" {
		return "", fmt.Errorf("%w: no id in reference %q", types.ErrValidation, ref)
	}
	if len(id) > 32 {
		id = id[:32]
	}
	return id, nil
}
