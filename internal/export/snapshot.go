// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes a local sqlite snapshot of a remote collection.
// The snapshot is a plain queryable copy for offline use; the remote
// store stays the single source of truth.
package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/notion"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// snapshotPageSize is the listing page size used during the walk.
const snapshotPageSize = 100

// PageSource lists stored pages one forward page at a time. Satisfied by
// the store client.
type PageSource interface {
	ListPage(ctx context.Context, limit int, cursor types.Cursor, sort *types.SortSpec) ([]types.StoredPage, types.Cursor, error)
}

// Snapshot manages the local sqlite snapshot database.
type Snapshot struct {
	db   *sql.DB
	path string
}

// NewSnapshot opens or creates the snapshot database at path, creating
// the schema if needed.
func NewSnapshot(path string) (*Snapshot, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}

	s := &Snapshot{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Snapshot) Close() error {
	return s.db.Close()
}

func (s *Snapshot) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			creators TEXT,
			year INTEGER,
			description TEXT,
			cover_url TEXT,
			icon_url TEXT,
			page_url TEXT,
			extra TEXT,
			exported_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_kind ON items(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_items_title ON items(title)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Summary holds counts from one snapshot run.
type Summary struct {
	Kind     string `yaml:"kind"`
	Exported int    `yaml:"exported"`
	Failed   int    `yaml:"failed"`
}

// Export walks every listing page of the source, maps each page back to
// a normalized record, and upserts it into the snapshot. Records without
// a usable title are counted as failed and skipped. Progress goes to w.
// On success a YAML summary is written next to the database file.
func (s *Snapshot) Export(ctx context.Context, source PageSource, kind types.MediaKind, w io.Writer) (Summary, error) {
	schema := notion.SchemaFor(kind)
	if schema == nil {
		return Summary{}, fmt.Errorf("%w: unknown collection kind %q", types.ErrValidation, kind)
	}

	summary := Summary{Kind: string(kind)}
	exportedAt := time.Now().UTC().Format(time.RFC3339)

	var cursor types.Cursor
	for {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		pages, next, err := source.ListPage(ctx, snapshotPageSize, cursor, nil)
		if err != nil {
			return summary, fmt.Errorf("listing collection: %w", err)
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return summary, fmt.Errorf("starting transaction: %w", err)
		}
		for _, page := range pages {
			item := notion.FromStorePage(&page, schema)
			if strings.TrimSpace(item.Title) == "" {
				fmt.Fprintf(w, "failed  %s: no title\n", page.ID)
				summary.Failed++
				continue
			}
			if err := upsertItem(ctx, tx, page, item, kind, exportedAt); err != nil {
				fmt.Fprintf(w, "failed  %s: %v\n", page.ID, err)
				summary.Failed++
				continue
			}
			fmt.Fprintf(w, "exported %s\n", item.Title)
			summary.Exported++
		}
		if err := tx.Commit(); err != nil {
			return summary, fmt.Errorf("committing snapshot page: %w", err)
		}

		if next == "" {
			break
		}
		cursor = next
	}

	fmt.Fprintf(w, "\nexported: %d, failed: %d\n", summary.Exported, summary.Failed)

	if err := s.writeSummary(summary); err != nil {
		fmt.Fprintf(w, "warning: summary write failed: %v\n", err)
	}
	return summary, nil
}

func upsertItem(ctx context.Context, tx *sql.Tx, page types.StoredPage, item *types.NormalizedItem, kind types.MediaKind, exportedAt string) error {
	creators, err := json.Marshal(item.Creators)
	if err != nil {
		return fmt.Errorf("encoding creators: %w", err)
	}
	extra, err := json.Marshal(item.Extra)
	if err != nil {
		return fmt.Errorf("encoding extra fields: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO items (id, kind, title, creators, year, description, cover_url, icon_url, page_url, extra, exported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			title = excluded.title,
			creators = excluded.creators,
			year = excluded.year,
			description = excluded.description,
			cover_url = excluded.cover_url,
			icon_url = excluded.icon_url,
			page_url = excluded.page_url,
			extra = excluded.extra,
			exported_at = excluded.exported_at`,
		page.ID, string(kind), item.Title, string(creators), item.Year,
		item.Description, item.CoverURL, item.IconURL, page.URL, string(extra), exportedAt,
	)
	return err
}

func (s *Snapshot) writeSummary(summary Summary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	path := strings.TrimSuffix(s.path, filepath.Ext(s.path)) + ".yaml"
	return os.WriteFile(path, data, 0o644)
}

// Count returns the number of snapshot rows for a kind. Used by the CLI
// to report snapshot state without a walk.
func (s *Snapshot) Count(ctx context.Context, kind types.MediaKind) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM items WHERE kind = ?`, string(kind),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting snapshot rows: %w", err)
	}
	return n, nil
}
