// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notion is the typed-property store client. It persists
// normalized media records as pages in a Notion database and reads them
// back through forward-only paginated listings.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/httputil"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// notionAPIBase is the Notion REST endpoint root. Declared as a var so
// tests can substitute an httptest server.
var notionAPIBase = "https://api.notion.com/v1"

// notionVersion pins the wire format; property shapes change between
// versions.
const notionVersion = "2022-06-28"

const defaultPageSize = 100

// Client talks to one database of the remote store. A session uses one
// client per media kind.
type Client struct {
	httpClient *http.Client
	token      string
	databaseID string
	userAgent  string
	pageSize   int

	// TitleProperty is the database's title column, used for title
	// filters and the default listing sort.
	TitleProperty string
}

// NewClient builds a store client for one database. The database
// reference may be a raw id or a shared URL.
func NewClient(httpClient *http.Client, cfg types.StoreConfig, databaseRef string) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: store token not configured", types.ErrStoreAuth)
	}
	id, err := ExtractID(databaseRef)
	if err != nil {
		return nil, err
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:    httpClient,
		token:         cfg.Token,
		databaseID:    id,
		userAgent:     cfg.UserAgent,
		pageSize:      pageSize,
		TitleProperty: "Name",
	}, nil
}

// DatabaseID returns the normalized id of the backing database.
func (c *Client) DatabaseID() string { return c.databaseID }

// CreatePage inserts a record with the given properties and optional
// external cover and icon. Both image URLs are assumed verified.
func (c *Client) CreatePage(ctx context.Context, props map[string]types.TypedProperty, coverURL, iconURL string) (*types.StoredPage, error) {
	body := map[string]any{
		"parent":     map[string]any{"database_id": c.databaseID},
		"properties": encodeProperties(props),
	}
	if coverURL != "" {
		body["cover"] = externalFile(coverURL)
	}
	if iconURL != "" {
		body["icon"] = externalFile(iconURL)
	}

	var page wirePage
	if err := c.do(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	return page.toStored(), nil
}

// UpdatePage patches an existing record. Only the passed properties are
// touched; empty image URLs leave the current cover and icon in place.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props map[string]types.TypedProperty, coverURL, iconURL string) (*types.StoredPage, error) {
	body := map[string]any{}
	if len(props) > 0 {
		body["properties"] = encodeProperties(props)
	}
	if coverURL != "" {
		body["cover"] = externalFile(coverURL)
	}
	if iconURL != "" {
		body["icon"] = externalFile(iconURL)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: nothing to update on page %s", types.ErrValidation, pageID)
	}

	var page wirePage
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, body, &page); err != nil {
		return nil, fmt.Errorf("updating page %s: %w", pageID, err)
	}
	return page.toStored(), nil
}

// RetrievePage fetches one record by id.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (*types.StoredPage, error) {
	var page wirePage
	if err := httputil.GetJSON(ctx, c.httpClient, notionAPIBase+"/pages/"+pageID, c.header(), &page); err != nil {
		return nil, fmt.Errorf("retrieving page %s: %w", pageID, err)
	}
	return page.toStored(), nil
}

// ListPage returns one page of records plus the cursor for the next
// call. An empty cursor starts from the first page; an empty returned
// cursor means the listing is exhausted. Without a sort the listing is
// ordered by the title property ascending.
func (c *Client) ListPage(ctx context.Context, limit int, cursor types.Cursor, sort *types.SortSpec) ([]types.StoredPage, types.Cursor, error) {
	if limit <= 0 || limit > c.pageSize {
		limit = c.pageSize
	}
	body := map[string]any{"page_size": limit}
	if cursor != "" {
		body["start_cursor"] = string(cursor)
	}
	spec := types.SortSpec{Property: c.TitleProperty}
	if sort != nil {
		spec = *sort
	}
	direction := "ascending"
	if spec.Descending {
		direction = "descending"
	}
	body["sorts"] = []any{map[string]any{"property": spec.Property, "direction": direction}}

	var resp wireQueryResponse
	if err := c.do(ctx, http.MethodPost, "/databases/"+c.databaseID+"/query", body, &resp); err != nil {
		return nil, "", fmt.Errorf("listing database %s: %w", c.databaseID, err)
	}

	pages := make([]types.StoredPage, 0, len(resp.Results))
	for _, p := range resp.Results {
		pages = append(pages, *p.toStored())
	}
	var next types.Cursor
	if resp.HasMore && resp.NextCursor != "" {
		next = types.Cursor(resp.NextCursor)
	}
	return pages, next, nil
}

// SearchByTitle queries the database for pages whose title contains the
// given text. One batch of results; refining the text beats paging here.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]types.StoredPage, error) {
	body := map[string]any{
		"page_size": c.pageSize,
		"filter": map[string]any{
			"property": c.TitleProperty,
			"title":    map[string]any{"contains": title},
		},
	}

	var resp wireQueryResponse
	if err := c.do(ctx, http.MethodPost, "/databases/"+c.databaseID+"/query", body, &resp); err != nil {
		return nil, fmt.Errorf("searching database %s: %w", c.databaseID, err)
	}
	pages := make([]types.StoredPage, 0, len(resp.Results))
	for _, p := range resp.Results {
		pages = append(pages, *p.toStored())
	}
	return pages, nil
}

// ArchivePage removes a record from the collection. The store archives
// rather than deletes; the page stays recoverable on the store side.
func (c *Client) ArchivePage(ctx context.Context, pageID string) error {
	body := map[string]any{"archived": true}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, body, nil); err != nil {
		return fmt.Errorf("archiving page %s: %w", pageID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, notionAPIBase+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header()
	req.Header.Set("Content-Type", "application/json")
	return httputil.DoJSON(c.httpClient, req, v)
}

func (c *Client) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.token)
	h.Set("Notion-Version", notionVersion)
	if c.userAgent != "" {
		h.Set("User-Agent", c.userAgent)
	}
	return h
}

func externalFile(url string) map[string]any {
	return map[string]any{
		"type":     "external",
		"external": map[string]any{"url": url},
	}
}
