// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import (
	"strings"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// encodeProperties renders typed properties into the store's wire shape.
// Properties of an unknown kind are dropped rather than sent malformed.
func encodeProperties(props map[string]types.TypedProperty) map[string]any {
	out := make(map[string]any, len(props))
	for name, p := range props {
		if encoded := encodeProperty(p); encoded != nil {
			out[name] = encoded
		}
	}
	return out
}

func encodeProperty(p types.TypedProperty) map[string]any {
	switch p.Kind {
	case types.PropTitle:
		return map[string]any{"title": richTextPayload(p.Text)}
	case types.PropRichText:
		return map[string]any{"rich_text": richTextPayload(p.Text)}
	case types.PropNumber:
		return map[string]any{"number": p.Number}
	case types.PropSelect:
		if p.Name == "" {
			return map[string]any{"select": nil}
		}
		return map[string]any{"select": map[string]any{"name": p.Name}}
	case types.PropMultiSelect:
		// An empty option list must serialize as [], not null: it is the
		// wire form that clears the field.
		options := make([]any, 0, len(p.Values))
		for _, v := range p.Values {
			options = append(options, map[string]any{"name": v})
		}
		return map[string]any{"multi_select": options}
	case types.PropURL:
		if p.URL == "" {
			return map[string]any{"url": nil}
		}
		return map[string]any{"url": p.URL}
	}
	return nil
}

func richTextPayload(text string) []any {
	if text == "" {
		return []any{}
	}
	return []any{
		map[string]any{"text": map[string]any{"content": text}},
	}
}

// Wire shapes of the store's responses.
type wirePage struct {
	ID         string                  `json:"id"`
	URL        string                  `json:"url"`
	Cover      *wireFile               `json:"cover"`
	Icon       *wireFile               `json:"icon"`
	Properties map[string]wireProperty `json:"properties"`
}

type wireFile struct {
	Type     string      `json:"type"`
	External wireFileURL `json:"external"`
	File     wireFileURL `json:"file"`
}

type wireFileURL struct {
	URL string `json:"url"`
}

func (f *wireFile) url() string {
	if f == nil {
		return ""
	}
	if f.External.URL != "" {
		return f.External.URL
	}
	return f.File.URL
}

type wireProperty struct {
	Type        string         `json:"type"`
	Title       []wireRichText `json:"title"`
	RichText    []wireRichText `json:"rich_text"`
	Number      *float64       `json:"number"`
	Select      *wireOption    `json:"select"`
	MultiSelect []wireOption   `json:"multi_select"`
	URL         string         `json:"url"`
}

type wireRichText struct {
	PlainText string       `json:"plain_text"`
	Text      wireTextBody `json:"text"`
}

type wireTextBody struct {
	Content string `json:"content"`
}

func (r wireRichText) text() string {
	if r.PlainText != "" {
		return r.PlainText
	}
	return r.Text.Content
}

type wireOption struct {
	Name string `json:"name"`
}

type wireQueryResponse struct {
	Results    []wirePage `json:"results"`
	HasMore    bool       `json:"has_more"`
	NextCursor string     `json:"next_cursor"`
}

func (p *wirePage) toStored() *types.StoredPage {
	stored := &types.StoredPage{
		ID:         p.ID,
		URL:        p.URL,
		Properties: make(map[string]types.TypedProperty, len(p.Properties)),
		CoverURL:   p.Cover.url(),
		IconURL:    p.Icon.url(),
	}
	for name, prop := range p.Properties {
		if typed, ok := prop.toTyped(); ok {
			stored.Properties[name] = typed
		}
	}
	return stored
}

// toTyped folds a wire property into the typed form. Unset values
// (null number, null select, empty url) are reported as absent.
func (p wireProperty) toTyped() (types.TypedProperty, bool) {
	switch p.Type {
	case "title":
		return types.TitleProperty(joinRichText(p.Title)), true
	case "rich_text":
		text := joinRichText(p.RichText)
		if text == "" {
			return types.TypedProperty{}, false
		}
		return types.RichTextProperty(text), true
	case "number":
		if p.Number == nil {
			return types.TypedProperty{}, false
		}
		return types.NumberProperty(*p.Number), true
	case "select":
		if p.Select == nil || p.Select.Name == "" {
			return types.TypedProperty{}, false
		}
		return types.SelectProperty(p.Select.Name), true
	case "multi_select":
		values := make([]string, 0, len(p.MultiSelect))
		for _, opt := range p.MultiSelect {
			values = append(values, opt.Name)
		}
		return types.MultiSelectProperty(values...), true
	case "url":
		if p.URL == "" {
			return types.TypedProperty{}, false
		}
		return types.URLProperty(p.URL), true
	}
	return types.TypedProperty{}, false
}

func joinRichText(parts []wireRichText) string {
	texts := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := part.text(); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, "")
}
