// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PropertyKind names a typed-property field kind of the remote store.
// The values match the store's wire vocabulary.
type PropertyKind string

const (
	PropTitle       PropertyKind = "title"
	PropRichText    PropertyKind = "rich_text"
	PropNumber      PropertyKind = "number"
	PropSelect      PropertyKind = "select"
	PropMultiSelect PropertyKind = "multi_select"
	PropURL         PropertyKind = "url"
)

// TypedProperty is a tagged value matching one of the store's field kinds.
// Exactly one payload field is meaningful for a given Kind: Text for
// title/rich_text, Number for number, Name for select, Values for
// multi_select, and URL for url.
type TypedProperty struct {
	Kind   PropertyKind
	Text   string
	Number float64
	Name   string
	Values []string
	URL    string
}

// TitleProperty builds a title-kind property.
func TitleProperty(text string) TypedProperty {
	return TypedProperty{Kind: PropTitle, Text: text}
}

// RichTextProperty builds a rich_text-kind property.
func RichTextProperty(text string) TypedProperty {
	return TypedProperty{Kind: PropRichText, Text: text}
}

// NumberProperty builds a number-kind property.
func NumberProperty(n float64) TypedProperty {
	return TypedProperty{Kind: PropNumber, Number: n}
}

// SelectProperty builds a select-kind property.
func SelectProperty(name string) TypedProperty {
	return TypedProperty{Kind: PropSelect, Name: name}
}

// MultiSelectProperty builds a multi_select-kind property. An empty value
// list is meaningful: it clears the field on the store side.
func MultiSelectProperty(values ...string) TypedProperty {
	if values == nil {
		values = []string{}
	}
	return TypedProperty{Kind: PropMultiSelect, Values: values}
}

// URLProperty builds a url-kind property.
func URLProperty(href string) TypedProperty {
	return TypedProperty{Kind: PropURL, URL: href}
}

// PropertySpec binds a logical field to the store-side property name and
// the kind the store expects for it.
type PropertySpec struct {
	Property string       `yaml:"property"`
	Kind     PropertyKind `yaml:"kind"`
}

// PropertySchema maps logical field names ("title", "status", "studio")
// to the property each collection type persists. The schema is
// configuration: fields absent from it are dropped silently during
// mapping, in both directions.
type PropertySchema map[string]PropertySpec

// StoredPage is a transient copy of a page owned by the remote store.
type StoredPage struct {
	ID         string
	URL        string
	Properties map[string]TypedProperty
	CoverURL   string
	IconURL    string
}

// Cursor is an opaque forward-only pagination token. It is valid for
// exactly one subsequent listing call; there is no backward cursor, and
// going back means restarting from the first page.
type Cursor string

// SortSpec orders a listing by one property.
type SortSpec struct {
	Property   string
	Descending bool
}
