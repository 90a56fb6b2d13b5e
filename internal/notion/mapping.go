// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// Logical field names shared by every collection schema. Kind-specific
// fields ("status", "episodes", "label") live only in the schema tables.
const (
	FieldTitle       = "title"
	FieldCreators    = "creators"
	FieldYear        = "year"
	FieldDescription = "description"
)

// noStatusSentinel, as a text value bound for a multi_select field,
// clears the field instead of creating a "No Status" option.
const noStatusSentinel = "no status"

// ToStoreProperties maps a normalized record onto the store properties
// named by the schema. Logical fields the record does not carry are
// skipped, not cleared. A record without a title is rejected.
func ToStoreProperties(item *types.NormalizedItem, schema types.PropertySchema) (map[string]types.TypedProperty, error) {
	if item == nil || strings.TrimSpace(item.Title) == "" {
		return nil, fmt.Errorf("%w: record has no title", types.ErrValidation)
	}

	props := make(map[string]types.TypedProperty, len(schema))
	for field, spec := range schema {
		scalar, ok := scalarFor(item, field)
		if !ok {
			continue
		}
		if prop, ok := encodeScalar(scalar, spec.Kind); ok {
			props[spec.Property] = prop
		}
	}
	return props, nil
}

// ToChangedProperties maps only the named logical fields, for partial
// updates. Unknown field names are ignored.
func ToChangedProperties(item *types.NormalizedItem, schema types.PropertySchema, changed []string) map[string]types.TypedProperty {
	props := make(map[string]types.TypedProperty, len(changed))
	for _, field := range changed {
		spec, ok := schema[field]
		if !ok {
			continue
		}
		scalar, ok := scalarFor(item, field)
		if !ok {
			continue
		}
		if prop, ok := encodeScalar(scalar, spec.Kind); ok {
			props[spec.Property] = prop
		}
	}
	return props
}

// FromStorePage reverses the mapping: store properties named by the
// schema become logical fields on a normalized record. Properties absent
// from the schema are dropped.
func FromStorePage(page *types.StoredPage, schema types.PropertySchema) *types.NormalizedItem {
	item := &types.NormalizedItem{
		CoverURL: page.CoverURL,
		IconURL:  page.IconURL,
	}
	for field, spec := range schema {
		prop, ok := page.Properties[spec.Property]
		if !ok {
			continue
		}
		scalar, ok := decodeProperty(prop)
		if !ok {
			continue
		}
		switch field {
		case FieldTitle:
			item.Title = scalar.Text
		case FieldCreators:
			item.Creators = scalarList(scalar)
		case FieldYear:
			item.Year = int(scalar.Number)
		case FieldDescription:
			item.Description = scalar.Text
		default:
			item.SetExtra(field, scalar)
		}
	}
	return item
}

// scalarFor pulls the value of a logical field off a normalized record.
func scalarFor(item *types.NormalizedItem, field string) (types.Scalar, bool) {
	switch field {
	case FieldTitle:
		if item.Title == "" {
			return types.Scalar{}, false
		}
		return types.TextScalar(item.Title), true
	case FieldCreators:
		if len(item.Creators) == 0 {
			return types.Scalar{}, false
		}
		return types.ListScalar(item.Creators...), true
	case FieldYear:
		if item.Year == 0 {
			return types.Scalar{}, false
		}
		return types.NumberScalar(float64(item.Year)), true
	case FieldDescription:
		if item.Description == "" {
			return types.Scalar{}, false
		}
		return types.TextScalar(item.Description), true
	default:
		scalar, ok := item.Extra[field]
		return scalar, ok
	}
}

// encodeScalar coerces a scalar into the property kind the schema
// demands. Values that cannot be coerced (text into a number field) are
// reported absent rather than sent malformed.
func encodeScalar(scalar types.Scalar, kind types.PropertyKind) (types.TypedProperty, bool) {
	switch kind {
	case types.PropTitle:
		return types.TitleProperty(scalarText(scalar)), true
	case types.PropRichText:
		return types.RichTextProperty(scalarText(scalar)), true
	case types.PropNumber:
		switch scalar.Kind {
		case types.ScalarNumber:
			return types.NumberProperty(scalar.Number), true
		case types.ScalarText:
			n, err := strconv.ParseFloat(strings.TrimSpace(scalar.Text), 64)
			if err != nil {
				return types.TypedProperty{}, false
			}
			return types.NumberProperty(n), true
		}
		return types.TypedProperty{}, false
	case types.PropSelect:
		name := scalarText(scalar)
		if scalar.Kind == types.ScalarList && len(scalar.List) > 0 {
			name = scalar.List[0]
		}
		if name == "" {
			return types.TypedProperty{}, false
		}
		return types.SelectProperty(name), true
	case types.PropMultiSelect:
		return types.MultiSelectProperty(multiSelectValues(scalar)...), true
	case types.PropURL:
		href := scalarText(scalar)
		if href == "" {
			return types.TypedProperty{}, false
		}
		return types.URLProperty(href), true
	}
	return types.TypedProperty{}, false
}

// multiSelectValues expands a scalar into multi_select options. Text
// splits on commas; the sentinel collapses to no options, which clears
// the field.
func multiSelectValues(scalar types.Scalar) []string {
	switch scalar.Kind {
	case types.ScalarList:
		return scalar.List
	case types.ScalarNumber:
		return []string{formatNumber(scalar.Number)}
	default:
		text := strings.TrimSpace(scalar.Text)
		if text == "" || strings.EqualFold(text, noStatusSentinel) {
			return nil
		}
		var values []string
		for _, part := range strings.Split(text, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
		return values
	}
}

// decodeProperty folds a typed property back into a scalar. A singleton
// multi_select reads back as text, so single-valued fields round-trip.
func decodeProperty(prop types.TypedProperty) (types.Scalar, bool) {
	switch prop.Kind {
	case types.PropTitle, types.PropRichText:
		if prop.Text == "" {
			return types.Scalar{}, false
		}
		return types.TextScalar(prop.Text), true
	case types.PropNumber:
		return types.NumberScalar(prop.Number), true
	case types.PropSelect:
		return types.TextScalar(prop.Name), true
	case types.PropMultiSelect:
		switch len(prop.Values) {
		case 0:
			return types.Scalar{}, false
		case 1:
			return types.TextScalar(prop.Values[0]), true
		default:
			return types.ListScalar(prop.Values...), true
		}
	case types.PropURL:
		return types.TextScalar(prop.URL), true
	}
	return types.Scalar{}, false
}

func scalarText(scalar types.Scalar) string {
	switch scalar.Kind {
	case types.ScalarNumber:
		return formatNumber(scalar.Number)
	case types.ScalarList:
		return strings.Join(scalar.List, ", ")
	default:
		return scalar.Text
	}
}

func scalarList(scalar types.Scalar) []string {
	if scalar.Kind == types.ScalarList {
		return scalar.List
	}
	if text := scalarText(scalar); text != "" {
		return []string{text}
	}
	return nil
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
