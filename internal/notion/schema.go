// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import "github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"

// SchemaFor returns the built-in property schema of a collection kind.
// Each schema binds the logical fields of that kind to the column names
// the databases actually use; some columns keep their Polish names.
func SchemaFor(kind types.MediaKind) types.PropertySchema {
	switch kind {
	case types.MediaGame:
		return types.PropertySchema{
			FieldTitle: {Property: "Name", Kind: types.PropTitle},
			FieldYear:  {Property: "Wydano", Kind: types.PropNumber},
			"status":   {Property: "Status", Kind: types.PropMultiSelect},
			"platform": {Property: "Platforma", Kind: types.PropSelect},
		}
	case types.MediaAnime:
		return types.PropertySchema{
			FieldTitle:       {Property: "Name", Kind: types.PropTitle},
			FieldCreators:    {Property: "Studio", Kind: types.PropMultiSelect},
			FieldYear:        {Property: "Wydano", Kind: types.PropNumber},
			FieldDescription: {Property: "Synopsis", Kind: types.PropRichText},
			"status":         {Property: "Status", Kind: types.PropMultiSelect},
			"episodes":       {Property: "Episodes", Kind: types.PropNumber},
			"seasons":        {Property: "Seasons", Kind: types.PropNumber},
			"airing":         {Property: "Airing", Kind: types.PropMultiSelect},
			"mal":            {Property: "MAL", Kind: types.PropURL},
			"anidb":          {Property: "AniDB", Kind: types.PropURL},
		}
	case types.MediaBook:
		return types.PropertySchema{
			FieldTitle:       {Property: "Name", Kind: types.PropTitle},
			FieldCreators:    {Property: "Authors", Kind: types.PropMultiSelect},
			FieldYear:        {Property: "Published", Kind: types.PropNumber},
			FieldDescription: {Property: "Description", Kind: types.PropRichText},
			"status":         {Property: "Status", Kind: types.PropMultiSelect},
			"format":         {Property: "Format", Kind: types.PropSelect},
			"pages":          {Property: "Pages", Kind: types.PropNumber},
			"publisher":      {Property: "Publisher", Kind: types.PropRichText},
			"categories":     {Property: "Categories", Kind: types.PropMultiSelect},
			"isbn":           {Property: "ISBN", Kind: types.PropRichText},
			"info":           {Property: "Info", Kind: types.PropURL},
		}
	case types.MediaVinyl:
		return types.PropertySchema{
			FieldTitle:       {Property: "Name", Kind: types.PropTitle},
			FieldCreators:    {Property: "Artist", Kind: types.PropMultiSelect},
			FieldYear:        {Property: "Wydano", Kind: types.PropNumber},
			FieldDescription: {Property: "Notes", Kind: types.PropRichText},
			"status":         {Property: "Status", Kind: types.PropMultiSelect},
			"format":         {Property: "Format", Kind: types.PropMultiSelect},
			"label":          {Property: "Label", Kind: types.PropMultiSelect},
			"genre":          {Property: "Genre", Kind: types.PropMultiSelect},
			"country":        {Property: "Country", Kind: types.PropSelect},
			"info":           {Property: "Info", Kind: types.PropURL},
		}
	}
	return nil
}
