// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import "github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"

// maxOtherWithoutCover caps the lowest-confidence bucket so low-quality
// matches do not flood the result list.
const maxOtherWithoutCover = 10

// rankedHit pairs a candidate with the locale signal computed from the
// raw provider record.
type rankedHit struct {
	summary     types.CandidateSummary
	localeMatch bool
}

// rankByLocale orders hits by locale and cover availability: locale
// matches with covers first, then other records with covers, then locale
// matches without covers, and finally other records without covers capped
// at maxOtherWithoutCover. Order within each bucket is preserved.
func rankByLocale(hits []rankedHit) []types.CandidateSummary {
	var localeCover, otherCover, localeBare, otherBare []types.CandidateSummary

	for _, h := range hits {
		switch {
		case h.localeMatch && h.summary.HasCover:
			localeCover = append(localeCover, h.summary)
		case h.localeMatch:
			localeBare = append(localeBare, h.summary)
		case h.summary.HasCover:
			otherCover = append(otherCover, h.summary)
		default:
			otherBare = append(otherBare, h.summary)
		}
	}

	if len(otherBare) > maxOtherWithoutCover {
		otherBare = otherBare[:maxOtherWithoutCover]
	}

	ranked := make([]types.CandidateSummary, 0, len(localeCover)+len(otherCover)+len(localeBare)+len(otherBare))
	ranked = append(ranked, localeCover...)
	ranked = append(ranked, otherCover...)
	ranked = append(ranked, localeBare...)
	ranked = append(ranked, otherBare...)
	return ranked
}
