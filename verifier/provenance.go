package verifier

import (
	"context"
	"fmt"

	"github.com/HeyBatlle1/tos-salad/model"
	"github.com/HeyBatlle1/tos-salad/pkg/logger"
)

// checkProvenance computes the perceptual hash and cross-references it
// against the configured lookup. Absence of a working lookup degrades to
// "no matches found" instead of blocking the rest of the report.
func (v *Verifier) checkProvenance(ctx context.Context, data []byte) model.ModuleResult {
	res := model.ModuleResult{Module: model.ModuleProvenance}

	phash, err := PerceptualHash(data)
	if err != nil {
		res.Error = fmt.Sprintf("perceptual hash failed: %v", err)
		res.Provenance = &model.ProvenanceResult{Verdict: model.ProvenanceNoMatches}
		return res
	}

	var matches []model.ProvenanceMatch
	if v.lookup != nil {
		callCtx, cancel := context.WithTimeout(ctx, v.lookupTimeout)
		defer cancel()

		matches, err = v.lookup.FindMatches(callCtx, phash)
		if err != nil {
			// Lookup unavailability is soft: report no matches.
			logger.Warn(ctx, "provenance lookup unavailable", "error", err)
			matches = nil
		}
	}

	res.Provenance = &model.ProvenanceResult{
		PerceptualHash: phash,
		Matches:        matches,
		MatchCount:     len(matches),
		Verdict:        provenanceVerdict(len(matches)),
	}
	return res
}

func provenanceVerdict(matchCount int) model.ProvenanceVerdict {
	switch {
	case matchCount == 0:
		return model.ProvenanceNoMatches
	case matchCount == 1:
		return model.ProvenanceSingleSource
	case matchCount < 5:
		return model.ProvenanceMultipleSources
	default:
		return model.ProvenanceWidelyDistributed
	}
}

// NoopLookup is the default lookup: it finds nothing. The real
// cross-reference service is a pluggable integration behind
// ProvenanceLookup.
type NoopLookup struct{}

// FindMatches always reports no matches.
func (NoopLookup) FindMatches(context.Context, string) ([]model.ProvenanceMatch, error) {
	return nil, nil
}
