package scoring

import (
	"github.com/HeyBatlle1/tos-salad/model"
)

// Points subtracted from a perfect 100 per flagged clause, by category.
// Categories that strip user rights outright cost more than disclosure
// or housekeeping concerns.
var clauseWeights = map[model.ClauseCategory]int{
	model.ClauseArbitration:      15,
	model.ClauseLiabilityWaiver:  12,
	model.ClauseDataSharing:      12,
	model.ClauseContentLicense:   10,
	model.ClauseUnilateralChange: 10,
	model.ClauseDataCollection:   8,
	model.ClauseTermination:      8,
	model.ClauseJurisdiction:     5,
	model.ClauseOther:            3,
}

// TransparencyFromClauses derives a 0-100 transparency score mechanically
// from the concerning-clause list, subtracting a per-category weight from
// 100 and flooring at zero. Editorial sub-scores remain authoritative; this
// derivation is advisory only, used to flag large editorial drift.
func TransparencyFromClauses(clauses []model.ConcerningClause) int {
	score := 100
	for _, c := range clauses {
		w, ok := clauseWeights[c.Category]
		if !ok {
			w = clauseWeights[model.ClauseOther]
		}
		score -= w
	}
	if score < 0 {
		score = 0
	}
	return score
}
