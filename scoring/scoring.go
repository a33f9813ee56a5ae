// Package scoring holds the pure scoring arithmetic used by the verifier
// and the content loader, kept out of the orchestration code so the weights
// and thresholds are unit-testable in isolation.
package scoring

import (
	"github.com/HeyBatlle1/tos-salad/model"
)

// Per-verdict severity points. Serious signals (an active security warning,
// a high-probability AI result) weigh more than soft or edit-only signals;
// a failed module weighs lowest since it proves nothing either way.
const (
	pointsSafetyWarning     = 4
	pointsAIHighProbability = 3
	pointsMetadataHighRisk  = 3
	pointsAIEditing         = 2
	pointsWidelyDistributed = 2
	pointsMetadataEditing   = 1
	pointsMetadataMissing   = 1
	pointsMultipleSources   = 1
	pointsModuleFailed      = 1
)

// Risk bucket thresholds over the summed points.
const (
	mediumRiskThreshold = 3
	highRiskThreshold   = 6
)

// SeverityPoints sums the per-module severity weights of a report's module
// results. Pure function of its input.
func SeverityPoints(modules []model.ModuleResult) int {
	total := 0
	for i := range modules {
		m := &modules[i]
		if m.Failed() {
			total += pointsModuleFailed
			continue
		}
		switch {
		case m.AIDetection != nil:
			switch m.AIDetection.Verdict {
			case model.AIHighProbability:
				total += pointsAIHighProbability
			case model.AISignsOfEditing:
				total += pointsAIEditing
			}
		case m.Provenance != nil:
			switch m.Provenance.Verdict {
			case model.ProvenanceWidelyDistributed:
				total += pointsWidelyDistributed
			case model.ProvenanceMultipleSources:
				total += pointsMultipleSources
			}
		case m.Metadata != nil:
			switch m.Metadata.Verdict {
			case model.MetadataHighRisk:
				total += pointsMetadataHighRisk
			case model.MetadataPotentialEditing:
				total += pointsMetadataEditing
			case model.MetadataNone:
				total += pointsMetadataMissing
			}
		case m.Safety != nil:
			if m.Safety.Verdict == model.SafetyWarning {
				total += pointsSafetyWarning
			}
		}
	}
	return total
}

// BucketRisk maps summed severity points to a coarse risk level.
func BucketRisk(points int) model.RiskLevel {
	switch {
	case points >= highRiskThreshold:
		return model.RiskHigh
	case points >= mediumRiskThreshold:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// RiskFor is the composed severity function: sum the module weights, then
// bucket. Idempotent and a pure function of the module results.
func RiskFor(modules []model.ModuleResult) model.RiskLevel {
	return BucketRisk(SeverityPoints(modules))
}
