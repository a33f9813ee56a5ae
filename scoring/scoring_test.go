package scoring

import (
	"testing"

	"github.com/HeyBatlle1/tos-salad/model"
)

func aiModule(verdict model.AIVerdict) model.ModuleResult {
	return model.ModuleResult{
		Module:      model.ModuleAIDetection,
		AIDetection: &model.AIDetectionResult{Verdict: verdict, Confidence: model.ConfidenceMedium},
	}
}

func safetyModule(verdict model.SafetyVerdict) model.ModuleResult {
	return model.ModuleResult{
		Module: model.ModuleSafety,
		Safety: &model.SafetyResult{Verdict: verdict},
	}
}

func metadataModule(verdict model.MetadataVerdict) model.ModuleResult {
	return model.ModuleResult{
		Module:   model.ModuleMetadata,
		Metadata: &model.MetadataResult{Verdict: verdict},
	}
}

func provenanceModule(verdict model.ProvenanceVerdict) model.ModuleResult {
	return model.ModuleResult{
		Module:     model.ModuleProvenance,
		Provenance: &model.ProvenanceResult{Verdict: verdict},
	}
}

func TestSeverityPoints(t *testing.T) {
	tests := []struct {
		name     string
		modules  []model.ModuleResult
		expected int
	}{
		{
			name:     "all clean",
			modules:  []model.ModuleResult{aiModule(model.AILikelyAuthentic), safetyModule(model.SafetySafe)},
			expected: 0,
		},
		{
			name:     "security warning weighs heaviest",
			modules:  []model.ModuleResult{safetyModule(model.SafetyWarning)},
			expected: 4,
		},
		{
			name: "signals accumulate",
			modules: []model.ModuleResult{
				aiModule(model.AIHighProbability),
				safetyModule(model.SafetyWarning),
				metadataModule(model.MetadataHighRisk),
			},
			expected: 10,
		},
		{
			name:     "failed module weighs lowest",
			modules:  []model.ModuleResult{{Module: model.ModuleAIDetection, Error: "timeout"}},
			expected: 1,
		},
		{
			name: "soft signals",
			modules: []model.ModuleResult{
				aiModule(model.AISignsOfEditing),
				metadataModule(model.MetadataPotentialEditing),
				provenanceModule(model.ProvenanceMultipleSources),
			},
			expected: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SeverityPoints(tt.modules); got != tt.expected {
				t.Errorf("SeverityPoints = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestBucketRisk(t *testing.T) {
	tests := []struct {
		points   int
		expected model.RiskLevel
	}{
		{0, model.RiskLow},
		{1, model.RiskLow},
		{2, model.RiskLow},
		{3, model.RiskMedium},
		{5, model.RiskMedium},
		{6, model.RiskHigh},
		{20, model.RiskHigh},
	}

	for _, tt := range tests {
		if got := BucketRisk(tt.points); got != tt.expected {
			t.Errorf("BucketRisk(%d) = %s, expected %s", tt.points, got, tt.expected)
		}
	}
}

func TestRiskForIsIdempotent(t *testing.T) {
	modules := []model.ModuleResult{
		aiModule(model.AISignsOfEditing),
		metadataModule(model.MetadataNone),
	}
	first := RiskFor(modules)
	second := RiskFor(modules)
	if first != second {
		t.Errorf("RiskFor not idempotent: %s then %s", first, second)
	}
}
