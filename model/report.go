package model

import (
	"time"
)

// InputType tells the verifier what kind of input it was handed.
type InputType string

const (
	InputFile InputType = "file"
	InputURL  InputType = "url"
)

// ModuleName tags one check module inside a verification report.
type ModuleName string

const (
	ModuleAIDetection ModuleName = "AI_DETECTION"
	ModuleProvenance  ModuleName = "PROVENANCE_CHECK"
	ModuleMetadata    ModuleName = "METADATA_ANALYSIS"
	ModuleSafety      ModuleName = "SAFETY_SCAN"
)

// OverallVerdict is the aggregate conclusion of a verification run.
type OverallVerdict string

const (
	VerdictAnalysisComplete   OverallVerdict = "ANALYSIS_COMPLETE"
	VerdictAnalysisIncomplete OverallVerdict = "ANALYSIS_INCOMPLETE"
	VerdictSecurityRisk       OverallVerdict = "SECURITY_RISK_DETECTED"
	VerdictHighProbabilityAI  OverallVerdict = "HIGH_PROBABILITY_AI_GENERATED"
	VerdictManipulation       OverallVerdict = "SIGNS_OF_MANIPULATION"
	VerdictAnalysisFailed     OverallVerdict = "ANALYSIS_FAILED"
)

// RiskLevel buckets the summed module severity.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// AIVerdict is the AI-generation likelihood check's conclusion.
type AIVerdict string

const (
	AILikelyAuthentic AIVerdict = "likely_authentic"
	AISignsOfEditing  AIVerdict = "signs_of_editing"
	AIHighProbability AIVerdict = "high_probability_ai"
	AIAnalysisFailed  AIVerdict = "analysis_failed"
)

// Confidence tiers for the AI-generation likelihood check.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// AIDetectionResult carries the AI-generation likelihood check output.
// Score, confidence and reasoning are deliberately separate fields: the
// automated judgment is probabilistic evidence, never ground truth.
type AIDetectionResult struct {
	Score      int       `json:"ai_genesis_score"`
	Confidence string    `json:"confidence"`
	Artifacts  []string  `json:"detected_artifacts"`
	Reasoning  string    `json:"reasoning"`
	Verdict    AIVerdict `json:"verdict"`
	Format     string    `json:"format,omitempty"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
}

// ProvenanceVerdict summarizes how widely content was found elsewhere.
type ProvenanceVerdict string

const (
	ProvenanceNoMatches         ProvenanceVerdict = "no_matches_found"
	ProvenanceSingleSource      ProvenanceVerdict = "single_source"
	ProvenanceMultipleSources   ProvenanceVerdict = "multiple_sources"
	ProvenanceWidelyDistributed ProvenanceVerdict = "widely_distributed"
)

// ProvenanceMatch is one location where matching content was found.
type ProvenanceMatch struct {
	URL        string  `json:"url"`
	Date       string  `json:"date,omitempty"`
	Context    string  `json:"context,omitempty"`
	Similarity float64 `json:"similarity"`
}

// ProvenanceResult carries the duplicate-source check output.
type ProvenanceResult struct {
	PerceptualHash string            `json:"perceptual_hash"`
	Matches        []ProvenanceMatch `json:"matches"`
	MatchCount     int               `json:"match_count"`
	Verdict        ProvenanceVerdict `json:"verdict"`
}

// MetadataVerdict is an ordinal severity over accumulated warnings.
type MetadataVerdict string

const (
	MetadataNone             MetadataVerdict = "no_metadata"
	MetadataPresent          MetadataVerdict = "metadata_present"
	MetadataPotentialEditing MetadataVerdict = "potential_editing"
	MetadataHighRisk         MetadataVerdict = "high_manipulation_risk"
)

// MetadataFields are the embedded fields the metadata check extracts.
type MetadataFields struct {
	CaptureDevice   string `json:"capture_device,omitempty"`
	Timestamp       string `json:"timestamp,omitempty"`
	HasGPS          bool   `json:"has_gps"`
	EditingSoftware string `json:"editing_software,omitempty"`
}

// MetadataResult carries the metadata/fingerprint check output. The caveat
// ships with every result: embedded metadata is trivially forgeable and is
// never proof of origin.
type MetadataResult struct {
	Fields      MetadataFields  `json:"fields"`
	ContentHash string          `json:"content_hash"`
	Warnings    []string        `json:"warnings"`
	Caveat      string          `json:"caveat"`
	Verdict     MetadataVerdict `json:"verdict"`
}

// SafetyVerdict is the safety scan's binary conclusion.
type SafetyVerdict string

const (
	SafetySafe       SafetyVerdict = "SAFE"
	SafetyWarning    SafetyVerdict = "WARNING_DETECTED"
	SafetyInvalidURL SafetyVerdict = "INVALID_URL"
)

// SafetyResult carries the safety/threat scan output for either input kind.
type SafetyResult struct {
	Target       InputType     `json:"target"`
	Domain       string        `json:"domain,omitempty"`
	DetectedType string        `json:"detected_type,omitempty"`
	Flags        []string      `json:"risk_flags"`
	Verdict      SafetyVerdict `json:"verdict"`
}

// ModuleResult is one check module's contribution to a report. Exactly one
// of the payload pointers is set, matching Module. A non-empty Error means
// the module degraded rather than completed; it never aborts the report.
type ModuleResult struct {
	Module      ModuleName         `json:"module"`
	Error       string             `json:"error,omitempty"`
	AIDetection *AIDetectionResult `json:"ai_detection,omitempty"`
	Provenance  *ProvenanceResult  `json:"provenance,omitempty"`
	Metadata    *MetadataResult    `json:"metadata,omitempty"`
	Safety      *SafetyResult      `json:"safety,omitempty"`
}

// Failed reports whether the module degraded into its own failure state.
func (m *ModuleResult) Failed() bool {
	if m.Error != "" {
		return true
	}
	return m.AIDetection != nil && m.AIDetection.Verdict == AIAnalysisFailed
}

// ReportSummary holds short human-readable lines, one per module.
type ReportSummary struct {
	AIDetection string `json:"ai_detection,omitempty"`
	Provenance  string `json:"provenance,omitempty"`
	Metadata    string `json:"metadata,omitempty"`
	Safety      string `json:"safety,omitempty"`
}

// EthicalGuardrails is the fixed disclosure block attached to every report.
// This is a user-facing contract, not decoration.
type EthicalGuardrails struct {
	PrivacyNotice          string `json:"privacy_notice"`
	UncertaintyPrinciple   string `json:"uncertainty_principle"`
	TransparencyCommitment string `json:"transparency_commitment"`
}

// VerificationReport is the verifier's full output for one input.
type VerificationReport struct {
	ID                string            `json:"id"`
	Timestamp         time.Time         `json:"timestamp"`
	InputType         InputType         `json:"input_type"`
	Modules           []ModuleResult    `json:"analysis_modules"`
	OverallVerdict    OverallVerdict    `json:"overall_verdict"`
	RiskLevel         RiskLevel         `json:"risk_level"`
	Summary           ReportSummary     `json:"summary"`
	EthicalGuardrails EthicalGuardrails `json:"ethical_guardrails"`
	Error             string            `json:"error,omitempty"`
}
