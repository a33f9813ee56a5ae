package model

import (
	"time"
)

// VerificationRecord is the sanitized projection of a VerificationReport
// that gets persisted: scores, verdicts and counts only. Raw input bytes
// and URLs never reach this table.
type VerificationRecord struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ReportID       string         `gorm:"size:36;uniqueIndex" json:"report_id"`
	InputType      InputType      `gorm:"size:8" json:"input_type"`
	OverallVerdict OverallVerdict `gorm:"size:40" json:"overall_verdict"`
	RiskLevel      RiskLevel      `gorm:"size:8" json:"risk_level"`
	ModuleCount    int            `json:"module_count"`
	FailedModules  int            `json:"failed_modules"`
	FlagCount      int            `json:"flag_count"`
	AIScore        int            `json:"ai_score"`
	AIVerdict      AIVerdict      `gorm:"size:32" json:"ai_verdict,omitempty"`
	MatchCount     int            `json:"match_count"`
	ContentHash    string         `gorm:"size:64" json:"content_hash,omitempty"`
	PerceptualHash string         `gorm:"size:16" json:"perceptual_hash,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// SanitizeReport projects a report down to its persistable shape.
func SanitizeReport(r *VerificationReport) *VerificationRecord {
	rec := &VerificationRecord{
		ReportID:       r.ID,
		InputType:      r.InputType,
		OverallVerdict: r.OverallVerdict,
		RiskLevel:      r.RiskLevel,
		ModuleCount:    len(r.Modules),
	}
	for i := range r.Modules {
		m := &r.Modules[i]
		if m.Failed() {
			rec.FailedModules++
		}
		switch {
		case m.AIDetection != nil:
			rec.AIScore = m.AIDetection.Score
			rec.AIVerdict = m.AIDetection.Verdict
		case m.Provenance != nil:
			rec.MatchCount = m.Provenance.MatchCount
			rec.PerceptualHash = m.Provenance.PerceptualHash
		case m.Metadata != nil:
			rec.ContentHash = m.Metadata.ContentHash
			rec.FlagCount += len(m.Metadata.Warnings)
		case m.Safety != nil:
			rec.FlagCount += len(m.Safety.Flags)
		}
	}
	return rec
}
