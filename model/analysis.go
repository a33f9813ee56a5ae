package model

import (
	"time"
)

// RiskRating grades a single contractual risk dimension.
type RiskRating string

const (
	RiskRatingLow      RiskRating = "low"
	RiskRatingMedium   RiskRating = "medium"
	RiskRatingHigh     RiskRating = "high"
	RiskRatingCritical RiskRating = "critical"
)

// ClauseCategory buckets a concerning clause by what it affects.
type ClauseCategory string

const (
	ClauseDataCollection   ClauseCategory = "data_collection"
	ClauseDataSharing      ClauseCategory = "data_sharing"
	ClauseArbitration      ClauseCategory = "arbitration"
	ClauseLiabilityWaiver  ClauseCategory = "liability_waiver"
	ClauseContentLicense   ClauseCategory = "content_license"
	ClauseTermination      ClauseCategory = "termination"
	ClauseUnilateralChange ClauseCategory = "unilateral_change"
	ClauseJurisdiction     ClauseCategory = "jurisdiction"
	ClauseOther            ClauseCategory = "other"
)

// AnalysisResult is one authored scoring pass over a company's ToS.
// Sub-scores are independent editorial integers in [0,100]; there is no
// enforced arithmetic relationship between them and the clause list.
// A new pass replaces the prior result for that company.
type AnalysisResult struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	CompanyID  uint `gorm:"index;not null" json:"company_id"`
	DocumentID uint `json:"document_id,omitempty"`

	TransparencyScore     int `json:"transparency_score"`
	UserFriendlinessScore int `json:"user_friendliness_score"`
	PrivacyScore          int `json:"privacy_score"`
	ManipulationRiskScore int `json:"manipulation_risk_score"`

	DataCollectionRisk RiskRating `gorm:"size:16" json:"data_collection_risk"`
	DataSharingRisk    RiskRating `gorm:"size:16" json:"data_sharing_risk"`
	TerminationRisk    RiskRating `gorm:"size:16" json:"termination_risk"`
	JurisdictionRisk   RiskRating `gorm:"size:16" json:"jurisdiction_risk"`

	ConcerningClauses []ConcerningClause `gorm:"constraint:OnDelete:CASCADE" json:"concerning_clauses"`

	KeyConcerns         StringList `gorm:"type:text" json:"key_concerns"`
	Recommendations     StringList `gorm:"type:text" json:"recommendations"`
	ManipulationTactics StringList `gorm:"type:text" json:"manipulation_tactics"`

	ExecutiveSummary string    `gorm:"type:text" json:"executive_summary"`
	CreatedAt        time.Time `json:"created_at"`
}

// ConcerningClause is one authored (category, concern) pair describing a
// specific user-hostile provision.
type ConcerningClause struct {
	ID               uint           `gorm:"primaryKey" json:"-"`
	AnalysisResultID uint           `gorm:"index" json:"-"`
	Category         ClauseCategory `gorm:"size:32" json:"category"`
	Concern          string         `gorm:"size:1024" json:"concern"`
}

// ValidScore reports whether an editorial sub-score is in range.
func ValidScore(n int) bool {
	return n >= 0 && n <= 100
}

// ValidRiskRating reports whether r is one of the four known grades.
func ValidRiskRating(r RiskRating) bool {
	switch r {
	case RiskRatingLow, RiskRatingMedium, RiskRatingHigh, RiskRatingCritical:
		return true
	}
	return false
}
