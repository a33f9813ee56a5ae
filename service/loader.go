package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/HeyBatlle1/tos-salad/model"
	"github.com/HeyBatlle1/tos-salad/pkg/logger"
	"github.com/HeyBatlle1/tos-salad/scoring"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// How far the authored transparency score may drift from the
// clause-derived one before the loader logs an advisory.
const transparencyDriftLimit = 25

// SeedFile is the parameterized ingest format: one file of companies with
// optional document text and an authored analysis, replacing per-company
// one-off scripts.
type SeedFile struct {
	Companies []SeedCompany `yaml:"companies"`
}

type SeedCompany struct {
	Name         string        `yaml:"name"`
	Domain       string        `yaml:"domain"`
	Industry     string        `yaml:"industry"`
	Headquarters string        `yaml:"headquarters"`
	FoundedYear  int           `yaml:"founded_year"`
	TosURL       string        `yaml:"tos_url"`
	Document     *SeedDocument `yaml:"document"`
	Analysis     *SeedAnalysis `yaml:"analysis"`
}

type SeedDocument struct {
	Title       string `yaml:"title"`
	SourceURL   string `yaml:"source_url"`
	RawText     string `yaml:"raw_text"`
	CleanedText string `yaml:"cleaned_text"`
	HTTPStatus  int    `yaml:"http_status"`
	ContentType string `yaml:"content_type"`
}

type SeedClause struct {
	Category string `yaml:"category"`
	Concern  string `yaml:"concern"`
}

type SeedAnalysis struct {
	TransparencyScore     int          `yaml:"transparency_score"`
	UserFriendlinessScore int          `yaml:"user_friendliness_score"`
	PrivacyScore          int          `yaml:"privacy_score"`
	ManipulationRiskScore int          `yaml:"manipulation_risk_score"`
	DataCollectionRisk    string       `yaml:"data_collection_risk"`
	DataSharingRisk       string       `yaml:"data_sharing_risk"`
	TerminationRisk       string       `yaml:"termination_risk"`
	JurisdictionRisk      string       `yaml:"jurisdiction_risk"`
	ConcerningClauses     []SeedClause `yaml:"concerning_clauses"`
	KeyConcerns           []string     `yaml:"key_concerns"`
	Recommendations       []string     `yaml:"recommendations"`
	ManipulationTactics   []string     `yaml:"manipulation_tactics"`
	ExecutiveSummary      string       `yaml:"executive_summary"`
}

// LoadSummary reports what one loader run did.
type LoadSummary struct {
	Companies int `json:"companies"`
	Documents int `json:"documents"`
	Analyses  int `json:"analyses"`
	Archived  int `json:"archived"`
}

// Loader ingests seed files through the content store contract: upsert by
// domain, replace-not-append analysis, optional snapshot archival.
type Loader struct {
	store   *Store
	archive *ArchiveService // optional
}

func NewLoader(store *Store, archive *ArchiveService) *Loader {
	return &Loader{store: store, archive: archive}
}

// ParseSeedFile reads and validates a YAML seed file.
func ParseSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeed(data)
}

// ParseSeed parses and validates seed bytes.
func ParseSeed(data []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	for i := range seed.Companies {
		if err := validateSeedCompany(&seed.Companies[i]); err != nil {
			return nil, fmt.Errorf("company %d: %w", i, err)
		}
	}
	return &seed, nil
}

func validateSeedCompany(c *SeedCompany) error {
	if c.Name == "" || c.Domain == "" {
		return fmt.Errorf("name and domain are required")
	}
	if c.Analysis == nil {
		return nil
	}
	a := c.Analysis
	for _, score := range []int{
		a.TransparencyScore, a.UserFriendlinessScore,
		a.PrivacyScore, a.ManipulationRiskScore,
	} {
		if !model.ValidScore(score) {
			return fmt.Errorf("%s: sub-score %d out of range [0,100]", c.Domain, score)
		}
	}
	for _, r := range []string{
		a.DataCollectionRisk, a.DataSharingRisk,
		a.TerminationRisk, a.JurisdictionRisk,
	} {
		if r != "" && !model.ValidRiskRating(model.RiskRating(r)) {
			return fmt.Errorf("%s: unknown risk rating %q", c.Domain, r)
		}
	}
	return nil
}

// Run ingests all companies from the seed, a few at a time. Companies are
// independent, so one company's failure aborts the run without clobbering
// already-loaded ones.
func (l *Loader) Run(ctx context.Context, seed *SeedFile) (*LoadSummary, error) {
	var companies, documents, analyses, archived atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i := range seed.Companies {
		sc := &seed.Companies[i]
		g.Go(func() error {
			if err := l.loadCompany(gctx, sc, &documents, &analyses, &archived); err != nil {
				return fmt.Errorf("%s: %w", sc.Domain, err)
			}
			companies.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &LoadSummary{
		Companies: int(companies.Load()),
		Documents: int(documents.Load()),
		Analyses:  int(analyses.Load()),
		Archived:  int(archived.Load()),
	}
	logger.Info(ctx, "seed load complete",
		"companies", summary.Companies,
		"documents", summary.Documents,
		"analyses", summary.Analyses,
		"archived", summary.Archived,
	)
	return summary, nil
}

func (l *Loader) loadCompany(ctx context.Context, sc *SeedCompany, documents, analyses, archived *atomic.Int64) error {
	company := &model.Company{
		Name:         sc.Name,
		Domain:       sc.Domain,
		Industry:     sc.Industry,
		Headquarters: sc.Headquarters,
		FoundedYear:  sc.FoundedYear,
		TosURL:       sc.TosURL,
	}
	if err := l.store.UpsertCompany(ctx, company); err != nil {
		return fmt.Errorf("upsert company: %w", err)
	}

	var doc *model.Document
	if sc.Document != nil {
		sum := md5.Sum([]byte(sc.Document.RawText))
		doc = &model.Document{
			CompanyID:     company.ID,
			Title:         sc.Document.Title,
			SourceURL:     sc.Document.SourceURL,
			RawText:       sc.Document.RawText,
			CleanedText:   sc.Document.CleanedText,
			ContentHash:   hex.EncodeToString(sum[:]),
			HTTPStatus:    sc.Document.HTTPStatus,
			ContentType:   sc.Document.ContentType,
			ContentLength: int64(len(sc.Document.RawText)),
			FetchedAt:     time.Now(),
		}
		if err := l.store.SaveDocument(ctx, doc); err != nil {
			return fmt.Errorf("save document: %w", err)
		}
		documents.Add(1)

		if l.archive != nil && sc.Document.RawText != "" {
			if err := l.archive.PutSnapshot(ctx, company.Domain, doc.ContentHash, []byte(sc.Document.RawText)); err != nil {
				// Archival is best-effort.
				logger.Warn(ctx, "snapshot archival failed", "domain", company.Domain, "error", err)
			} else {
				archived.Add(1)
			}
		}
	}

	if sc.Analysis == nil {
		return nil
	}

	analysis := buildAnalysis(company.ID, doc, sc.Analysis)
	if err := l.store.ReplaceAnalysis(ctx, analysis); err != nil {
		return fmt.Errorf("replace analysis: %w", err)
	}
	analyses.Add(1)

	// Editorial scores are authoritative; the clause-derived score is an
	// advisory cross-check only.
	derived := scoring.TransparencyFromClauses(analysis.ConcerningClauses)
	if drift := analysis.TransparencyScore - derived; drift > transparencyDriftLimit || drift < -transparencyDriftLimit {
		logger.Warn(ctx, "authored transparency score drifts from clause-derived score",
			"domain", company.Domain,
			"authored", analysis.TransparencyScore,
			"derived", derived,
		)
	}
	return nil
}

func buildAnalysis(companyID uint, doc *model.Document, sa *SeedAnalysis) *model.AnalysisResult {
	analysis := &model.AnalysisResult{
		CompanyID:             companyID,
		TransparencyScore:     sa.TransparencyScore,
		UserFriendlinessScore: sa.UserFriendlinessScore,
		PrivacyScore:          sa.PrivacyScore,
		ManipulationRiskScore: sa.ManipulationRiskScore,
		DataCollectionRisk:    model.RiskRating(sa.DataCollectionRisk),
		DataSharingRisk:       model.RiskRating(sa.DataSharingRisk),
		TerminationRisk:       model.RiskRating(sa.TerminationRisk),
		JurisdictionRisk:      model.RiskRating(sa.JurisdictionRisk),
		KeyConcerns:           sa.KeyConcerns,
		Recommendations:       sa.Recommendations,
		ManipulationTactics:   sa.ManipulationTactics,
		ExecutiveSummary:      sa.ExecutiveSummary,
	}
	if doc != nil {
		analysis.DocumentID = doc.ID
	}
	for _, clause := range sa.ConcerningClauses {
		analysis.ConcerningClauses = append(analysis.ConcerningClauses, model.ConcerningClause{
			Category: model.ClauseCategory(clause.Category),
			Concern:  clause.Concern,
		})
	}
	return analysis
}
