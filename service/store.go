package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/HeyBatlle1/tos-salad/config"
	"github.com/HeyBatlle1/tos-salad/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store is the relational content store: companies, documents, analysis
// results and sanitized verification records.
type Store struct {
	db *gorm.DB
}

// NewStore opens the MySQL database and migrates the schema.
func NewStore(cfg *config.DatabaseConfig) (*Store, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewStoreWithDB(db)
}

// NewStoreWithDB wraps an existing gorm connection. Tests use this with an
// in-memory sqlite database.
func NewStoreWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&model.Company{},
		&model.Document{},
		&model.AnalysisResult{},
		&model.ConcerningClause{},
		&model.VerificationRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// UpsertCompany creates or updates a company keyed on its domain. The
// domain is the natural key; repeated upserts are idempotent.
func (s *Store) UpsertCompany(ctx context.Context, company *model.Company) error {
	if company.Domain == "" {
		return errors.New("company domain is required")
	}

	var existing model.Company
	err := s.db.WithContext(ctx).Where("domain = ?", company.Domain).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.db.WithContext(ctx).Create(company).Error
	case err != nil:
		return err
	}

	company.ID = existing.ID
	company.CreatedAt = existing.CreatedAt
	return s.db.WithContext(ctx).Save(company).Error
}

// GetCompanyByDomain fetches a company by its natural key.
func (s *Store) GetCompanyByDomain(ctx context.Context, domain string) (*model.Company, error) {
	var company model.Company
	if err := s.db.WithContext(ctx).Where("domain = ?", domain).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// SaveDocument stores a fetched ToS document. When the company's latest
// document carries the same content hash, only the fetch metadata is
// refreshed; the text did not change.
func (s *Store) SaveDocument(ctx context.Context, doc *model.Document) error {
	var latest model.Document
	err := s.db.WithContext(ctx).
		Where("company_id = ?", doc.CompanyID).
		Order("id DESC").
		First(&latest).Error
	if err == nil && latest.ContentHash == doc.ContentHash && doc.ContentHash != "" {
		latest.HTTPStatus = doc.HTTPStatus
		latest.ContentType = doc.ContentType
		latest.ContentLength = doc.ContentLength
		latest.FetchedAt = doc.FetchedAt
		*doc = latest
		return s.db.WithContext(ctx).Save(&latest).Error
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.WithContext(ctx).Create(doc).Error
}

// ReplaceAnalysis deletes any prior analysis for the company and inserts
// the new one in a single transaction. No versioning: one result per
// company.
func (s *Store) ReplaceAnalysis(ctx context.Context, analysis *model.AnalysisResult) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old []model.AnalysisResult
		if err := tx.Where("company_id = ?", analysis.CompanyID).Find(&old).Error; err != nil {
			return err
		}
		for i := range old {
			if err := tx.Where("analysis_result_id = ?", old[i].ID).
				Delete(&model.ConcerningClause{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("company_id = ?", analysis.CompanyID).
			Delete(&model.AnalysisResult{}).Error; err != nil {
			return err
		}
		if err := tx.Create(analysis).Error; err != nil {
			return err
		}
		// Mark the backing document as analyzed.
		if analysis.DocumentID != 0 {
			if err := tx.Model(&model.Document{}).
				Where("id = ?", analysis.DocumentID).
				Update("is_analyzed", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CompanyListing is one row of the list view: the company plus its latest
// analysis summary fields.
type CompanyListing struct {
	Company  model.Company         `json:"company"`
	Analysis *model.AnalysisResult `json:"analysis,omitempty"`
}

// ListCompanies returns all companies ordered by name, each with its
// latest analysis (clause list omitted in the list view).
func (s *Store) ListCompanies(ctx context.Context) ([]CompanyListing, error) {
	var companies []model.Company
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&companies).Error; err != nil {
		return nil, err
	}

	listings := make([]CompanyListing, 0, len(companies))
	for _, c := range companies {
		listing := CompanyListing{Company: c}
		var analysis model.AnalysisResult
		err := s.db.WithContext(ctx).
			Where("company_id = ?", c.ID).
			Order("id DESC").
			First(&analysis).Error
		if err == nil {
			listing.Analysis = &analysis
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// CompanyDetail is the full single-company view.
type CompanyDetail struct {
	Company  model.Company         `json:"company"`
	Document *model.Document       `json:"document,omitempty"`
	Analysis *model.AnalysisResult `json:"analysis,omitempty"`
}

// GetCompanyDetail returns one company with its latest document and full
// analysis including concerning clauses.
func (s *Store) GetCompanyDetail(ctx context.Context, domain string) (*CompanyDetail, error) {
	company, err := s.GetCompanyByDomain(ctx, domain)
	if err != nil {
		return nil, err
	}

	detail := &CompanyDetail{Company: *company}

	var doc model.Document
	err = s.db.WithContext(ctx).
		Where("company_id = ?", company.ID).
		Order("id DESC").
		First(&doc).Error
	if err == nil {
		detail.Document = &doc
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var analysis model.AnalysisResult
	err = s.db.WithContext(ctx).
		Preload("ConcerningClauses").
		Where("company_id = ?", company.ID).
		Order("id DESC").
		First(&analysis).Error
	if err == nil {
		detail.Analysis = &analysis
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return detail, nil
}

// SaveReport persists a sanitized verification record. Implements the
// verifier's ReportSink.
func (s *Store) SaveReport(ctx context.Context, rec *model.VerificationRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save verification record: %w", err)
	}
	slog.Debug("verification record saved", "report_id", rec.ReportID, "verdict", rec.OverallVerdict)
	return nil
}

// RecentReports lists the newest sanitized verification records.
func (s *Store) RecentReports(ctx context.Context, limit int) ([]model.VerificationRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var recs []model.VerificationRecord
	err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&recs).Error
	return recs, err
}
