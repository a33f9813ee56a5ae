package model

import (
	"time"
)

// Company is one corporate entity whose Terms-of-Service we track.
// Domain is the natural key: lookups and upserts key off it.
type Company struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Domain       string    `gorm:"size:255;uniqueIndex;not null" json:"domain"`
	Industry     string    `gorm:"size:255" json:"industry,omitempty"`
	Headquarters string    `gorm:"size:255" json:"headquarters,omitempty"`
	FoundedYear  int       `json:"founded_year,omitempty"`
	TosURL       string    `gorm:"size:1024" json:"tos_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Document is one fetched ToS text artifact tied to a Company.
// ContentHash is an MD5 fingerprint of the raw text used for change
// detection, not for security.
type Document struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CompanyID     uint      `gorm:"index;not null" json:"company_id"`
	Title         string    `gorm:"size:512" json:"title"`
	SourceURL     string    `gorm:"size:1024" json:"source_url"`
	RawText       string    `gorm:"type:longtext" json:"raw_text,omitempty"`
	CleanedText   string    `gorm:"type:longtext" json:"cleaned_text,omitempty"`
	ContentHash   string    `gorm:"size:32;index" json:"content_hash"`
	HTTPStatus    int       `json:"http_status,omitempty"`
	ContentType   string    `gorm:"size:255" json:"content_type,omitempty"`
	ContentLength int64     `json:"content_length,omitempty"`
	IsAnalyzed    bool      `json:"is_analyzed"`
	FetchedAt     time.Time `json:"fetched_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
