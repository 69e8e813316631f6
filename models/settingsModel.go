package models

import (
	"time"
)

// SeoSetting is a single-row table; defaults come from the environment at seed
// time, never from literals baked into the schema.
type SeoSetting struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	SiteTitle       string `json:"site_title"`
	MetaDescription string `json:"meta_description"`
	MetaKeywords    string `json:"meta_keywords"`
	RobotsTxt       string `json:"robots_txt"`
	CanonicalHost   string `json:"canonical_host"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type SiteSetting struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	SiteName         string `json:"site_name"`
	ContactEmail     string `json:"contact_email"`
	MaxUploadSizeMB  int    `gorm:"default:50" json:"max_upload_size_mb"`
	DocumentsPerPage int    `gorm:"default:20" json:"documents_per_page"`
	UpdatedAt        time.Time `json:"updated_at"`
}
