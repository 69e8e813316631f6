package models

import (
	"time"

	"gorm.io/gorm"
)

// RedirectTTL is how long a historical slug keeps redirecting after a rename.
const RedirectTTL = 365 * 24 * time.Hour

type SlugHistory struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	OldSlug       string `gorm:"index;not null" json:"old_slug"`
	NewSlug       string `gorm:"not null" json:"new_slug"`
	PdfID         uint   `gorm:"index;not null" json:"pdf_id"`
	CreatedAt     time.Time `json:"created_at"`
	RedirectUntil time.Time `json:"redirect_until"`

	Pdf Pdf `gorm:"foreignKey:PdfID" json:"-"`
}

func (s *SlugHistory) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	if s.RedirectUntil.IsZero() {
		s.RedirectUntil = s.CreatedAt.Add(RedirectTTL)
	}
	return nil
}

// Expired rows are kept for the admin audit view, they are never purged.
func (s *SlugHistory) Expired(now time.Time) bool {
	return now.After(s.RedirectUntil)
}
