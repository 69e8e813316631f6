package models

import (
	"time"
)

// Rating is one vote per (voter identity, document) pair. Anonymous voters are
// identified by IP address plus the session id when one exists; the composite
// unique index is the correctness backstop under concurrent first votes.
type Rating struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PdfID      uint   `gorm:"not null;uniqueIndex:idx_rating_identity" json:"pdf_id"`
	IPAddress  string `gorm:"not null;uniqueIndex:idx_rating_identity" json:"-"`
	SessionID  string `gorm:"uniqueIndex:idx_rating_identity" json:"-"`
	IsPositive bool   `gorm:"not null" json:"is_positive"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Pdf Pdf `gorm:"foreignKey:PdfID" json:"-"`
}
