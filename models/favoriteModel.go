package models

import (
	"time"
)

type Favorite struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_favorite_user_pdf" json:"user_id"`
	PdfID     uint `gorm:"not null;uniqueIndex:idx_favorite_user_pdf" json:"pdf_id"`
	CreatedAt time.Time `json:"created_at"`

	Pdf Pdf `gorm:"foreignKey:PdfID" json:"pdf"`
}
