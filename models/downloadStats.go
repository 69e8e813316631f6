// models/download_event.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DownloadEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PdfID     uint      `gorm:"index"`
	Pdf       Pdf       `gorm:"foreignKey:PdfID"`
	IPAddress string
	UserAgent string
	UserID    *uint
	CreatedAt time.Time
}

func (d *DownloadEvent) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
