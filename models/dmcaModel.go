package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DmcaStatusPending  = "pending"
	DmcaStatusApproved = "approved"
	DmcaStatusRejected = "rejected"
)

type DmcaRequest struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ReferenceToken uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"reference_token"`
	PdfID          uint      `gorm:"not null;index" json:"pdf_id"`
	RequestorName  string    `gorm:"not null" json:"requestor_name"`
	RequestorEmail string    `gorm:"not null" json:"requestor_email"`
	Reason         string    `gorm:"not null" json:"reason"`
	Status         string    `gorm:"default:pending" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Pdf Pdf `gorm:"foreignKey:PdfID" json:"-"`
}

func (d *DmcaRequest) BeforeCreate(tx *gorm.DB) error {
	if d.ReferenceToken == uuid.Nil {
		d.ReferenceToken = uuid.New()
	}
	return nil
}
