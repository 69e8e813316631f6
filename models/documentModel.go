package models

import (
	"time"
)

type Pdf struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Title         string `gorm:"not null" json:"title"`
	Slug          string `gorm:"uniqueIndex;not null" json:"slug"`
	Description   string `json:"description"`
	FilePath      string `json:"-"`
	ContentHash   *string `gorm:"index" json:"-"`
	CoverPath     string `json:"cover_path"`
	PageCount     int    `json:"page_count"`
	IsPublic      bool   `gorm:"default:true" json:"is_public"`
	ViewCount     int64  `gorm:"default:0" json:"view_count"`
	DownloadCount int64  `gorm:"default:0" json:"download_count"`
	LikesCount    int64  `gorm:"default:0" json:"likes_count"`
	DislikesCount int64  `gorm:"default:0" json:"dislikes_count"`
	TotalRatings  int64  `gorm:"default:0" json:"total_ratings"`
	CategoryID    *uint  `gorm:"index" json:"category_id"`
	UploaderID    *uint  `json:"uploader_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
	Uploader User     `gorm:"foreignKey:UploaderID" json:"-"`
}

// PositivePercentage is the share of positive votes, 0 when unrated.
func (p *Pdf) PositivePercentage() float64 {
	if p.TotalRatings == 0 {
		return 0
	}
	return float64(p.LikesCount) / float64(p.TotalRatings) * 100
}

func (p *Pdf) NegativePercentage() float64 {
	return 100 - p.PositivePercentage()
}
