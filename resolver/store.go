package resolver

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pdfshelf/pdfshelf-backend/models"
)

// GormStore serves resolver lookups from the application database.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) ActivePdfBySlug(slug string) (*models.Pdf, error) {
	var pdf models.Pdf
	err := s.DB.Where("slug = ?", slug).First(&pdf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pdf, nil
}

// LatestRedirect picks the newest matching row; a document renamed more than
// once leaves older rows pointing at intermediate slugs, and the newest row is
// the one that leads toward the current slug. Id breaks created_at ties.
func (s *GormStore) LatestRedirect(oldSlug string) (*models.SlugHistory, error) {
	var redirect models.SlugHistory
	err := s.DB.Where("old_slug = ?", oldSlug).
		Order("created_at DESC").
		Order("id DESC").
		First(&redirect).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &redirect, nil
}
