package jobs

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfshelf/pdfshelf-backend/images"
	"github.com/pdfshelf/pdfshelf-backend/initializers"
	"github.com/pdfshelf/pdfshelf-backend/models"
	"github.com/pdfshelf/pdfshelf-backend/storage"
)

// StartThumbnailJob refreshes stale cover thumbnails every hour. Only runs
// against local storage; S3-hosted covers are served as uploaded.
func StartThumbnailJob() {
	ticker := time.NewTicker(1 * time.Hour)
	go func() {
		refreshThumbnails()
		for range ticker.C {
			refreshThumbnails()
		}
	}()
}

func refreshThumbnails() {
	disk, ok := initializers.Storage.(*storage.DiskBackend)
	if !ok {
		return
	}

	var docs []models.Pdf
	if err := initializers.DB.Where("cover_path <> ''").Find(&docs).Error; err != nil {
		log.Printf("Error listing documents for thumbnails: %v", err)
		return
	}

	for _, doc := range docs {
		src := disk.LocalPath(doc.CoverPath)
		base := strings.TrimSuffix(filepath.Base(doc.CoverPath), filepath.Ext(doc.CoverPath))
		dst := disk.LocalPath("thumbs/" + base + ".jpg")

		written, err := images.EnsureThumbnail(src, dst, images.ThumbWidth)
		if err != nil {
			log.Printf("Error generating thumbnail for pdf %d: %v", doc.ID, err)
			continue
		}
		if written {
			log.Printf("Refreshed thumbnail for pdf %d", doc.ID)
		}
	}
}
