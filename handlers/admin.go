package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pdfshelf/pdfshelf-backend/auth"
	"github.com/pdfshelf/pdfshelf-backend/initializers"
	"github.com/pdfshelf/pdfshelf-backend/models"
)

func Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var user models.User
	if err := initializers.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	access, refresh, err := auth.GenerateTokens(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "refresh_token": refresh, "is_admin": user.IsAdmin})
}

func RefreshToken(c *gin.Context) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	userID, err := auth.ValidateToken(body.RefreshToken, "refresh")
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	access, refresh, err := auth.GenerateTokens(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "refresh_token": refresh})
}

// makeSlug derives a URL slug from a title, appending a short random suffix
// when the natural slug is already taken by another document.
func makeSlug(db *gorm.DB, title string, excludeID uint) string {
	base := slug.Make(title)
	if base == "" {
		base = strings.ToLower(shortuuid.New()[:8])
	}

	candidate := base
	for {
		var count int64
		q := db.Model(&models.Pdf{}).Where("slug = ?", candidate)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		q.Count(&count)
		if count == 0 {
			return candidate
		}
		candidate = base + "-" + strings.ToLower(shortuuid.New()[:6])
	}
}

// UploadDocument stores the PDF (and optional cover), derives the slug and
// records the content hash for dedup detection.
func UploadDocument(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer src.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, src); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	contentHash := hex.EncodeToString(hasher.Sum(nil))
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}

	var dup models.Pdf
	if err := initializers.DB.Where("content_hash = ?", contentHash).First(&dup).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":                "An identical file already exists",
			"existing_document_id": dup.ID,
		})
		return
	}

	docSlug := makeSlug(initializers.DB, title, 0)
	storagePath := "pdfs/" + docSlug + ".pdf"
	if err := initializers.Storage.Save(c.Request.Context(), storagePath, src, "application/pdf"); err != nil {
		log.Printf("Error storing upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	coverPath := ""
	if cover, err := c.FormFile("cover"); err == nil {
		coverSrc, err := cover.Open()
		if err == nil {
			coverPath = "covers/" + docSlug + filepath.Ext(cover.Filename)
			if err := initializers.Storage.Save(c.Request.Context(), coverPath, coverSrc, cover.Header.Get("Content-Type")); err != nil {
				log.Printf("Error storing cover: %v", err)
				coverPath = ""
			}
			coverSrc.Close()
		}
	}

	pageCount := 0
	fmt.Sscanf(c.PostForm("page_count"), "%d", &pageCount)

	var categoryID *uint
	var catID uint
	if _, err := fmt.Sscanf(c.PostForm("category_id"), "%d", &catID); err == nil && catID != 0 {
		categoryID = &catID
	}

	newPdf := models.Pdf{
		Title:       title,
		Slug:        docSlug,
		Description: c.PostForm("description"),
		FilePath:    storagePath,
		ContentHash: &contentHash,
		CoverPath:   coverPath,
		PageCount:   pageCount,
		IsPublic:    c.DefaultPostForm("is_public", "true") != "false",
		CategoryID:  categoryID,
		UploaderID:  &userID,
	}
	if err := initializers.DB.Create(&newPdf).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB save failed"})
		return
	}
	initializers.DB.Preload("Category").First(&newPdf, newPdf.ID)

	c.JSON(http.StatusOK, gin.H{"document": newPdf})
}

// UpdateDocument edits metadata. A title change regenerates the slug and
// writes exactly one slug_history row so old links keep working.
func UpdateDocument(c *gin.Context) {
	id := c.Param("id")

	var pdf models.Pdf
	if err := initializers.DB.First(&pdf, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		CategoryID  *uint   `json:"category_id"`
		IsPublic    *bool   `json:"is_public"`
		PageCount   *int    `json:"page_count"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if body.Title != nil && *body.Title != "" && *body.Title != pdf.Title {
			newSlug := makeSlug(tx, *body.Title, pdf.ID)
			if newSlug != pdf.Slug {
				history := models.SlugHistory{
					OldSlug: pdf.Slug,
					NewSlug: newSlug,
					PdfID:   pdf.ID,
				}
				if err := tx.Create(&history).Error; err != nil {
					return err
				}
				pdf.Slug = newSlug
			}
			pdf.Title = *body.Title
		}
		if body.Description != nil {
			pdf.Description = *body.Description
		}
		if body.CategoryID != nil {
			pdf.CategoryID = body.CategoryID
		}
		if body.IsPublic != nil {
			pdf.IsPublic = *body.IsPublic
		}
		if body.PageCount != nil {
			pdf.PageCount = *body.PageCount
		}
		return tx.Save(&pdf).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Slug already in use"})
			return
		}
		log.Printf("Error updating pdf %d: %v", pdf.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}

	initializers.DB.Preload("Category").First(&pdf, pdf.ID)
	c.JSON(http.StatusOK, gin.H{"document": pdf})
}

// ListRedirects is the admin audit view: slug history partitioned into rows
// that still redirect and rows past their validity window. Expired rows are
// kept, never purged.
func ListRedirects(c *gin.Context) {
	var all []models.SlugHistory
	if err := initializers.DB.Order("created_at DESC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch redirects"})
		return
	}

	now := time.Now()
	active := make([]models.SlugHistory, 0, len(all))
	expired := make([]models.SlugHistory, 0)
	for _, r := range all {
		if r.Expired(now) {
			expired = append(expired, r)
		} else {
			active = append(active, r)
		}
	}

	c.JSON(http.StatusOK, gin.H{"active": active, "expired": expired})
}
