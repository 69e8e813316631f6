package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/lithammer/shortuuid/v4"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/pdfshelf/pdfshelf-backend/initializers"
	"github.com/pdfshelf/pdfshelf-backend/models"
	"github.com/pdfshelf/pdfshelf-backend/resolver"
	"github.com/pdfshelf/pdfshelf-backend/stats"
)

// VotePolicy is set once at boot; see ConfigureVotePolicy.
var VotePolicy = stats.RevoteReplace

// ConfigureVotePolicy reads VOTE_POLICY ("replace" or "reject") from the
// environment. Replace is the default: a second vote flips the stored one.
func ConfigureVotePolicy() {
	if os.Getenv("VOTE_POLICY") == "reject" {
		VotePolicy = stats.RevoteReject
	}
}

func newResolver() *resolver.Resolver {
	r := resolver.New(resolver.NewGormStore(initializers.DB))
	r.HonorExpiry = os.Getenv("HONOR_REDIRECT_EXPIRY") == "true"
	return r
}

// redirectTo answers a moved slug with the canonical location, preserving the
// caller's query string.
func redirectTo(c *gin.Context, path string) {
	if raw := c.Request.URL.RawQuery; raw != "" {
		path += "?" + raw
	}
	c.Header("Location", path)
	c.JSON(http.StatusMovedPermanently, gin.H{"location": path})
}

func resolveOr404(c *gin.Context, redirectPath func(slug string) string) (*models.Pdf, bool) {
	slug := c.Param("slug")
	res, err := newResolver().Resolve(slug)
	if err != nil {
		if errors.Is(err, resolver.ErrRedirectLoop) {
			log.Printf("redirect loop detected for slug %q", slug)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed"})
		return nil, false
	}

	switch res.Outcome {
	case resolver.OutcomeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return nil, false
	case resolver.OutcomeRedirect:
		redirectTo(c, redirectPath(res.CanonicalSlug))
		return nil, false
	}

	if !res.Pdf.IsPublic {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return nil, false
	}
	return res.Pdf, true
}

func ListDocuments(c *gin.Context) {
	var site models.SiteSetting
	perPage := 20
	if err := initializers.DB.First(&site).Error; err == nil && site.DocumentsPerPage > 0 {
		perPage = site.DocumentsPerPage
	}

	page := 1
	if _, err := fmt.Sscanf(c.DefaultQuery("page", "1"), "%d", &page); err != nil || page < 1 {
		page = 1
	}

	query := initializers.DB.Preload("Category").Where("is_public = ?", true)
	if q := c.Query("q"); q != "" {
		query = query.Where("title ILIKE ?", "%"+q+"%")
	}
	if cat := c.Query("category"); cat != "" {
		query = query.Joins("JOIN categories ON categories.id = pdfs.category_id").
			Where("categories.slug = ?", cat)
	}

	var total int64
	query.Model(&models.Pdf{}).Count(&total)

	var docs []models.Pdf
	if err := query.Order("created_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&docs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs, "total": total, "page": page, "per_page": perPage})
}

// GetDocument resolves a slug and returns the document. A renamed document
// answers 301 with its canonical location; every successful hit counts a view.
func GetDocument(c *gin.Context) {
	pdf, ok := resolveOr404(c, func(slug string) string {
		return "/api/documents/" + slug
	})
	if !ok {
		return
	}

	if err := stats.RecordView(initializers.DB, pdf.ID); err != nil {
		log.Printf("Error recording view for pdf %d: %v", pdf.ID, err)
	} else {
		pdf.ViewCount++
	}

	initializers.DB.Preload("Category").First(pdf, pdf.ID)

	c.JSON(http.StatusOK, gin.H{
		"document":            pdf,
		"positive_percentage": pdf.PositivePercentage(),
		"negative_percentage": pdf.NegativePercentage(),
	})
}

func DownloadDocument(c *gin.Context) {
	pdf, ok := resolveOr404(c, func(slug string) string {
		return "/api/documents/" + slug + "/download"
	})
	if !ok {
		return
	}

	body, size, err := initializers.Storage.Open(c.Request.Context(), pdf.FilePath)
	if err != nil {
		log.Printf("Error opening pdf %d: %v", pdf.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer body.Close()

	if err := stats.RecordDownload(initializers.DB, pdf.ID); err != nil {
		log.Printf("Error recording download for pdf %d: %v", pdf.ID, err)
	}

	var userID *uint
	if uid, ok := c.Get("userID"); ok {
		uidVal := uid.(uint)
		userID = &uidVal
	}
	event := models.DownloadEvent{
		PdfID:     pdf.ID,
		UserID:    userID,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	initializers.DB.Create(&event)

	c.DataFromReader(http.StatusOK, size, "application/pdf", body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", pdf.Slug+".pdf"),
	})
}

// DocumentQR renders a QR code pointing at the document's canonical URL.
func DocumentQR(c *gin.Context) {
	pdf, ok := resolveOr404(c, func(slug string) string {
		return "/api/documents/" + slug + "/qr"
	})
	if !ok {
		return
	}

	host := c.Request.Host
	var seo models.SeoSetting
	if err := initializers.DB.First(&seo).Error; err == nil && seo.CanonicalHost != "" {
		host = seo.CanonicalHost
	}

	png, err := qrcode.Encode("https://"+host+"/pdf/"+pdf.Slug, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// voterIdentity builds the dedup key for anonymous ratings: client IP plus a
// session id minted on first contact.
func voterIdentity(c *gin.Context) stats.VoterIdentity {
	session := sessions.Default(c)
	sid, _ := session.Get("sid").(string)
	if sid == "" {
		sid = shortuuid.New()
		session.Set("sid", sid)
		if err := session.Save(); err != nil {
			log.Printf("Error saving session: %v", err)
		}
	}
	return stats.VoterIdentity{IPAddress: c.ClientIP(), SessionID: sid}
}

func VoteDocument(c *gin.Context) {
	pdf, ok := resolveOr404(c, func(slug string) string {
		return "/api/documents/" + slug + "/vote"
	})
	if !ok {
		return
	}

	var body struct {
		Positive *bool `json:"positive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Positive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updated, err := stats.CastVote(initializers.DB, pdf.ID, voterIdentity(c), *body.Positive, VotePolicy)
	if err != nil {
		if errors.Is(err, stats.ErrDuplicateVote) {
			c.JSON(http.StatusConflict, gin.H{"error": "You already voted on this document"})
			return
		}
		log.Printf("Error casting vote for pdf %d: %v", pdf.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"likes_count":         updated.LikesCount,
		"dislikes_count":      updated.DislikesCount,
		"total_ratings":       updated.TotalRatings,
		"positive_percentage": updated.PositivePercentage(),
		"negative_percentage": updated.NegativePercentage(),
	})
}

// ToggleFavorite adds the document to the user's favorites, or removes it when
// already present.
func ToggleFavorite(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	pdf, ok := resolveOr404(c, func(slug string) string {
		return "/api/documents/" + slug + "/favorite"
	})
	if !ok {
		return
	}

	var fav models.Favorite
	err := initializers.DB.Where("user_id = ? AND pdf_id = ?", userID, pdf.ID).First(&fav).Error
	if err == nil {
		if err := initializers.DB.Delete(&fav).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"favorited": false})
		return
	}

	fav = models.Favorite{UserID: userID, PdfID: pdf.ID}
	if err := initializers.DB.Create(&fav).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": true})
}

func ListFavorites(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var favs []models.Favorite
	if err := initializers.DB.Preload("Pdf").Preload("Pdf.Category").
		Where("user_id = ?", userID).
		Find(&favs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favs})
}
