package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdfshelf/pdfshelf-backend/initializers"
	"github.com/pdfshelf/pdfshelf-backend/models"
)

func RobotsTxt(c *gin.Context) {
	var seo models.SeoSetting
	if err := initializers.DB.First(&seo).Error; err != nil || seo.RobotsTxt == "" {
		c.String(http.StatusOK, "User-agent: *\nAllow: /\n")
		return
	}
	c.String(http.StatusOK, seo.RobotsTxt)
}

// Sitemap lists every public document under its canonical slug.
func Sitemap(c *gin.Context) {
	host := c.Request.Host
	var seo models.SeoSetting
	if err := initializers.DB.First(&seo).Error; err == nil && seo.CanonicalHost != "" {
		host = seo.CanonicalHost
	}

	var docs []models.Pdf
	if err := initializers.DB.Select("slug", "updated_at").
		Where("is_public = ?", true).
		Find(&docs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build sitemap"})
		return
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "  <url><loc>https://%s/pdf/%s</loc><lastmod>%s</lastmod></url>\n",
			host, d.Slug, d.UpdatedAt.Format("2006-01-02"))
	}
	b.WriteString("</urlset>\n")

	c.Data(http.StatusOK, "application/xml", []byte(b.String()))
}

func GetSeoSettings(c *gin.Context) {
	var seo models.SeoSetting
	if err := initializers.DB.First(&seo).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"seo": seo})
}

func UpdateSeoSettings(c *gin.Context) {
	var seo models.SeoSetting
	if err := initializers.DB.First(&seo).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		return
	}

	var body struct {
		SiteTitle       *string `json:"site_title"`
		MetaDescription *string `json:"meta_description"`
		MetaKeywords    *string `json:"meta_keywords"`
		RobotsTxt       *string `json:"robots_txt"`
		CanonicalHost   *string `json:"canonical_host"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if body.SiteTitle != nil {
		seo.SiteTitle = *body.SiteTitle
	}
	if body.MetaDescription != nil {
		seo.MetaDescription = *body.MetaDescription
	}
	if body.MetaKeywords != nil {
		seo.MetaKeywords = *body.MetaKeywords
	}
	if body.RobotsTxt != nil {
		seo.RobotsTxt = *body.RobotsTxt
	}
	if body.CanonicalHost != nil {
		seo.CanonicalHost = *body.CanonicalHost
	}

	if err := initializers.DB.Save(&seo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"seo": seo})
}

func GetSiteSettings(c *gin.Context) {
	var site models.SiteSetting
	if err := initializers.DB.First(&site).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"site": site})
}

func UpdateSiteSettings(c *gin.Context) {
	var site models.SiteSetting
	if err := initializers.DB.First(&site).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		return
	}

	var body struct {
		SiteName         *string `json:"site_name"`
		ContactEmail     *string `json:"contact_email"`
		MaxUploadSizeMB  *int    `json:"max_upload_size_mb"`
		DocumentsPerPage *int    `json:"documents_per_page"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if body.SiteName != nil {
		site.SiteName = *body.SiteName
	}
	if body.ContactEmail != nil {
		site.ContactEmail = *body.ContactEmail
	}
	if body.MaxUploadSizeMB != nil && *body.MaxUploadSizeMB > 0 {
		site.MaxUploadSizeMB = *body.MaxUploadSizeMB
	}
	if body.DocumentsPerPage != nil && *body.DocumentsPerPage > 0 {
		site.DocumentsPerPage = *body.DocumentsPerPage
	}

	if err := initializers.DB.Save(&site).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"site": site})
}
