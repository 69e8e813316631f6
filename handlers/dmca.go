package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdfshelf/pdfshelf-backend/initializers"
	"github.com/pdfshelf/pdfshelf-backend/models"
)

// SubmitDmca files a takedown request against a document. The reference token
// lets the requestor follow up without an account.
func SubmitDmca(c *gin.Context) {
	var body struct {
		PdfID          uint   `json:"pdf_id"`
		RequestorName  string `json:"requestor_name"`
		RequestorEmail string `json:"requestor_email"`
		Reason         string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil ||
		body.PdfID == 0 || body.RequestorName == "" || body.RequestorEmail == "" || body.Reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var pdf models.Pdf
	if err := initializers.DB.First(&pdf, body.PdfID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	request := models.DmcaRequest{
		PdfID:          body.PdfID,
		RequestorName:  body.RequestorName,
		RequestorEmail: body.RequestorEmail,
		Reason:         body.Reason,
		Status:         models.DmcaStatusPending,
	}
	if err := initializers.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reference_token": request.ReferenceToken, "status": request.Status})
}

func ListDmcaRequests(c *gin.Context) {
	query := initializers.DB.Preload("Pdf").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.DmcaRequest
	if err := query.Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func UpdateDmcaStatus(c *gin.Context) {
	var request models.DmcaRequest
	if err := initializers.DB.First(&request, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	switch body.Status {
	case models.DmcaStatusPending, models.DmcaStatusApproved, models.DmcaStatusRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	request.Status = body.Status
	if err := initializers.DB.Save(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}

	// An approved takedown unpublishes the document; the file itself is an
	// operator decision.
	if body.Status == models.DmcaStatusApproved {
		initializers.DB.Model(&models.Pdf{}).
			Where("id = ?", request.PdfID).
			Update("is_public", false)
	}

	c.JSON(http.StatusOK, gin.H{"request": request})
}
