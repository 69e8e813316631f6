package stats

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pdfshelf/pdfshelf-backend/models"
)

// ErrDuplicateVote is returned under RevoteReject when the identity already
// voted on the document. Callers map it to a 409.
var ErrDuplicateVote = errors.New("vote already exists for this identity")

// RevotePolicy decides what a second vote from the same identity does.
type RevotePolicy int

const (
	// RevoteReplace flips the stored vote and adjusts both polarity counters
	// in one transaction; total_ratings stays unchanged.
	RevoteReplace RevotePolicy = iota
	// RevoteReject refuses the second vote with ErrDuplicateVote.
	RevoteReject
)

// VoterIdentity deduplicates anonymous ratings: IP address plus the session id
// when the client has one. The transport layer extracts both, this package
// never sees a request.
type VoterIdentity struct {
	IPAddress string
	SessionID string
}

// RecordView bumps the view counter by one. Every call counts — no
// deduplication, matching the site's intent. The increment happens in a single
// UPDATE so concurrent requests never lose updates.
func RecordView(db *gorm.DB, pdfID uint) error {
	return bumpCounter(db, pdfID, "view_count")
}

// RecordDownload bumps the download counter, same semantics as RecordView.
func RecordDownload(db *gorm.DB, pdfID uint) error {
	return bumpCounter(db, pdfID, "download_count")
}

func bumpCounter(db *gorm.DB, pdfID uint, column string) error {
	res := db.Model(&models.Pdf{}).
		Where("id = ?", pdfID).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CastVote registers one vote per (identity, document). First votes insert a
// rating row and bump the matching polarity counter plus total_ratings. Repeat
// votes follow the policy. The whole sequence runs in one transaction and the
// unique index on the rating identity is the backstop: a duplicate-key error
// from a concurrent first vote is treated as "vote exists", not as a failure.
//
// Invariant after every successful call: likes_count + dislikes_count ==
// total_ratings.
func CastVote(db *gorm.DB, pdfID uint, voter VoterIdentity, positive bool, policy RevotePolicy) (*models.Pdf, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Rating
		err := tx.Where("pdf_id = ? AND ip_address = ? AND session_id = ?",
			pdfID, voter.IPAddress, voter.SessionID).
			First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			rating := models.Rating{
				PdfID:      pdfID,
				IPAddress:  voter.IPAddress,
				SessionID:  voter.SessionID,
				IsPositive: positive,
			}
			createErr := tx.Create(&rating).Error
			if createErr == nil {
				return applyFirstVote(tx, pdfID, positive)
			}
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return createErr
			}
			// Lost the race against a concurrent first vote; fall through to
			// the existing-vote path.
			if err := tx.Where("pdf_id = ? AND ip_address = ? AND session_id = ?",
				pdfID, voter.IPAddress, voter.SessionID).
				First(&existing).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if policy == RevoteReject {
			return ErrDuplicateVote
		}
		if existing.IsPositive == positive {
			return nil
		}
		if err := tx.Model(&existing).Update("is_positive", positive).Error; err != nil {
			return err
		}
		return flipVote(tx, pdfID, positive)
	})
	if err != nil {
		return nil, err
	}

	var pdf models.Pdf
	if err := db.First(&pdf, pdfID).Error; err != nil {
		return nil, err
	}
	return &pdf, nil
}

func applyFirstVote(tx *gorm.DB, pdfID uint, positive bool) error {
	column := polarityColumn(positive)
	res := tx.Model(&models.Pdf{}).
		Where("id = ?", pdfID).
		UpdateColumns(map[string]interface{}{
			column:          gorm.Expr(column+" + ?", 1),
			"total_ratings": gorm.Expr("total_ratings + ?", 1),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// flipVote moves one vote between polarity columns; total_ratings is
// untouched.
func flipVote(tx *gorm.DB, pdfID uint, positive bool) error {
	gained := polarityColumn(positive)
	lost := polarityColumn(!positive)
	res := tx.Model(&models.Pdf{}).
		Where("id = ?", pdfID).
		UpdateColumns(map[string]interface{}{
			gained: gorm.Expr(gained+" + ?", 1),
			lost:   gorm.Expr(lost+" - ?", 1),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func polarityColumn(positive bool) string {
	if positive {
		return "likes_count"
	}
	return "dislikes_count"
}
