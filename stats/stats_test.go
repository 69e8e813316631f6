package stats

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pdfshelf/pdfshelf-backend/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every caller on the same in-memory database and
	// serializes concurrent writers.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Pdf{}, &models.Rating{}))
	return db
}

func createDoc(t *testing.T, db *gorm.DB) *models.Pdf {
	t.Helper()
	doc := models.Pdf{Title: "Doc", Slug: "doc", IsPublic: true}
	require.NoError(t, db.Create(&doc).Error)
	return &doc
}

func reload(t *testing.T, db *gorm.DB, id uint) *models.Pdf {
	t.Helper()
	var pdf models.Pdf
	require.NoError(t, db.First(&pdf, id).Error)
	return &pdf
}

func TestRecordViewIncrements(t *testing.T) {
	db := testDB(t)
	doc := createDoc(t, db)

	require.NoError(t, RecordView(db, doc.ID))
	require.NoError(t, RecordView(db, doc.ID))

	assert.Equal(t, int64(2), reload(t, db, doc.ID).ViewCount)
}

func TestRecordDownloadIncrements(t *testing.T) {
	db := testDB(t)
	doc := createDoc(t, db)

	require.NoError(t, RecordDownload(db, doc.ID))

	assert.Equal(t, int64(1), reload(t, db, doc.ID).DownloadCount)
}

func TestRecordViewUnknownDocument(t *testing.T) {
	db := testDB(t)

	err := RecordView(db, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecordViewConcurrent(t *testing.T) {
	db := testDB(t)
	doc := createDoc(t, db)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- RecordView(db, doc.ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, int64(5), reload(t, db, doc.ID).ViewCount)
}

func TestCastVoteFirstVote(t *testing.T) {
	db := testDB(t)
	doc := createDoc(t, db)
	// Pre-existing tallies: 3 likes, 1 dislike.
	require.NoError(t, db.Model(doc).UpdateColumns(map[string]interface{}{
		"likes_count": 3, "dislikes_count": 1, "total_ratings": 4,
	}).Error)

	updated, err := CastVote(db, doc.ID, VoterIdentity{IPAddress: "1.2.3.4"}, false, RevoteReplace)
	require.NoError(t, err)

	assert.Equal(t, int64(3), updated.LikesCount)
	assert.Equal(t, int64(2), updated.DislikesCount)
	assert.Equal(t, int64(5), updated.TotalRatings)
	assert.InDelta(t, 60.0, updated.PositivePercentage(), 0.001)
	assert.InDelta(t, 40.0, updated.NegativePercentage(), 0.001)
}

func TestCastVoteFlip(t *testing.T) {
	db := testDB(t)
	doc := createDoc(t, db)
	require.NoError(t, db.Model(doc).UpdateColumns(map[string]interface{}{
		"likes_count": 3, "dislikes_count": 1, "total_ratings": 4,
	}).Error)

	voter := VoterIdentity{IPAddress: "1.2.3.4"}
	_, err := CastVote(db, doc.ID, voter, false, RevoteReplace)
	require.NoError(t, err)

	updated, err := CastVote(db, doc.ID, voter, true, RevoteReplace)
	require.NoError(t, err)

	assert.Equal(t, int64(4), updated.LikesCount)
	assert.Equal(t, int64(1), updated.DislikesCount)
	assert.Equal(t, int64(5), updated.TotalRatings)

	var count int64
	db.Model(&models.Rating{}).Where("pdf_id = ?", doc.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCastVoteSamePolarityIsNoop(t *testing.T) {
	db := testDB(t)
	doc := createDoc(t, db)
	voter := VoterIdentity{IPAddress: "1.2.3.4"}

	_, err := CastVote(db, doc.ID, voter, true, RevoteReplace)
	require.NoError(t, err)
	updated, err := CastVote(db, doc.ID, voter, true, RevoteReplace)
	require.NoError(t, err)

	assert.Equal(t, int64(1), updated.LikesCount)
	assert.Equal(t, int64(1), updated.TotalRatings)
}

func TestCastVoteRejectPolicy(t *testing.T) {
	db := testDB(t)
	doc := createDoc(t, db)
	voter := VoterIdentity{IPAddress: "1.2.3.4"}

	_, err := CastVote(db, doc.ID, voter, true, RevoteReject)
	require.NoError(t, err)

	_, err = CastVote(db, doc.ID, voter, false, RevoteReject)
	assert.ErrorIs(t, err, ErrDuplicateVote)

	pdf := reload(t, db, doc.ID)
	assert.Equal(t, int64(1), pdf.LikesCount)
	assert.Equal(t, int64(0), pdf.DislikesCount)
	assert.Equal(t, int64(1), pdf.TotalRatings)
}

func TestSessionDistinguishesVoters(t *testing.T) {
	db := testDB(t)
	doc := createDoc(t, db)

	// Same IP, different sessions: two identities behind one NAT.
	_, err := CastVote(db, doc.ID, VoterIdentity{IPAddress: "1.2.3.4", SessionID: "s1"}, true, RevoteReplace)
	require.NoError(t, err)
	updated, err := CastVote(db, doc.ID, VoterIdentity{IPAddress: "1.2.3.4", SessionID: "s2"}, true, RevoteReplace)
	require.NoError(t, err)

	assert.Equal(t, int64(2), updated.TotalRatings)
}

func TestVoteInvariantHoldsAcrossSequence(t *testing.T) {
	db := testDB(t)
	doc := createDoc(t, db)

	for i := 0; i < 20; i++ {
		voter := VoterIdentity{IPAddress: fmt.Sprintf("10.0.0.%d", i)}
		updated, err := CastVote(db, doc.ID, voter, i%3 != 0, RevoteReplace)
		require.NoError(t, err)
		assert.Equal(t, updated.TotalRatings, updated.LikesCount+updated.DislikesCount)
	}
}

func TestUnratedPercentages(t *testing.T) {
	db := testDB(t)
	doc := createDoc(t, db)

	pdf := reload(t, db, doc.ID)
	assert.Equal(t, 0.0, pdf.PositivePercentage())
}
