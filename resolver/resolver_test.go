package resolver

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfshelf/pdfshelf-backend/models"
)

type fakeStore struct {
	pdfs      map[string]*models.Pdf
	redirects []models.SlugHistory
}

func newFakeStore() *fakeStore {
	return &fakeStore{pdfs: make(map[string]*models.Pdf)}
}

func (f *fakeStore) addPdf(id uint, slug string) *models.Pdf {
	pdf := &models.Pdf{ID: id, Slug: slug, IsPublic: true}
	f.pdfs[slug] = pdf
	return pdf
}

func (f *fakeStore) addRedirect(id uint, oldSlug, newSlug string, createdAt time.Time) {
	f.redirects = append(f.redirects, models.SlugHistory{
		ID:            id,
		OldSlug:       oldSlug,
		NewSlug:       newSlug,
		CreatedAt:     createdAt,
		RedirectUntil: createdAt.Add(models.RedirectTTL),
	})
}

func (f *fakeStore) ActivePdfBySlug(slug string) (*models.Pdf, error) {
	return f.pdfs[slug], nil
}

func (f *fakeStore) LatestRedirect(oldSlug string) (*models.SlugHistory, error) {
	var best *models.SlugHistory
	for i := range f.redirects {
		r := &f.redirects[i]
		if r.OldSlug != oldSlug {
			continue
		}
		if best == nil || r.CreatedAt.After(best.CreatedAt) ||
			(r.CreatedAt.Equal(best.CreatedAt) && r.ID > best.ID) {
			best = r
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func TestResolveActiveSlug(t *testing.T) {
	store := newFakeStore()
	doc := store.addPdf(1, "intro-to-software-testing")

	res, err := New(store).Resolve("intro-to-software-testing")
	require.NoError(t, err)
	assert.Equal(t, OutcomeFound, res.Outcome)
	assert.Equal(t, doc.ID, res.Pdf.ID)
	assert.Equal(t, "intro-to-software-testing", res.CanonicalSlug)
}

func TestResolveNotFound(t *testing.T) {
	res, err := New(newFakeStore()).Resolve("no-such-document")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, res.Outcome)
	assert.Nil(t, res.Pdf)
}

func TestResolveRenamedDocument(t *testing.T) {
	store := newFakeStore()
	doc := store.addPdf(1, "intro-to-software-testing")
	store.addRedirect(1, "intro-to-testing", "intro-to-software-testing", time.Now())

	res, err := New(store).Resolve("intro-to-testing")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRedirect, res.Outcome)
	assert.Equal(t, "intro-to-software-testing", res.CanonicalSlug)
	assert.Equal(t, doc.ID, res.Pdf.ID)
}

func TestResolveChainsCollapseToCurrentSlug(t *testing.T) {
	for chainLen := 1; chainLen <= DefaultMaxHops; chainLen++ {
		t.Run(fmt.Sprintf("chain-%d", chainLen), func(t *testing.T) {
			store := newFakeStore()
			final := fmt.Sprintf("slug-%d", chainLen)
			doc := store.addPdf(1, final)
			base := time.Now().Add(-time.Duration(chainLen) * time.Hour)
			for i := 0; i < chainLen; i++ {
				store.addRedirect(uint(i+1),
					fmt.Sprintf("slug-%d", i), fmt.Sprintf("slug-%d", i+1),
					base.Add(time.Duration(i)*time.Hour))
			}

			r := New(store)
			res, err := r.Resolve("slug-0")
			require.NoError(t, err)
			assert.Equal(t, OutcomeRedirect, res.Outcome)
			assert.Equal(t, final, res.CanonicalSlug)

			direct, err := r.Resolve(final)
			require.NoError(t, err)
			assert.Equal(t, doc.ID, direct.Pdf.ID)
			assert.Equal(t, res.Pdf.ID, direct.Pdf.ID)
		})
	}
}

func TestResolvePicksNewestRedirectRow(t *testing.T) {
	// A document renamed A -> B -> A -> C leaves two rows for old slug A; the
	// older one points at the stale intermediate slug.
	store := newFakeStore()
	store.addPdf(1, "final")
	now := time.Now()
	store.addRedirect(1, "start", "stale", now.Add(-2*time.Hour))
	store.addRedirect(2, "start", "final", now)

	res, err := New(store).Resolve("start")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRedirect, res.Outcome)
	assert.Equal(t, "final", res.CanonicalSlug)
}

func TestResolveTieBreakOnID(t *testing.T) {
	store := newFakeStore()
	store.addPdf(1, "final")
	created := time.Now()
	store.addRedirect(1, "start", "dead-end", created)
	store.addRedirect(2, "start", "final", created)

	res, err := New(store).Resolve("start")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRedirect, res.Outcome)
	assert.Equal(t, "final", res.CanonicalSlug)
}

func TestResolveCycleReturnsError(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	store.addRedirect(1, "a", "b", now)
	store.addRedirect(2, "b", "a", now)

	_, err := New(store).Resolve("a")
	assert.ErrorIs(t, err, ErrRedirectLoop)
}

func TestResolveChainBeyondHopBound(t *testing.T) {
	store := newFakeStore()
	chainLen := DefaultMaxHops + 1
	store.addPdf(1, fmt.Sprintf("slug-%d", chainLen))
	now := time.Now()
	for i := 0; i < chainLen; i++ {
		store.addRedirect(uint(i+1),
			fmt.Sprintf("slug-%d", i), fmt.Sprintf("slug-%d", i+1), now)
	}

	_, err := New(store).Resolve("slug-0")
	assert.ErrorIs(t, err, ErrRedirectLoop)
}

func TestResolveIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addPdf(1, "current")
	store.addRedirect(1, "old", "current", time.Now())

	r := New(store)
	for _, slug := range []string{"current", "old", "missing"} {
		first, err1 := r.Resolve(slug)
		second, err2 := r.Resolve(slug)
		require.Equal(t, err1, err2)
		assert.Equal(t, first.Outcome, second.Outcome)
		assert.Equal(t, first.CanonicalSlug, second.CanonicalSlug)
	}
}

func TestExpiredRedirectStillResolvesByDefault(t *testing.T) {
	store := newFakeStore()
	store.addPdf(1, "current")
	store.addRedirect(1, "old", "current", time.Now().Add(-2*models.RedirectTTL))

	res, err := New(store).Resolve("old")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRedirect, res.Outcome)
}

func TestHonorExpiryStopsExpiredRedirects(t *testing.T) {
	store := newFakeStore()
	store.addPdf(1, "current")
	store.addRedirect(1, "old", "current", time.Now().Add(-2*models.RedirectTTL))

	r := New(store)
	r.HonorExpiry = true
	res, err := r.Resolve("old")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, res.Outcome)
}
