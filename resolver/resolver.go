package resolver

import (
	"errors"
	"time"

	"github.com/pdfshelf/pdfshelf-backend/models"
)

// ErrRedirectLoop means the redirect chain never reached an active document
// within the hop bound. That only happens when slug_history contains a cycle,
// so callers should log it and answer with a server error.
var ErrRedirectLoop = errors.New("slug redirect chain exceeded hop limit")

// DefaultMaxHops bounds the redirect walk. A document renamed ten times still
// resolves; corrupt cyclic data does not hang.
const DefaultMaxHops = 10

type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeFound
	OutcomeRedirect
)

// Result is what a slug resolves to. On OutcomeRedirect, CanonicalSlug is the
// document's current slug — chains collapse to the latest slug no matter how
// many renames happened in between.
type Result struct {
	Outcome       Outcome
	Pdf           *models.Pdf
	CanonicalSlug string
}

// Store is the read surface the resolver needs. Lookups return (nil, nil) when
// nothing matches; errors are store failures only.
type Store interface {
	ActivePdfBySlug(slug string) (*models.Pdf, error)
	LatestRedirect(oldSlug string) (*models.SlugHistory, error)
}

type Resolver struct {
	store   Store
	maxHops int

	// HonorExpiry gates resolution on redirect_until when true. The default
	// (false) keeps expired rows resolving; expiry then only affects the
	// admin listing.
	HonorExpiry bool

	// Now is swappable for tests.
	Now func() time.Time
}

func New(store Store) *Resolver {
	return &Resolver{
		store:   store,
		maxHops: DefaultMaxHops,
		Now:     time.Now,
	}
}

// Resolve maps a requested slug to the document it identifies today. It is a
// pure read: repeated calls against the same store state return the same
// result.
func (r *Resolver) Resolve(slug string) (Result, error) {
	current := slug

	for hop := 0; hop <= r.maxHops; hop++ {
		pdf, err := r.store.ActivePdfBySlug(current)
		if err != nil {
			return Result{}, err
		}
		if pdf != nil {
			if hop == 0 {
				return Result{Outcome: OutcomeFound, Pdf: pdf, CanonicalSlug: pdf.Slug}, nil
			}
			return Result{Outcome: OutcomeRedirect, Pdf: pdf, CanonicalSlug: pdf.Slug}, nil
		}

		redirect, err := r.store.LatestRedirect(current)
		if err != nil {
			return Result{}, err
		}
		if redirect == nil {
			return Result{Outcome: OutcomeNotFound}, nil
		}
		if r.HonorExpiry && redirect.Expired(r.Now()) {
			return Result{Outcome: OutcomeNotFound}, nil
		}
		current = redirect.NewSlug
	}

	return Result{}, ErrRedirectLoop
}
