package check

import (
	"context"
	"math"
)

// Store is the persistence boundary for checks.
//
// Implementations must scope every read to ownerID so that a foreign check is
// reported as ErrNotFound, and must return checks with their line items and
// owner name already loaded.
type Store interface {
	// Create persists the header and all line items in one transaction and
	// returns the stored check with its assigned id and timestamp.
	Create(ctx context.Context, c NewCheck) (Check, error)
	// GetByID returns ErrNotFound when the check is missing or owned by another user.
	GetByID(ctx context.Context, checkID, ownerID int64) (Check, error)
	// List returns matching checks newest first.
	List(ctx context.Context, ownerID int64, f Filter, p Page) ([]Check, error)
	// Count returns the number of checks matching f.
	Count(ctx context.Context, ownerID int64, f Filter) (int64, error)
}

// Page selects a window of a list.
type Page struct {
	Offset int
	Limit  int
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Normalize clamps the page to sane bounds. Offsets beyond MaxInt32 are
// clamped so they still select an empty page.
func (p Page) Normalize(defaultLimit, maxLimit int) Page {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Offset > math.MaxInt32 {
		p.Offset = math.MaxInt32
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}
