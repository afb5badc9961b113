package queue

import (
	"context"

	"github.com/mailward/mailward/pkg/pagination"
)

// ScanPage is one page of a keyset scan. NextCursor is empty when the scan
// is exhausted; otherwise it is passed back to continue after the last row.
type ScanPage struct {
	Items      []Item
	NextCursor string
}

// Update carries the fields of a partial row update. Nil fields are left
// untouched.
type Update struct {
	Status       *string
	Verdict      *string
	Actor        *string
	Notes        *string
	ResolvedTS   *string
	UserReported *bool
	ReportSource *string
	ReportReason *string
	ReportedBy   *string
	ReportTS     *string
}

// Store provides row-level access to the review queue.
type Store interface {
	// Find returns the item with the given id, or ErrNotFound.
	Find(ctx context.Context, id string) (*Item, error)
	// Create inserts a new row. Returns ErrDuplicate when the id exists.
	Create(ctx context.Context, item Item) error
	// Update applies the non-nil fields of u to the row with the given id.
	// Returns ErrNotFound when no row matches.
	Update(ctx context.Context, id string, u Update) error
	// Scan returns one page of rows ordered by id, filtered to status when
	// non-empty, starting after cursor.
	Scan(ctx context.Context, status, cursor string, limit int) (*ScanPage, error)
	// CountCreatedBetween counts rows whose created_ts falls in [from, to).
	// Bounds are ISO-8601 strings compared lexically.
	CountCreatedBetween(ctx context.Context, from, to string) (int, error)
	// Search returns a filtered, paginated result. page must already be
	// normalized.
	Search(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Item], error)
}
