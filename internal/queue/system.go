package queue

import (
	"context"

	"github.com/mailward/mailward/pkg/pagination"
)

// System defines the public contract for review-queue operations.
type System interface {
	Handler() *Handler

	ListPending(ctx context.Context) ([]PendingItem, error)
	ApplyVerdict(ctx context.Context, id string, cmd VerdictCommand) (*VerdictResult, error)
	SetNotes(ctx context.Context, id, notes string) error
	Report(ctx context.Context, cmd ReportCommand) (*ReportResult, error)
	Stats(ctx context.Context) (*Stats, error)

	Search(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Item], error)
}
