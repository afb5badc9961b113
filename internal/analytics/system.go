// Package analytics implements the window-scan engine over the decision log:
// metrics trends, history listings, and recipient inbox projections. All
// three share one primitive that enumerates date-partitioned prefixes,
// fetches every document in the window, and applies a reducer.
package analytics

import (
	"context"
	"time"
)

// System defines the public contract for window-scan operations.
type System interface {
	Handler() *Handler

	Metrics(ctx context.Context, days int) (*MetricsReport, error)
	History(ctx context.Context, from, to time.Time) ([]HistoryRecord, error)
	Inbox(ctx context.Context, address string, days int) ([]InboxMessage, error)
}
