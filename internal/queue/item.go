// Package queue implements the human-review queue: listing with document
// enrichment, verdict resolution, notes, user-report escalation, and queue
// statistics. The queue store is the source of truth; the decision document
// is a denormalized mirror updated best-effort alongside it.
package queue

// Item statuses.
const (
	StatusPending  = "pending"
	StatusResolved = "resolved"
)

// Verdicts a reviewer can apply.
const (
	VerdictAllow = "allow"
	VerdictBlock = "block"
)

// Item is one review-queue row. Timestamps are UTC ISO-8601 strings as
// written by the pipeline; resolution and escalation fields are empty until
// their transitions occur.
type Item struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	FromAddr   string  `json:"from_addr"`
	FromDomain string  `json:"from_domain"`
	Subject    string  `json:"subject"`
	Decision   string  `json:"decision"`
	Risk       float64 `json:"risk"`
	HasPHI     bool    `json:"has_phi"`
	LogBucket  string  `json:"log_bucket"`
	LogKey     string  `json:"log_key"`
	CreatedTS  string  `json:"created_ts"`

	Verdict    string `json:"verdict,omitempty"`
	Actor      string `json:"actor,omitempty"`
	Notes      string `json:"notes,omitempty"`
	ResolvedTS string `json:"resolved_ts,omitempty"`

	UserReported bool   `json:"user_reported,omitempty"`
	ReportSource string `json:"report_source,omitempty"`
	ReportReason string `json:"report_reason,omitempty"`
	ReportedBy   string `json:"reported_by,omitempty"`
	ReportTS     string `json:"report_ts,omitempty"`
}

// HasDocument reports whether the item points at a decision document.
func (i *Item) HasDocument() bool {
	return i.LogKey != ""
}
