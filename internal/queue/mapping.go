package queue

import (
	"github.com/mailward/mailward/pkg/query"
)

var projection = query.
	NewProjectionMap("public", "hitl_queue", "q").
	Project("id", "ID").
	Project("status", "Status").
	Project("from_addr", "FromAddr").
	Project("from_domain", "FromDomain").
	Project("subject", "Subject").
	Project("decision", "Decision").
	Project("risk", "Risk").
	Project("has_phi", "HasPHI").
	Project("log_bucket", "LogBucket").
	Project("log_key", "LogKey").
	Project("created_ts", "CreatedTS").
	Project("verdict", "Verdict").
	Project("actor", "Actor").
	Project("notes", "Notes").
	Project("resolved_ts", "ResolvedTS").
	Project("user_reported", "UserReported").
	Project("report_source", "ReportSource").
	Project("report_reason", "ReportReason").
	Project("reported_by", "ReportedBy").
	Project("report_ts", "ReportTS")

var defaultSort = query.SortField{
	Field:      "CreatedTS",
	Descending: true,
}

// Filters contains optional filtering criteria for queue searches.
// Nil fields are ignored. Status, Decision, Verdict, Actor, and FromDomain
// use exact matching; Subject and FromAddr use case-insensitive contains.
type Filters struct {
	Status       *string `json:"status,omitempty"`
	Decision     *string `json:"decision,omitempty"`
	Verdict      *string `json:"verdict,omitempty"`
	Actor        *string `json:"actor,omitempty"`
	FromAddr     *string `json:"from_addr,omitempty"`
	FromDomain   *string `json:"from_domain,omitempty"`
	Subject      *string `json:"subject,omitempty"`
	HasPHI       *bool   `json:"has_phi,omitempty"`
	UserReported *bool   `json:"user_reported,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Decision", f.Decision).
		WhereEquals("Verdict", f.Verdict).
		WhereEquals("Actor", f.Actor).
		WhereContains("FromAddr", f.FromAddr).
		WhereEquals("FromDomain", f.FromDomain).
		WhereContains("Subject", f.Subject).
		WhereEquals("HasPHI", f.HasPHI).
		WhereEquals("UserReported", f.UserReported)
}
