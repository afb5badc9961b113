package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mailward/mailward/internal/decisions"
)

// ReportCommand is an end-user complaint about a delivered message. Key is
// required and points at the decision document; an empty Bucket means the
// default container.
type ReportCommand struct {
	RunID      string `json:"run_id"`
	Bucket     string `json:"bucket"`
	Key        string `json:"key"`
	Reason     string `json:"reason"`
	ReportedBy string `json:"reported_by"`
	Source     string `json:"source"`
}

// ReportResult reports the queue identity the complaint landed on and
// whether a new row was created (false means an existing row was reopened).
type ReportResult struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

// Report escalates a document into the review queue. Re-reporting the same
// message reopens its existing row, so the operation is idempotent per
// identity. The document keeps any prior resolution history; the report only
// flags it as needing another look.
func (s *service) Report(ctx context.Context, cmd ReportCommand) (*ReportResult, error) {
	if cmd.Key == "" {
		return nil, ErrMissingKey
	}
	if cmd.Source == "" {
		cmd.Source = "user"
	}

	loc := decisions.Location{Bucket: cmd.Bucket, Key: cmd.Key}
	doc, err := s.docs.Get(ctx, loc)
	if err != nil {
		if errors.Is(err, decisions.ErrNotFound) {
			return nil, fmt.Errorf("%w: no document at %s", ErrNotFound, cmd.Key)
		}
		return nil, fmt.Errorf("fetch reported document %s: %w", cmd.Key, err)
	}

	id := reportIdentity(cmd, doc)
	now := s.timestamp()

	result := &ReportResult{ID: id}

	existing, err := s.store.Find(ctx, id)
	switch {
	case err == nil:
		update := Update{
			Status:       str(StatusPending),
			UserReported: boolean(true),
			ReportSource: str(cmd.Source),
			ReportReason: str(cmd.Reason),
			ReportedBy:   str(cmd.ReportedBy),
			ReportTS:     str(now),
		}
		if err := s.store.Update(ctx, existing.ID, update); err != nil {
			return nil, fmt.Errorf("reopen queue item %s: %w", id, err)
		}
		s.logger.Info("queue item reopened by user report", "id", id, "reported_by", cmd.ReportedBy)

	case errors.Is(err, ErrNotFound):
		item := Item{
			ID:           id,
			Status:       StatusPending,
			FromAddr:     doc.FromAddr(),
			FromDomain:   doc.FromDomain(),
			Subject:      doc.Subject(),
			Decision:     doc.Decision(),
			Risk:         doc.Risk(),
			HasPHI:       doc.HasPHI(),
			LogBucket:    cmd.Bucket,
			LogKey:       cmd.Key,
			CreatedTS:    now,
			UserReported: true,
			ReportSource: cmd.Source,
			ReportReason: cmd.Reason,
			ReportedBy:   cmd.ReportedBy,
			ReportTS:     now,
		}
		if err := s.store.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("create queue item %s: %w", id, err)
		}
		result.Created = true
		s.logger.Info("queue item created from user report", "id", id, "reported_by", cmd.ReportedBy)

	default:
		return nil, err
	}

	if err := s.patchReportedDocument(ctx, loc, doc, cmd, now); err != nil {
		return nil, err
	}

	s.metrics.ObserveReport()
	return result, nil
}

// patchReportedDocument flags the document as user-reported. Existing hitl
// actor/verdict/notes/ts survive; only the report markers are stamped.
func (s *service) patchReportedDocument(
	ctx context.Context,
	loc decisions.Location,
	doc decisions.Document,
	cmd ReportCommand,
	ts string,
) error {
	doc["user_reported"] = true

	hitl := doc.EnsureMap("hitl")
	hitl["status"] = decisions.HitlStatusRequired
	hitl["trigger"] = "user_reported"
	hitl["report_source"] = cmd.Source
	hitl["report_reason"] = cmd.Reason
	hitl["reported_by"] = cmd.ReportedBy
	hitl["report_ts"] = ts

	if err := s.docs.Put(ctx, loc, doc); err != nil {
		return fmt.Errorf("flag reported document %s: %w", loc.Key, err)
	}
	return nil
}

// reportIdentity derives the queue id for a report: the caller's run id,
// else the document's message id, else the key basename, else a fresh uuid.
func reportIdentity(cmd ReportCommand, doc decisions.Document) string {
	if cmd.RunID != "" {
		return cmd.RunID
	}
	if id := doc.MessageID(); id != "" {
		return id
	}
	if id := decisions.RunID(cmd.Key); id != "" {
		return id
	}
	return uuid.New().String()
}
