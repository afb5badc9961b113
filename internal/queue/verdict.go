package queue

import (
	"context"
	"fmt"

	"github.com/mailward/mailward/internal/decisions"
	"github.com/mailward/mailward/internal/feedback"
)

// VerdictCommand carries a reviewer's decision. Actor defaults to "unknown"
// when empty; Notes may be empty.
type VerdictCommand struct {
	Verdict string `json:"verdict"`
	Actor   string `json:"actor"`
	Notes   string `json:"notes"`
}

// VerdictResult reports whether the mirrored document write happened
// alongside the authoritative queue update.
type VerdictResult struct {
	ID              string `json:"id"`
	Verdict         string `json:"verdict"`
	DocumentUpdated bool   `json:"document_updated"`
}

// ApplyVerdict resolves a pending item. The queue row is updated first and is
// authoritative; the decision document is then rewritten to mirror the
// resolution. A document failure fails the call but does not roll the queue
// update back. Feedback recording is best-effort.
func (s *service) ApplyVerdict(ctx context.Context, id string, cmd VerdictCommand) (*VerdictResult, error) {
	if cmd.Verdict != VerdictAllow && cmd.Verdict != VerdictBlock {
		return nil, ErrInvalidVerdict
	}
	if cmd.Actor == "" {
		cmd.Actor = "unknown"
	}

	item, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	update := Update{
		Status:     str(StatusResolved),
		Verdict:    str(cmd.Verdict),
		Actor:      str(cmd.Actor),
		Notes:      str(cmd.Notes),
		ResolvedTS: str(now),
	}
	if err := s.store.Update(ctx, id, update); err != nil {
		return nil, fmt.Errorf("resolve queue item %s: %w", id, err)
	}

	result := &VerdictResult{ID: id, Verdict: cmd.Verdict}

	if item.HasDocument() {
		if err := s.resolveDocument(ctx, item, cmd, now); err != nil {
			return nil, err
		}
		result.DocumentUpdated = true
	}

	s.recordFeedback(ctx, item, cmd)
	s.metrics.ObserveVerdict(cmd.Verdict)
	s.logger.Info("verdict applied", "id", id, "verdict", cmd.Verdict, "actor", cmd.Actor)

	return result, nil
}

// SetNotes updates an item's reviewer notes. The queue row is authoritative;
// the document-side patch is best-effort and its failure only logged.
func (s *service) SetNotes(ctx context.Context, id, notes string) error {
	item, err := s.store.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Update(ctx, id, Update{Notes: str(notes)}); err != nil {
		return fmt.Errorf("update notes %s: %w", id, err)
	}

	if item.HasDocument() {
		if err := s.patchDocumentNotes(ctx, item, notes); err != nil {
			s.logger.Warn("document notes patch failed", "id", id, "key", item.LogKey, "error", err)
		}
	}

	return nil
}

// resolveDocument rewrites the item's document with the resolved hitl state.
// Read-modify-write with no concurrency check; concurrent verdicts are
// last-write-wins here.
func (s *service) resolveDocument(ctx context.Context, item *Item, cmd VerdictCommand, ts string) error {
	loc := decisions.Location{Bucket: item.LogBucket, Key: item.LogKey}

	doc, err := s.docs.Get(ctx, loc)
	if err != nil {
		return fmt.Errorf("fetch document %s: %w", item.LogKey, err)
	}

	hitl := map[string]any{
		"status":  decisions.HitlStatusResolved,
		"actor":   cmd.Actor,
		"verdict": cmd.Verdict,
		"notes":   cmd.Notes,
		"ts":      ts,
	}
	doc["hitl"] = hitl
	if agent, ok := doc["decision_agent"].(map[string]any); ok {
		agent["hitl"] = hitl
	}

	q := doc.EnsureMap("queue")
	q["status"] = StatusResolved
	q["resolved_ts"] = ts

	if err := s.docs.Put(ctx, loc, doc); err != nil {
		return fmt.Errorf("write document %s: %w", item.LogKey, err)
	}
	return nil
}

func (s *service) patchDocumentNotes(ctx context.Context, item *Item, notes string) error {
	loc := decisions.Location{Bucket: item.LogBucket, Key: item.LogKey}

	doc, err := s.docs.Get(ctx, loc)
	if err != nil {
		return err
	}

	doc.EnsureMap("hitl")["notes"] = notes

	return s.docs.Put(ctx, loc, doc)
}

func (s *service) recordFeedback(ctx context.Context, item *Item, cmd VerdictCommand) {
	entry := feedback.Entry{
		RunID:      item.ID,
		Verdict:    cmd.Verdict,
		Actor:      cmd.Actor,
		Notes:      cmd.Notes,
		FromAddr:   item.FromAddr,
		FromDomain: item.FromDomain,
		Source:     feedback.SourceVerdict,
		LogBucket:  item.LogBucket,
		LogKey:     item.LogKey,
	}

	if err := s.feedback.Record(ctx, entry); err != nil {
		s.logger.Warn("feedback record failed", "id", item.ID, "error", err)
	}
}
