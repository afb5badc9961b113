package queue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mailward/mailward/internal/decisions"
	"github.com/mailward/mailward/internal/queue"
)

func reportedDoc() decisions.Document {
	return decisions.Document{
		"decision": "ALLOW",
		"compact": map[string]any{
			"message_id": "m-77",
			"from":       map[string]any{"addr": "billing@vendor.example"},
			"subject":    "Invoice overdue",
		},
		"summary": map[string]any{
			"sender_risk": 0.4,
			"has_phi":     false,
		},
	}
}

func TestReportRequiresKey(t *testing.T) {
	svc := newService(newFakeStore(), newFakeDocs(), &fakeRecorder{})

	_, err := svc.Report(context.Background(), queue.ReportCommand{Reason: "looks wrong"})
	if !errors.Is(err, queue.ErrMissingKey) {
		t.Errorf("Report() error = %v, want ErrMissingKey", err)
	}
}

func TestReportUnknownDocument(t *testing.T) {
	svc := newService(newFakeStore(), newFakeDocs(), &fakeRecorder{})

	_, err := svc.Report(context.Background(), queue.ReportCommand{Key: "runs/nope.json"})
	if !errors.Is(err, queue.ErrNotFound) {
		t.Errorf("Report() error = %v, want ErrNotFound", err)
	}
}

func TestReportCreatesQueueItem(t *testing.T) {
	loc := decisions.Location{Key: "runs/2026/08/14/m-77.json"}
	store := newFakeStore()
	docs := newFakeDocs()
	docs.set(loc, reportedDoc())
	svc := newService(store, docs, &fakeRecorder{})

	cmd := queue.ReportCommand{
		Key:        loc.Key,
		Reason:     "phishing got through",
		ReportedBy: "dr.smith@clinic.example",
	}
	result, err := svc.Report(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if !result.Created {
		t.Error("Created = false, want a new row")
	}
	if result.ID != "m-77" {
		t.Errorf("id = %q, want the document message id", result.ID)
	}

	row := store.items["m-77"]
	if row.Status != queue.StatusPending {
		t.Errorf("status = %q", row.Status)
	}
	if row.FromAddr != "billing@vendor.example" || row.Subject != "Invoice overdue" {
		t.Errorf("denormalized fields = %q/%q", row.FromAddr, row.Subject)
	}
	if row.Decision != "ALLOW" || row.Risk != 0.4 {
		t.Errorf("decision/risk = %q/%v", row.Decision, row.Risk)
	}
	if !row.UserReported || row.ReportSource != "user" {
		t.Errorf("report markers = %v/%q, source should default to user", row.UserReported, row.ReportSource)
	}
	if row.ReportReason != "phishing got through" || row.ReportedBy != "dr.smith@clinic.example" {
		t.Errorf("report detail = %q/%q", row.ReportReason, row.ReportedBy)
	}
	if row.CreatedTS == "" || row.ReportTS == "" {
		t.Error("timestamps not stamped")
	}

	doc := docs.at(loc)
	if !doc.UserReported() {
		t.Error("document not flagged user_reported")
	}
	if doc.HitlStatus() != decisions.HitlStatusRequired {
		t.Errorf("document hitl status = %q", doc.HitlStatus())
	}
	if doc.String("hitl", "trigger") != "user_reported" {
		t.Errorf("hitl trigger = %q", doc.String("hitl", "trigger"))
	}
}

func TestReportReopensExistingItem(t *testing.T) {
	loc := decisions.Location{Key: "runs/m-77.json"}

	resolved := pendingItem("m-77", loc.Key)
	resolved.Status = queue.StatusResolved
	resolved.Verdict = queue.VerdictAllow
	resolved.Actor = "analyst"
	resolved.ResolvedTS = "2026-08-13T16:00:00Z"

	store := newFakeStore(resolved)
	docs := newFakeDocs()
	doc := reportedDoc()
	doc["hitl"] = map[string]any{
		"status":  "resolved",
		"actor":   "analyst",
		"verdict": "allow",
		"ts":      "2026-08-13T16:00:00Z",
	}
	docs.set(loc, doc)
	svc := newService(store, docs, &fakeRecorder{})

	result, err := svc.Report(context.Background(), queue.ReportCommand{
		Key:    loc.Key,
		RunID:  "m-77",
		Source: "helpdesk",
	})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if result.Created {
		t.Error("Created = true, want reopen of the existing row")
	}

	row := store.items["m-77"]
	if row.Status != queue.StatusPending {
		t.Errorf("status = %q, want pending after reopen", row.Status)
	}
	if !row.UserReported || row.ReportSource != "helpdesk" {
		t.Errorf("report markers = %v/%q", row.UserReported, row.ReportSource)
	}
	if row.Verdict != queue.VerdictAllow || row.ResolvedTS == "" {
		t.Error("prior resolution history should survive a reopen")
	}

	patched := docs.at(loc)
	if patched.HitlStatus() != decisions.HitlStatusRequired {
		t.Errorf("hitl status = %q, want required", patched.HitlStatus())
	}
	if patched.String("hitl", "actor") != "analyst" || patched.String("hitl", "verdict") != "allow" {
		t.Error("prior hitl resolution fields should survive the report patch")
	}
}

func TestReportIdentityFallsBackToKeyBasename(t *testing.T) {
	loc := decisions.Location{Key: "runs/2026/08/14/m-90_101500.json"}
	store := newFakeStore()
	docs := newFakeDocs()
	docs.set(loc, decisions.Document{"decision": "ALLOW"})
	svc := newService(store, docs, &fakeRecorder{})

	result, err := svc.Report(context.Background(), queue.ReportCommand{Key: loc.Key})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if result.ID != "m-90_101500" {
		t.Errorf("id = %q, want the key basename", result.ID)
	}
}

func TestReportIsIdempotentPerIdentity(t *testing.T) {
	loc := decisions.Location{Key: "runs/m-77.json"}
	store := newFakeStore()
	docs := newFakeDocs()
	docs.set(loc, reportedDoc())
	svc := newService(store, docs, &fakeRecorder{})

	first, err := svc.Report(context.Background(), queue.ReportCommand{Key: loc.Key})
	if err != nil {
		t.Fatalf("first Report() error = %v", err)
	}
	second, err := svc.Report(context.Background(), queue.ReportCommand{Key: loc.Key})
	if err != nil {
		t.Fatalf("second Report() error = %v", err)
	}

	if !first.Created || second.Created {
		t.Errorf("created = %v then %v, want true then false", first.Created, second.Created)
	}
	if len(store.items) != 1 {
		t.Errorf("queue holds %d rows, want 1", len(store.items))
	}
}
