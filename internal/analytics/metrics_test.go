package analytics_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/mailward/mailward/internal/analytics"
	"github.com/mailward/mailward/internal/decisions"
	"github.com/mailward/mailward/internal/queue"
	"github.com/mailward/mailward/pkg/pagination"
	"github.com/mailward/mailward/pkg/storage"
)

// fakeDocs is an in-memory decisions.Store with small list pages so window
// scans exercise the marker loop.
type fakeDocs struct {
	docs    map[string]decisions.Document
	failKey string
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{docs: make(map[string]decisions.Document)}
}

// add stores a document under today's offset day prefix and returns its key.
func (d *fakeDocs) add(dayOffset int, name string, doc decisions.Document) string {
	day := time.Now().UTC().AddDate(0, 0, dayOffset)
	key := decisions.DayPrefix("runs", day) + name
	d.docs[key] = doc
	return key
}

func (d *fakeDocs) Get(_ context.Context, loc decisions.Location) (decisions.Document, error) {
	if d.failKey != "" && loc.Key == d.failKey {
		return nil, decisions.ErrMalformed
	}
	doc, ok := d.docs[loc.Key]
	if !ok {
		return nil, decisions.ErrNotFound
	}
	return doc, nil
}

func (d *fakeDocs) Put(_ context.Context, loc decisions.Location, doc decisions.Document) error {
	d.docs[loc.Key] = doc
	return nil
}

func (d *fakeDocs) List(_ context.Context, prefix, marker string) (*storage.ListPage, error) {
	var keys []string
	for key := range d.docs {
		if strings.HasPrefix(key, prefix) && key > marker {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	const pageSize = 2
	page := &storage.ListPage{}
	if len(keys) > pageSize {
		page.Keys = keys[:pageSize]
		page.NextMarker = keys[pageSize-1]
	} else {
		page.Keys = keys
	}
	return page, nil
}

func (d *fakeDocs) Prefix() string { return "runs" }

// fakeQueue implements queue.Store; only CountCreatedBetween matters here.
type fakeQueue struct {
	count    int
	countErr error
}

func (q *fakeQueue) Find(context.Context, string) (*queue.Item, error) {
	return nil, queue.ErrNotFound
}

func (q *fakeQueue) Create(context.Context, queue.Item) error { return nil }

func (q *fakeQueue) Update(context.Context, string, queue.Update) error { return nil }

func (q *fakeQueue) Scan(context.Context, string, string, int) (*queue.ScanPage, error) {
	return &queue.ScanPage{}, nil
}

func (q *fakeQueue) CountCreatedBetween(context.Context, string, string) (int, error) {
	return q.count, q.countErr
}

func (q *fakeQueue) Search(
	_ context.Context,
	page pagination.PageRequest,
	_ queue.Filters,
) (*pagination.PageResult[queue.Item], error) {
	result := pagination.NewPageResult[queue.Item](nil, 0, page.Page, page.PageSize)
	return &result, nil
}

func newService(docs *fakeDocs, qs *fakeQueue) analytics.System {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return analytics.New(docs, qs, nil, logger, 4)
}

func decisionDoc(decision, ts string) decisions.Document {
	return decisions.Document{
		"decision":  decision,
		"timestamp": ts,
	}
}

func TestMetricsAggregates(t *testing.T) {
	now := time.Now().UTC()
	today := now.Format(time.RFC3339)
	yesterday := now.AddDate(0, 0, -1).Format(time.RFC3339)

	docs := newFakeDocs()
	docs.add(0, "a.json", decisions.Document{
		"decision":   "ALLOW",
		"timestamp":  today,
		"summary":    map[string]any{"classification": "clean", "has_phi": true},
		"elapsed_ms": 400.0,
	})
	docs.add(0, "b.json", decisions.Document{
		"decision":   "QUARANTINE",
		"timestamp":  today,
		"summary":    map[string]any{"classification": "phishing"},
		"elapsed_ms": 600.0,
	})
	docs.add(0, "c.json", decisionDoc("IT_REVIEW", today))
	docs.add(-1, "d.json", decisionDoc("EXPLODED", yesterday))
	docs.add(0, "ignored.txt", decisionDoc("ALLOW", today))

	qs := &fakeQueue{count: 5}
	svc := newService(docs, qs)

	report, err := svc.Metrics(context.Background(), 7)
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}

	if report.Total != 4 {
		t.Errorf("Total = %d, want 4 json documents", report.Total)
	}
	if report.Allowed != 1 || report.Quarantined != 1 || report.Errors != 1 {
		t.Errorf("counts = %d/%d/%d", report.Allowed, report.Quarantined, report.Errors)
	}
	if report.ITReview != 5 {
		t.Errorf("ITReview = %d, want the live queue count 5", report.ITReview)
	}
	if report.PHIFlagged != 1 {
		t.Errorf("PHIFlagged = %d, want 1", report.PHIFlagged)
	}
	if report.Labels["clean"] != 1 || report.Labels["phishing"] != 1 || report.Labels["unknown"] != 2 {
		t.Errorf("Labels = %v", report.Labels)
	}
	if report.AvgElapsedMS != 500 {
		t.Errorf("AvgElapsedMS = %v, want 500", report.AvgElapsedMS)
	}

	if len(report.Trend) != 7 {
		t.Fatalf("trend has %d points, want 7", len(report.Trend))
	}
	byDate := make(map[string]int)
	for _, point := range report.Trend {
		byDate[point.Date] = point.Count
	}
	if byDate[now.Format("2006-01-02")] != 3 {
		t.Errorf("today's trend count = %d, want 3", byDate[now.Format("2006-01-02")])
	}
	if byDate[now.AddDate(0, 0, -1).Format("2006-01-02")] != 1 {
		t.Errorf("yesterday's trend count = %d, want 1", byDate[now.AddDate(0, 0, -1).Format("2006-01-02")])
	}
	if byDate[now.AddDate(0, 0, -3).Format("2006-01-02")] != 0 {
		t.Error("empty days must appear as explicit zeroes")
	}
}

func TestMetricsDefaultsDays(t *testing.T) {
	svc := newService(newFakeDocs(), &fakeQueue{})

	report, err := svc.Metrics(context.Background(), 0)
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
	if report.Days != 7 || len(report.Trend) != 7 {
		t.Errorf("days = %d, trend = %d, want the 7-day default", report.Days, len(report.Trend))
	}
}

func TestMetricsKeepsDocumentCountWhenQueueFails(t *testing.T) {
	docs := newFakeDocs()
	docs.add(0, "a.json", decisionDoc("IT_REVIEW", time.Now().UTC().Format(time.RFC3339)))

	qs := &fakeQueue{countErr: errors.New("db down")}
	svc := newService(docs, qs)

	report, err := svc.Metrics(context.Background(), 7)
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
	if report.ITReview != 1 {
		t.Errorf("ITReview = %d, want the document-derived count 1", report.ITReview)
	}
}

func TestMetricsAbortsOnDocumentFailure(t *testing.T) {
	docs := newFakeDocs()
	docs.add(0, "a.json", decisionDoc("ALLOW", time.Now().UTC().Format(time.RFC3339)))
	docs.failKey = docs.add(0, "b.json", decisionDoc("ALLOW", time.Now().UTC().Format(time.RFC3339)))

	svc := newService(docs, &fakeQueue{})

	if _, err := svc.Metrics(context.Background(), 7); !errors.Is(err, decisions.ErrMalformed) {
		t.Errorf("Metrics() error = %v, a bad document must abort the scan", err)
	}
}
