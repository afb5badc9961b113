package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mailward/mailward/internal/decisions"
	"github.com/mailward/mailward/internal/feedback"
	"github.com/mailward/mailward/internal/telemetry"
	"github.com/mailward/mailward/pkg/pagination"
)

// scanPageSize bounds each page of a full queue scan.
const scanPageSize = 200

// PendingItem is a queue row merged with fields extracted from its decision
// document. Document-derived values win over the row's denormalized copies;
// a row whose document cannot be fetched is returned bare.
type PendingItem struct {
	Item

	Recipient      string   `json:"recipient,omitempty"`
	Classification string   `json:"classification,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
	HitlStatus     string   `json:"hitl_status,omitempty"`
	HitlNotes      string   `json:"hitl_notes,omitempty"`
	BodyPreview    string   `json:"body_preview,omitempty"`
	Reasoning      string   `json:"reasoning,omitempty"`
	RiskNotes      []string `json:"risk_notes,omitempty"`
}

type service struct {
	store       Store
	docs        decisions.Store
	feedback    feedback.Recorder
	metrics     *telemetry.Metrics
	logger      *slog.Logger
	pagination  pagination.Config
	concurrency int
	now         func() time.Time
}

// New creates the review-queue service implementing the System interface.
// concurrency caps simultaneous document fetches during enrichment.
func New(
	store Store,
	docs decisions.Store,
	recorder feedback.Recorder,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
	pg pagination.Config,
	concurrency int,
) System {
	if concurrency <= 0 {
		concurrency = 8
	}

	return &service{
		store:       store,
		docs:        docs,
		feedback:    recorder,
		metrics:     metrics,
		logger:      logger.With("system", "queue"),
		pagination:  pg,
		concurrency: concurrency,
		now:         time.Now,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger, s.pagination)
}

// ListPending scans every pending row and enriches each with its decision
// document. Enrichment failures degrade to the bare row so one bad document
// never fails the whole listing.
func (s *service) ListPending(ctx context.Context) ([]PendingItem, error) {
	rows, err := s.scanAll(ctx, StatusPending)
	if err != nil {
		return nil, err
	}

	items := make([]PendingItem, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for idx, row := range rows {
		g.Go(func() error {
			items[idx] = s.enrich(gctx, row)
			return nil
		})
	}
	g.Wait()

	return items, nil
}

func (s *service) Search(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Item], error) {
	page.Normalize(s.pagination)
	return s.store.Search(ctx, page, filters)
}

// scanAll drains the keyset scan for a status, one page at a time.
func (s *service) scanAll(ctx context.Context, status string) ([]Item, error) {
	var rows []Item

	cursor := ""
	for {
		page, err := s.store.Scan(ctx, status, cursor, scanPageSize)
		if err != nil {
			return nil, fmt.Errorf("scan queue: %w", err)
		}

		rows = append(rows, page.Items...)
		if page.NextCursor == "" {
			return rows, nil
		}
		cursor = page.NextCursor
	}
}

func (s *service) enrich(ctx context.Context, row Item) PendingItem {
	item := PendingItem{Item: row}
	if !row.HasDocument() {
		return item
	}

	doc, err := s.docs.Get(ctx, decisions.Location{Bucket: row.LogBucket, Key: row.LogKey})
	if err != nil {
		s.logger.Warn("queue item enrichment failed", "id", row.ID, "key", row.LogKey, "error", err)
		return item
	}

	if addr := doc.FromAddr(); addr != "" {
		item.FromAddr = addr
	}
	if dom := doc.FromDomain(); dom != "" {
		item.FromDomain = dom
	}
	if subject := doc.Subject(); subject != "" {
		item.Subject = subject
	}

	item.Recipient = doc.Recipient()
	item.Classification = doc.Classification()
	item.Confidence = doc.Confidence()
	item.HitlStatus = doc.HitlStatus()
	item.HitlNotes = doc.HitlNotes()
	item.BodyPreview = decisions.BodyPreview(doc)
	item.Reasoning = decisions.Reasoning(doc)
	item.RiskNotes = doc.RiskNotes()
	item.UserReported = row.UserReported || doc.UserReported()

	return item
}

// timestamp formats the current time as a UTC ISO-8601 string, the format
// every timestamp column in the queue carries.
func (s *service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func str(v string) *string { return &v }

func boolean(v bool) *bool { return &v }
