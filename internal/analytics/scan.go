package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mailward/mailward/internal/decisions"
	"github.com/mailward/mailward/internal/queue"
	"github.com/mailward/mailward/internal/telemetry"
)

type service struct {
	docs        decisions.Store
	queue       queue.Store
	metrics     *telemetry.Metrics
	logger      *slog.Logger
	concurrency int
	now         func() time.Time
}

// New creates the analytics service implementing the System interface.
// concurrency caps simultaneous document fetches during window scans.
func New(
	docs decisions.Store,
	queueStore queue.Store,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
	concurrency int,
) System {
	if concurrency <= 0 {
		concurrency = 8
	}

	return &service{
		docs:        docs,
		queue:       queueStore,
		metrics:     metrics,
		logger:      logger.With("system", "analytics"),
		concurrency: concurrency,
		now:         time.Now,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// scanWindow fetches every decision document dated between from and to
// (inclusive UTC calendar days) and feeds each to reduce in key order.
// Unlike queue enrichment, any fetch or parse failure aborts the whole scan.
func (s *service) scanWindow(
	ctx context.Context,
	from, to time.Time,
	reduce func(key string, doc decisions.Document) error,
) (int, error) {
	start := s.now()

	keys, err := s.listWindow(ctx, from, to)
	if err != nil {
		return 0, err
	}

	docs := make([]decisions.Document, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for idx, key := range keys {
		g.Go(func() error {
			doc, err := s.docs.Get(gctx, decisions.Location{Key: key})
			if err != nil {
				return fmt.Errorf("scan document %s: %w", key, err)
			}
			docs[idx] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for idx, doc := range docs {
		if err := reduce(keys[idx], doc); err != nil {
			return 0, err
		}
	}

	s.metrics.ObserveScan(start, len(keys))
	s.logger.Debug("window scan complete",
		"from", from.UTC().Format("2006-01-02"),
		"to", to.UTC().Format("2006-01-02"),
		"documents", len(keys),
	)

	return len(keys), nil
}

// listWindow enumerates each day prefix in the window and drains its paged
// listing sequentially, keeping only document keys.
func (s *service) listWindow(ctx context.Context, from, to time.Time) ([]string, error) {
	var keys []string

	for day := utcDay(from); !day.After(utcDay(to)); day = day.AddDate(0, 0, 1) {
		prefix := decisions.DayPrefix(s.docs.Prefix(), day)

		marker := ""
		for {
			page, err := s.docs.List(ctx, prefix, marker)
			if err != nil {
				return nil, fmt.Errorf("list window prefix %s: %w", prefix, err)
			}

			for _, key := range page.Keys {
				if strings.HasSuffix(key, ".json") {
					keys = append(keys, key)
				}
			}

			if page.NextMarker == "" {
				break
			}
			marker = page.NextMarker
		}
	}

	return keys, nil
}

// window converts a trailing day count into an inclusive [from, to] range
// ending today.
func (s *service) window(days int) (from, to time.Time) {
	to = utcDay(s.now())
	from = to.AddDate(0, 0, -(days - 1))
	return from, to
}

func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
