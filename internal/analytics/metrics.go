package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/mailward/mailward/internal/decisions"
)

// TrendPoint is one day of the zero-filled trend series.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MetricsReport aggregates a trailing window of decision documents.
type MetricsReport struct {
	Days         int            `json:"days"`
	Total        int            `json:"total"`
	Allowed      int            `json:"allowed"`
	Quarantined  int            `json:"quarantined"`
	ITReview     int            `json:"it_review"`
	PHIFlagged   int            `json:"phi_flagged"`
	Errors       int            `json:"errors"`
	Labels       map[string]int `json:"labels"`
	AvgElapsedMS float64        `json:"avg_elapsed_ms"`
	Trend        []TrendPoint   `json:"trend"`
}

// Metrics scans the trailing N-day window and aggregates decision counts, a
// classification histogram, average latency, and a per-day trend. Days with
// no documents appear in the trend as explicit zeroes. The IT_REVIEW count
// comes from the live queue, not the documents; the document-level flag goes
// stale once reviews resolve.
func (s *service) Metrics(ctx context.Context, days int) (*MetricsReport, error) {
	if days <= 0 {
		days = 7
	}
	from, to := s.window(days)

	report := &MetricsReport{
		Days:   days,
		Labels: make(map[string]int),
	}
	daily := make(map[string]int)
	elapsedSum := 0.0
	elapsedCount := 0

	_, err := s.scanWindow(ctx, from, to, func(key string, doc decisions.Document) error {
		report.Total++

		switch doc.Decision() {
		case decisions.DecisionAllow:
			report.Allowed++
		case decisions.DecisionQuarantine:
			report.Quarantined++
		case decisions.DecisionITReview:
			report.ITReview++
		default:
			report.Errors++
		}

		if doc.HasPHI() {
			report.PHIFlagged++
		}

		label := doc.Classification()
		if label == "" {
			label = "unknown"
		}
		report.Labels[label]++

		if ms, ok := doc.ElapsedMS(); ok {
			elapsedSum += ms
			elapsedCount++
		}

		if ts, ok := decisions.ParseTime(doc.Timestamp()); ok {
			daily[ts.UTC().Format("2006-01-02")]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if elapsedCount > 0 {
		report.AvgElapsedMS = elapsedSum / float64(elapsedCount)
	}

	report.Trend = make([]TrendPoint, 0, days)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		report.Trend = append(report.Trend, TrendPoint{Date: date, Count: daily[date]})
	}

	if live, err := s.liveITReviewCount(ctx, from, to); err != nil {
		s.logger.Warn("live queue count failed, keeping document-derived it_review", "error", err)
	} else {
		report.ITReview = live
	}

	return report, nil
}

// liveITReviewCount counts queue rows created inside the window, which
// supersedes the stale document-level IT_REVIEW flags.
func (s *service) liveITReviewCount(ctx context.Context, from, to time.Time) (int, error) {
	lower := from.Format(time.RFC3339)
	upper := to.AddDate(0, 0, 1).Format(time.RFC3339)

	count, err := s.queue.CountCreatedBetween(ctx, lower, upper)
	if err != nil {
		return 0, fmt.Errorf("count queue window: %w", err)
	}
	return count, nil
}
