package queue

import (
	"context"

	"github.com/mailward/mailward/internal/decisions"
)

// Stats are the queue-level KPIs computed from a full scan.
type Stats struct {
	Pending              int     `json:"pending"`
	ReviewedToday        int     `json:"reviewed_today"`
	TotalResolved        int     `json:"total_resolved"`
	Accuracy             float64 `json:"accuracy"`
	AvgResolutionSeconds float64 `json:"avg_resolution_seconds"`
}

// Stats scans the whole queue and aggregates. Accuracy is the share of
// resolved items whose human verdict agrees with the automated decision
// under ALLOW=allow and QUARANTINE=block; any other pairing counts as
// disagreement. Accuracy and average latency are 0 when nothing is resolved.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	rows, err := s.scanAll(ctx, "")
	if err != nil {
		return nil, err
	}

	today := s.now().UTC().Format("2006-01-02")

	stats := &Stats{}
	agreements := 0
	durationSum := 0.0

	for _, row := range rows {
		if row.Status == StatusPending {
			stats.Pending++
			continue
		}
		if row.Status != StatusResolved {
			continue
		}

		stats.TotalResolved++

		resolved, resolvedOK := decisions.ParseTime(row.ResolvedTS)
		if resolvedOK && resolved.UTC().Format("2006-01-02") == today {
			stats.ReviewedToday++
		}

		if created, createdOK := decisions.ParseTime(row.CreatedTS); createdOK && resolvedOK {
			if d := resolved.Sub(created).Seconds(); d > 0 {
				durationSum += d
			}
		}

		if agrees(row.Decision, row.Verdict) {
			agreements++
		}
	}

	if stats.TotalResolved > 0 {
		stats.Accuracy = float64(agreements) / float64(stats.TotalResolved)
		stats.AvgResolutionSeconds = durationSum / float64(stats.TotalResolved)
	}

	return stats, nil
}

func agrees(decision, verdict string) bool {
	switch decision {
	case decisions.DecisionAllow:
		return verdict == VerdictAllow
	case decisions.DecisionQuarantine:
		return verdict == VerdictBlock
	}
	return false
}
