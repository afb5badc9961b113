package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/mailward/mailward/internal/decisions"
)

// HistoryRecord is the display projection of one decision document.
type HistoryRecord struct {
	RunID          string  `json:"run_id"`
	Timestamp      string  `json:"timestamp"`
	From           string  `json:"from"`
	To             string  `json:"to"`
	Subject        string  `json:"subject"`
	AIDecision     string  `json:"ai_decision"`
	ITDecision     string  `json:"it_decision"`
	Latency        string  `json:"latency"`
	Risk           float64 `json:"risk"`
	HasPHI         bool    `json:"has_phi"`
	PHIEntities    int     `json:"phi_entities"`
	Classification string  `json:"classification"`
	HitlStatus     string  `json:"hitl_status,omitempty"`
	HitlVerdict    string  `json:"hitl_verdict,omitempty"`
	HitlNotes      string  `json:"hitl_notes,omitempty"`
	BodyPreview    string  `json:"body_preview,omitempty"`
	Reasoning      string  `json:"reasoning,omitempty"`
	LogKey         string  `json:"log_key"`
}

// History scans an inclusive day range and projects every document whose
// timestamp falls inside it. Order is scan order; callers sort if they care.
func (s *service) History(ctx context.Context, from, to time.Time) ([]HistoryRecord, error) {
	lower := utcDay(from)
	upper := utcDay(to).AddDate(0, 0, 1)

	records := make([]HistoryRecord, 0)

	_, err := s.scanWindow(ctx, from, to, func(key string, doc decisions.Document) error {
		ts, ok := decisions.ParseTime(doc.Timestamp())
		if !ok || ts.UTC().Before(lower) || !ts.UTC().Before(upper) {
			return nil
		}

		records = append(records, projectHistory(key, doc))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

func projectHistory(key string, doc decisions.Document) HistoryRecord {
	record := HistoryRecord{
		RunID:          runIdentity(key, doc),
		Timestamp:      doc.Timestamp(),
		From:           doc.FromAddr(),
		To:             doc.Recipient(),
		Subject:        doc.Subject(),
		AIDecision:     decisionText(doc.Decision()),
		ITDecision:     verdictText(doc.HitlVerdict()),
		Risk:           doc.Risk(),
		HasPHI:         doc.HasPHI(),
		PHIEntities:    doc.PHIEntities(),
		Classification: doc.Classification(),
		HitlStatus:     doc.HitlStatus(),
		HitlVerdict:    doc.HitlVerdict(),
		HitlNotes:      doc.HitlNotes(),
		BodyPreview:    decisions.BodyPreview(doc),
		Reasoning:      decisions.Reasoning(doc),
		LogKey:         key,
	}

	if ms, ok := doc.ElapsedMS(); ok {
		record.Latency = latencyText(ms)
	}

	return record
}

// runIdentity prefers the document's message id, falling back to the key
// basename.
func runIdentity(key string, doc decisions.Document) string {
	if id := doc.MessageID(); id != "" {
		return id
	}
	return decisions.RunID(key)
}

func decisionText(decision string) string {
	switch decision {
	case decisions.DecisionAllow:
		return "Allowed"
	case decisions.DecisionQuarantine:
		return "Quarantined"
	case decisions.DecisionITReview:
		return "Sent to IT Review"
	}
	return decision
}

func verdictText(verdict string) string {
	switch verdict {
	case "allow":
		return "Allowed"
	case "block":
		return "Blocked"
	}
	return ""
}

func latencyText(ms float64) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.1fs", ms/1000)
	}
	return fmt.Sprintf("%.0fms", ms)
}
