package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/mailward/mailward/internal/telemetry"
)

type repo struct {
	db      *sql.DB
	logger  *slog.Logger
	metrics *telemetry.Metrics
	now     func() time.Time
}

// New creates a ledger recorder backed by the sender_feedback table.
func New(db *sql.DB, logger *slog.Logger, metrics *telemetry.Metrics) Recorder {
	return &repo{
		db:      db,
		logger:  logger.With("system", "feedback"),
		metrics: metrics,
		now:     time.Now,
	}
}

func (r *repo) Record(ctx context.Context, entry Entry) error {
	pk, sk, ts := entry.normalize(r.now())

	q := `
		INSERT INTO sender_feedback(pk, sk, run_id, verdict, actor, notes, from_addr, from_domain, trust_tier, source, log_bucket, log_key, created_ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (pk, sk) DO NOTHING`

	_, err := r.db.ExecContext(ctx, q,
		pk,
		sk,
		entry.RunID,
		entry.Verdict,
		entry.Actor,
		entry.Notes,
		entry.FromAddr,
		entry.FromDomain,
		TrustTier(entry.Verdict),
		entry.Source,
		entry.LogBucket,
		entry.LogKey,
		ts,
	)
	if err != nil {
		return fmt.Errorf("record feedback %s: %w", pk, err)
	}

	r.metrics.ObserveFeedback()
	r.logger.Info("feedback recorded", "domain", entry.FromDomain, "verdict", entry.Verdict, "source", entry.Source)
	return nil
}
