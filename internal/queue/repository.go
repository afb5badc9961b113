package queue

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mailward/mailward/pkg/pagination"
	"github.com/mailward/mailward/pkg/query"
	"github.com/mailward/mailward/pkg/repository"
)

const itemColumns = `id, status, from_addr, from_domain, subject, decision, risk, has_phi,
	log_bucket, log_key, created_ts, verdict, actor, notes, resolved_ts,
	user_reported, report_source, report_reason, reported_by, report_ts`

type postgresStore struct {
	db *sql.DB
}

// NewStore creates a queue store backed by the hitl_queue table.
func NewStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Find(ctx context.Context, id string) (*Item, error) {
	q := fmt.Sprintf("SELECT %s FROM hitl_queue WHERE id = $1", itemColumns)

	item, err := repository.QueryOne(ctx, s.db, q, []any{id}, scanItem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &item, nil
}

func (s *postgresStore) Create(ctx context.Context, item Item) error {
	q := fmt.Sprintf(`
		INSERT INTO hitl_queue(%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		itemColumns)

	_, err := s.db.ExecContext(ctx, q,
		item.ID,
		item.Status,
		item.FromAddr,
		item.FromDomain,
		item.Subject,
		item.Decision,
		item.Risk,
		item.HasPHI,
		item.LogBucket,
		item.LogKey,
		item.CreatedTS,
		item.Verdict,
		item.Actor,
		item.Notes,
		item.ResolvedTS,
		item.UserReported,
		item.ReportSource,
		item.ReportReason,
		item.ReportedBy,
		item.ReportTS,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (s *postgresStore) Update(ctx context.Context, id string, u Update) error {
	sets := make([]string, 0, 10)
	args := make([]any, 0, 11)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.Status != nil {
		add("status", *u.Status)
	}
	if u.Verdict != nil {
		add("verdict", *u.Verdict)
	}
	if u.Actor != nil {
		add("actor", *u.Actor)
	}
	if u.Notes != nil {
		add("notes", *u.Notes)
	}
	if u.ResolvedTS != nil {
		add("resolved_ts", *u.ResolvedTS)
	}
	if u.UserReported != nil {
		add("user_reported", *u.UserReported)
	}
	if u.ReportSource != nil {
		add("report_source", *u.ReportSource)
	}
	if u.ReportReason != nil {
		add("report_reason", *u.ReportReason)
	}
	if u.ReportedBy != nil {
		add("reported_by", *u.ReportedBy)
	}
	if u.ReportTS != nil {
		add("report_ts", *u.ReportTS)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	q := fmt.Sprintf(
		"UPDATE hitl_queue SET %s WHERE id = $%d",
		strings.Join(sets, ", "),
		len(args),
	)

	if err := repository.ExecExpectOne(ctx, s.db, q, args...); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (s *postgresStore) Scan(ctx context.Context, status, cursor string, limit int) (*ScanPage, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM hitl_queue
		WHERE ($1 = '' OR status = $1) AND id > $2
		ORDER BY id
		LIMIT $3`, itemColumns)

	items, err := repository.QueryMany(ctx, s.db, q, []any{status, cursor, limit}, scanItem)
	if err != nil {
		return nil, fmt.Errorf("scan queue: %w", err)
	}

	page := &ScanPage{Items: items}
	if len(items) == limit {
		page.NextCursor = items[len(items)-1].ID
	}
	return page, nil
}

func (s *postgresStore) Search(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Item], error) {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Subject", "FromAddr")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count queue items: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanItem)
	if err != nil {
		return nil, fmt.Errorf("query queue items: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *postgresStore) CountCreatedBetween(ctx context.Context, from, to string) (int, error) {
	q := "SELECT COUNT(*) FROM hitl_queue WHERE created_ts >= $1 AND created_ts < $2"

	var count int
	if err := s.db.QueryRowContext(ctx, q, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count queue rows: %w", err)
	}
	return count, nil
}

func scanItem(s repository.Scanner) (Item, error) {
	var i Item
	err := s.Scan(
		&i.ID,
		&i.Status,
		&i.FromAddr,
		&i.FromDomain,
		&i.Subject,
		&i.Decision,
		&i.Risk,
		&i.HasPHI,
		&i.LogBucket,
		&i.LogKey,
		&i.CreatedTS,
		&i.Verdict,
		&i.Actor,
		&i.Notes,
		&i.ResolvedTS,
		&i.UserReported,
		&i.ReportSource,
		&i.ReportReason,
		&i.ReportedBy,
		&i.ReportTS,
	)
	return i, err
}
