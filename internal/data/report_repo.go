package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/target/fraudwatch-ui-api/internal/data/pgxutil"
	"github.com/target/fraudwatch-ui-api/internal/domain/model"
)

// highRiskThreshold marks the score above which a transaction counts as
// high risk in summaries, independent of the active model threshold.
const highRiskThreshold = 0.8

// ReportRepo aggregates review statistics from the transactions table.
type ReportRepo struct {
	DB *sql.DB
}

// NewReportRepo creates a new ReportRepo.
func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{DB: db}
}

const reportSummaryQuery = `
	SELECT
		$1::timestamptz                                              AS window_start,
		COUNT(*)                                                     AS total_transactions,
		COUNT(*) FILTER (WHERE status = 'pending')                   AS pending_count,
		COUNT(*) FILTER (WHERE status = 'approved')                  AS approved_count,
		COUNT(*) FILTER (WHERE status = 'declined')                  AS declined_count,
		COUNT(*) FILTER (WHERE risk_score >= $2)                     AS high_risk_count,
		COALESCE(AVG(risk_score), 0)                                 AS avg_risk_score
	FROM transactions
	WHERE created_at >= $1`

const reviewerActivityQuery = `
	SELECT
		reviewed_by                                                  AS reviewer_id,
		COUNT(*) FILTER (WHERE status = 'approved')                  AS approved_count,
		COUNT(*) FILTER (WHERE status = 'declined')                  AS declined_count
	FROM transactions
	WHERE reviewed_by IS NOT NULL AND reviewed_at >= $1
	GROUP BY reviewed_by
	ORDER BY COUNT(*) DESC
	LIMIT $2`

// Summary aggregates transaction counts and risk over the window starting
// at since.
func (r *ReportRepo) Summary(ctx context.Context, since time.Time) (*model.ReportSummary, error) {
	var out model.ReportSummary
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, reportSummaryQuery, since.UTC(), highRiskThreshold)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ReportSummary])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to build report summary: %w", err)
	}
	return &out, nil
}

// ReviewerActivity lists verdict counts per reviewer since the given time,
// busiest reviewers first.
func (r *ReportRepo) ReviewerActivity(ctx context.Context, since time.Time, limit int) ([]*model.ReviewerActivity, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var rowsOut []model.ReviewerActivity
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, reviewerActivityQuery, since.UTC(), limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ReviewerActivity])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list reviewer activity: %w", err)
	}

	res := make([]*model.ReviewerActivity, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
