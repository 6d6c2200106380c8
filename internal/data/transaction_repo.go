package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/target/fraudwatch-ui-api/internal/data/database"
	"github.com/target/fraudwatch-ui-api/internal/data/pgxutil"
	"github.com/target/fraudwatch-ui-api/internal/domain/model"
	apperrors "github.com/target/fraudwatch-ui-api/internal/errors"
)

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"

	defaultListLimit = 50
)

// ErrTransactionNotPending is returned when a verdict targets a
// transaction that has already been reviewed.
var ErrTransactionNotPending = errors.New("transaction is not pending review")

// TransactionRepo provides database operations for transactions under review.
type TransactionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewTransactionRepo creates a new TransactionRepo with real time provider.
func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewTransactionRepoWithTimeProvider creates a new TransactionRepo with a
// custom time provider (useful for tests).
func NewTransactionRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *TransactionRepo {
	return &TransactionRepo{DB: db, timeProvider: tp}
}

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	transactionGetByIDQuery = `
		SELECT id, reference, amount_cents, currency, customer_email, risk_score,
		       status, model_id, reviewed_by, reviewed_at, review_note, created_at, updated_at
		FROM transactions
		WHERE id = $1`

	transactionInsertQuery = `
		INSERT INTO transactions (
			reference, amount_cents, currency, customer_email, risk_score, model_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $7
		) RETURNING id, reference, amount_cents, currency, customer_email, risk_score,
		            status, model_id, reviewed_by, reviewed_at, review_note, created_at, updated_at`

	transactionReviewQuery = `
		UPDATE transactions
		SET status = $1, reviewed_by = $2, reviewed_at = $3, review_note = $4, updated_at = $3
		WHERE id = $5 AND status = 'pending'
		RETURNING id, reference, amount_cents, currency, customer_email, risk_score,
		          status, model_id, reviewed_by, reviewed_at, review_note, created_at, updated_at`
)

// Create ingests a new transaction in pending state.
func (r *TransactionRepo) Create(ctx context.Context, req *model.CreateTransactionRequest) (*model.Transaction, error) {
	if req == nil {
		return nil, errors.New("create transaction request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.Transaction
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, transactionInsertQuery,
			strings.TrimSpace(req.Reference),
			req.AmountCents,
			strings.ToUpper(strings.TrimSpace(req.Currency)),
			strings.TrimSpace(req.CustomerEmail),
			req.RiskScore,
			req.ModelID,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Transaction])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	var out model.Transaction
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, transactionGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Transaction])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("transaction not found")
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}
	return &out, nil
}

// List retrieves transactions with optional filters and sorting.
func (r *TransactionRepo) List(
	ctx context.Context,
	opts model.TransactionsListOptions,
) ([]*model.Transaction, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := max(opts.Offset, 0)

	query, args := database.BuildListQuery(r.buildListOptions(opts, limit, offset))

	var rowsOut []model.Transaction
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Transaction])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	res := make([]*model.Transaction, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Review records a verdict on a pending transaction. Only pending
// transactions accept a verdict; a second verdict on the same
// transaction fails rather than silently overwriting the first.
func (r *TransactionRepo) Review(
	ctx context.Context,
	id string,
	status model.TransactionStatus,
	req model.ReviewTransactionRequest,
) (*model.Transaction, error) {
	if status != model.TransactionStatusApproved && status != model.TransactionStatusDeclined {
		return nil, apperrors.Validation("verdict must be approved or declined")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.Transaction
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, transactionReviewQuery,
			status, strings.TrimSpace(req.ReviewerID), now, req.Note, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Transaction])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the ID is unknown or the transaction already settled;
			// disambiguate so the caller can answer 404 vs 409.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, apperrors.Wrap(ErrTransactionNotPending, apperrors.ErrCodeConflict,
				"Transaction has already been reviewed.")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// transactionColumns returns the standard column list for transaction queries.
func transactionColumns() []string {
	return []string{
		"id",
		"reference",
		"amount_cents",
		"currency",
		"customer_email",
		"risk_score",
		"status",
		"model_id",
		"reviewed_by",
		"reviewed_at",
		"review_note",
		"created_at",
		"updated_at",
	}
}

// buildListOptions builds query options for transaction listing with filters and sorting.
func (r *TransactionRepo) buildListOptions(
	opts model.TransactionsListOptions,
	limit, offset int,
) *database.ListQueryOptions {
	queryOpts := []database.ListQueryOption{
		database.WithColumns(transactionColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		pattern := "%" + strings.TrimSpace(*opts.Q) + "%"
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereRawCond("(reference ILIKE $1 OR customer_email ILIKE $1)", pattern),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, *opts.Status),
		))
	}
	if opts.MinRiskScore != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("risk_score", database.GreaterThanOrEqual, *opts.MinRiskScore),
		))
	}

	sortCol, sortDir := validateTransactionSort(opts.Sort, opts.Dir)
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	return database.NewListQueryOptions("transactions", queryOpts...)
}

// validateTransactionSort validates and returns safe sort column and direction.
func validateTransactionSort(sort, dir string) (string, string) {
	sortCol := "created_at"
	sortDir := sortDirDesc

	if sort != "" {
		allowedSorts := map[string]string{
			"created_at":   "created_at",
			"risk_score":   "risk_score",
			"amount_cents": "amount_cents",
		}
		if validSort, ok := allowedSorts[strings.ToLower(strings.TrimSpace(sort))]; ok {
			sortCol = validSort
		}
	}
	if dir != "" {
		allowedDirs := map[string]string{
			"asc":  sortDirAsc,
			"desc": sortDirDesc,
		}
		if validDir, ok := allowedDirs[strings.ToLower(strings.TrimSpace(dir))]; ok {
			sortDir = validDir
		}
	}
	return sortCol, sortDir
}
