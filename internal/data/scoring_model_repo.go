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

// ScoringModelRepo provides database operations for scoring models.
type ScoringModelRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewScoringModelRepo creates a new ScoringModelRepo with real time provider.
func NewScoringModelRepo(db *sql.DB) *ScoringModelRepo {
	return &ScoringModelRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewScoringModelRepoWithTimeProvider creates a new ScoringModelRepo with a
// custom time provider (useful for tests).
func NewScoringModelRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ScoringModelRepo {
	return &ScoringModelRepo{DB: db, timeProvider: tp}
}

const (
	scoringModelColumnsSQL = `id, name, version, status, threshold, description, activated_at, created_at, updated_at`

	scoringModelGetByIDQuery = `
		SELECT id, name, version, status, threshold, description, activated_at, created_at, updated_at
		FROM scoring_models
		WHERE id = $1`

	scoringModelGetActiveQuery = `
		SELECT id, name, version, status, threshold, description, activated_at, created_at, updated_at
		FROM scoring_models
		WHERE status = 'active'`
)

// Create inserts a new draft model. The version is one greater than any
// existing model with the same name.
func (r *ScoringModelRepo) Create(ctx context.Context, req *model.CreateScoringModelRequest) (*model.ScoringModel, error) {
	if req == nil {
		return nil, errors.New("create scoring model request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.ScoringModel
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO scoring_models (name, version, status, threshold, description, created_at, updated_at)
			SELECT $1, COALESCE(MAX(version), 0) + 1, 'draft', $2, $3, $4, $4
			FROM scoring_models WHERE name = $1
			RETURNING `+scoringModelColumnsSQL,
			strings.TrimSpace(req.Name),
			req.Threshold,
			req.Description,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ScoringModel])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a scoring model by ID.
func (r *ScoringModelRepo) GetByID(ctx context.Context, id string) (*model.ScoringModel, error) {
	return r.getByQuery(ctx, scoringModelGetByIDQuery, "failed to get scoring model by ID", id)
}

// GetActive retrieves the currently active model, if any.
func (r *ScoringModelRepo) GetActive(ctx context.Context) (*model.ScoringModel, error) {
	return r.getByQuery(ctx, scoringModelGetActiveQuery, "failed to get active scoring model")
}

// List retrieves scoring models with optional filters and sorting.
func (r *ScoringModelRepo) List(
	ctx context.Context,
	opts model.ScoringModelsListOptions,
) ([]*model.ScoringModel, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := max(opts.Offset, 0)

	query, args := database.BuildListQuery(r.buildListOptions(opts, limit, offset))

	var rowsOut []model.ScoringModel
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ScoringModel])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list scoring models: %w", err)
	}

	res := make([]*model.ScoringModel, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Activate promotes a model to active, archiving the previous active one
// in the same transaction. There is never a moment with two active models
// or none mid-swap; the partial unique index backs this up at the schema
// level.
func (r *ScoringModelRepo) Activate(ctx context.Context, id string) (*model.ScoringModel, error) {
	now := r.timeProvider.Now().UTC()
	var out model.ScoringModel

	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `
				UPDATE scoring_models SET status = 'archived', updated_at = $1
				WHERE status = 'active' AND id <> $2`, now, id); err != nil {
				return err
			}

			rows, err := tx.Query(ctx, `
				UPDATE scoring_models
				SET status = 'active', activated_at = $1, updated_at = $1
				WHERE id = $2 AND status <> 'archived'
				RETURNING `+scoringModelColumnsSQL, now, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ScoringModel])
			return err
		},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Unknown ID or an archived model; archived models never reactivate.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, apperrors.Conflict("Archived models cannot be activated.")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Archive retires a model. Archiving the active model leaves no model
// active; scoring falls back to manual review until a new activation.
func (r *ScoringModelRepo) Archive(ctx context.Context, id string) (*model.ScoringModel, error) {
	now := r.timeProvider.Now().UTC()
	var out model.ScoringModel
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE scoring_models
			SET status = 'archived', updated_at = $1
			WHERE id = $2
			RETURNING `+scoringModelColumnsSQL, now, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ScoringModel])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("scoring model not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete removes a draft model. Models that ever scored transactions are
// protected by the foreign key and surface as a conflict.
func (r *ScoringModelRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM scoring_models WHERE id = $1 AND status = 'draft'`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return rows > 0, nil
}

// --- helpers ---

func (r *ScoringModelRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.ScoringModel, error) {
	var out model.ScoringModel
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ScoringModel])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("scoring model not found")
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &out, nil
}

func scoringModelColumns() []string {
	return []string{
		"id",
		"name",
		"version",
		"status",
		"threshold",
		"description",
		"activated_at",
		"created_at",
		"updated_at",
	}
}

func (r *ScoringModelRepo) buildListOptions(
	opts model.ScoringModelsListOptions,
	limit, offset int,
) *database.ListQueryOptions {
	queryOpts := []database.ListQueryOption{
		database.WithColumns(scoringModelColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("name", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, *opts.Status),
		))
	}

	sortCol, sortDir := validateScoringModelSort(opts.Sort, opts.Dir)
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	return database.NewListQueryOptions("scoring_models", queryOpts...)
}

func validateScoringModelSort(sort, dir string) (string, string) {
	sortCol := "created_at"
	sortDir := sortDirDesc

	if sort != "" {
		allowedSorts := map[string]string{
			"created_at": "created_at",
			"name":       "name",
			"version":    "version",
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
