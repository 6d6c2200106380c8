package data

import (
	"context"
	"database/sql"

	"github.com/target/fraudwatch-ui-api/internal/migrate"
)

// RunMigrations brings the review schema up to date. It delegates to the
// migrate package so callers only need the shared *sql.DB.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}
