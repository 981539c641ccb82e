// Package repository holds the SQL for every table bizlist owns.
//
// Repositories return model types and classify failures the service layer
// acts on (a missing row is errs.NotFound). Other database errors are
// wrapped and left for the HTTP error handler to translate.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool used by repositories.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
