package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schema = `
CREATE TABLE IF NOT EXISTS stock_records (
	position    INTEGER NOT NULL,
	code        TEXT NOT NULL,
	description TEXT NOT NULL,
	quantity    NUMERIC NOT NULL CHECK (quantity > 0),
	address     TEXT NOT NULL,
	lote        TEXT NOT NULL,
	PRIMARY KEY (code, address, lote)
);
CREATE TABLE IF NOT EXISTS history_entries (
	position     INTEGER NOT NULL,
	id           TEXT PRIMARY KEY,
	ts           TIMESTAMPTZ NOT NULL,
	type         TEXT NOT NULL,
	code         TEXT NOT NULL,
	description  TEXT NOT NULL,
	quantity     NUMERIC NOT NULL,
	from_address TEXT NOT NULL DEFAULT '',
	to_address   TEXT NOT NULL DEFAULT '',
	lote         TEXT NOT NULL,
	old_lote     TEXT NOT NULL DEFAULT '',
	details      TEXT NOT NULL
);`

// EnsureSchema crea las tablas si no existen.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return err
	}
	return nil
}
