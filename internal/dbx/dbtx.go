// Package dbx holds the small database plumbing the repositories share: the
// DBTX handle they are bound to, and WithTx for the flows that must commit
// several statements as one unit (consuming a reset token together with the
// password update, revoking a refresh token together with its successor).
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the handle a repository executes against. Both *sql.DB and *sql.Tx
// satisfy it, so the same repository code runs standalone or inside WithTx.
// Only the methods the repositories actually call are included.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction. The transaction commits only when fn
// returns nil; any error or panic rolls it back, and panics are rethrown so
// they keep their original stack.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
