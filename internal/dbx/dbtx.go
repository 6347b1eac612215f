// Package dbx holds the small database plumbing shared by the repositories:
// the DBTX handle interface and a transaction wrapper.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the common surface of *sql.DB and *sql.Tx that repositories are
// written against, so the same repository code runs bare or inside a
// transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction: commit on success, rollback on error
// or panic (the panic is rethrown).
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    if _, err := tx.ExecContext(ctx, `UPDATE tasks SET status = $1 WHERE id = $2`, status, id); err != nil {
//	        return err
//	    }
//	    _, err := tx.ExecContext(ctx, `INSERT INTO transactions (id, actor, amount) VALUES ($1, $2, $3)`, txID, actor, amount)
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
