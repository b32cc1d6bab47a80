package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// TxManager runs a function within one database transaction. If the function
// returns an error the transaction is rolled back and no partial effects
// remain observable; otherwise it is committed.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// Transactor is the sqlx implementation of TxManager. The open transaction
// travels in the context, so repositories join it transparently through
// Querier without their interfaces mentioning transactions at all.
type Transactor struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewTransactor(db *sqlx.DB, timeout time.Duration) *Transactor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Transactor{db: db, timeout: timeout}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Querier returns the transaction bound to the context when there is one,
// otherwise the plain connection pool.
func Querier(ctx context.Context, db sqlx.ExtContext) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

var _ TxManager = (*Transactor)(nil)
