package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	appErrors "github.com/noah-isme/ta-proctoring-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// postgres error classes that mean another writer got there first
const (
	pqSerializationFailure = "40001"
	pqUniqueViolation      = "23505"
)

// inSerializableTx runs fn in one serializable transaction, rolling back on any
// error. Serialization failures and unique violations surface as conflicts.
func inSerializableTx(ctx context.Context, provider txProvider, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := provider.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return asConflict(err)
	}
	if err = tx.Commit(); err != nil {
		if conflict := asConflict(err); conflict != err {
			return conflict
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}
	return nil
}

func asConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqSerializationFailure, pqUniqueViolation:
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "concurrent update detected, reload and retry")
		}
	}
	return err
}
