package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mvcastro/currency_exchange_app/internal/apperrors"
	"github.com/mvcastro/currency_exchange_app/internal/middleware"
)

// PostgreSQL SQLSTATE codes this layer cares about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
	pgSerializationFail   = "40001"
	pgDeadlockDetected    = "40P01"
)

// BaseRepository provides transaction handling shared by all repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Commit commits a transaction, mapping commit-time contention to the
// retryable ErrConcurrencyConflict.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return mapPgError("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction. Safe to defer after a successful
// commit: the resulting ErrTxClosed is ignored. Other rollback failures are
// logged, since the caller is usually already handling the original error.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to rollback transaction", slog.String("error", err.Error()))
	}
}

// mapPgError translates driver errors into the application error taxonomy.
// Serialization failures and deadlocks become ErrConcurrencyConflict, which
// callers may retry verbatim.
func mapPgError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFail, pgDeadlockDetected:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrConcurrencyConflict, msg, pgErr.Message)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, msg)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrNotFound, msg)
		case pgInvalidTextRepr:
			// A malformed identifier fed to a uuid cast is bad input,
			// not a server fault.
			return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, msg, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
