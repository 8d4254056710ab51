package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mvcastro/currency_exchange_app/internal/apperrors"
	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/mvcastro/currency_exchange_app/internal/core/ports/repositories"
)

type PgxBalanceRepository struct {
	BaseRepository
}

// NewBalanceRepository creates a new repository for ledger balance rows.
func NewBalanceRepository(pool *pgxpool.Pool) portsrepo.BalanceRepositoryFacade {
	return &PgxBalanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

// FindBalance retrieves the balance row for one (account, currency) pair.
func (r *PgxBalanceRepository) FindBalance(ctx context.Context, accountID, currencyID string) (*domain.Balance, error) {
	query := `
		SELECT balance_id, account_id, currency_id, amount, created_at, last_updated_at
		FROM balances
		WHERE account_id = $1 AND currency_id = $2;
	`
	var balance domain.Balance
	var amount decimal.Decimal

	err := r.Pool.QueryRow(ctx, query, accountID, currencyID).Scan(
		&balance.BalanceID,
		&balance.AccountID,
		&balance.CurrencyID,
		&amount,
		&balance.CreatedAt,
		&balance.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find balance for account %s: %w", accountID, err)
	}

	balance.Amount = domain.NewAmount(amount)
	return &balance, nil
}

// ensureRow lazily creates the balance row with a zero amount so it can be
// locked. Must be called within a transaction.
func (r *PgxBalanceRepository) ensureRow(ctx context.Context, tx pgx.Tx, accountID, currencyID string, now time.Time) error {
	query := `
		INSERT INTO balances (balance_id, account_id, currency_id, amount, created_at, last_updated_at)
		VALUES ($1, $2, $3, 0, $4, $4)
		ON CONFLICT (account_id, currency_id) DO NOTHING;
	`
	if _, err := tx.Exec(ctx, query, uuid.NewString(), accountID, currencyID, now); err != nil {
		return mapPgError("failed to create balance row", err)
	}
	return nil
}

// lockAmount reads the row's current amount under an exclusive row lock held
// for the rest of the transaction.
func (r *PgxBalanceRepository) lockAmount(ctx context.Context, tx pgx.Tx, accountID, currencyID string) (domain.Money, error) {
	query := `
		SELECT amount
		FROM balances
		WHERE account_id = $1 AND currency_id = $2
		FOR UPDATE;
	`
	var amount decimal.Decimal
	if err := tx.QueryRow(ctx, query, accountID, currencyID).Scan(&amount); err != nil {
		return domain.Money{}, mapPgError("failed to lock balance row", err)
	}
	return domain.NewAmount(amount), nil
}

// writeAmount persists the new amount for an already-locked row.
func (r *PgxBalanceRepository) writeAmount(ctx context.Context, tx pgx.Tx, accountID, currencyID string, amount domain.Money, now time.Time) error {
	query := `
		UPDATE balances
		SET amount = $3, last_updated_at = $4
		WHERE account_id = $1 AND currency_id = $2;
	`
	if _, err := tx.Exec(ctx, query, accountID, currencyID, amount.Decimal(), now); err != nil {
		return mapPgError("failed to update balance row", err)
	}
	return nil
}

// mutate runs get-or-create, lock, compute, write as one transaction.
func (r *PgxBalanceRepository) mutate(ctx context.Context, accountID, currencyID string, compute func(current domain.Money) (domain.Money, error)) (domain.Money, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return domain.Money{}, err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now().UTC()
	if err := r.ensureRow(ctx, tx, accountID, currencyID, now); err != nil {
		return domain.Money{}, err
	}

	current, err := r.lockAmount(ctx, tx, accountID, currencyID)
	if err != nil {
		return domain.Money{}, err
	}

	next, err := compute(current)
	if err != nil {
		return domain.Money{}, err
	}

	if err := r.writeAmount(ctx, tx, accountID, currencyID, next, now); err != nil {
		return domain.Money{}, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return domain.Money{}, err
	}
	return next, nil
}

// CreditBalance adds amount to the pair's row, creating it if absent.
func (r *PgxBalanceRepository) CreditBalance(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error) {
	return r.mutate(ctx, accountID, currencyID, func(current domain.Money) (domain.Money, error) {
		return current.Add(amount), nil
	})
}

// DebitBalance subtracts amount from the pair's row. The transaction aborts
// and the row stays unchanged when the result would be negative.
func (r *PgxBalanceRepository) DebitBalance(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error) {
	return r.mutate(ctx, accountID, currencyID, func(current domain.Money) (domain.Money, error) {
		next := current.Sub(amount)
		if next.IsNegative() {
			return domain.Money{}, fmt.Errorf("%w: balance %s, debit %s", apperrors.ErrInsufficientFunds, current, amount)
		}
		return next, nil
	})
}

// SetBalance overwrites the pair's row with an absolute amount.
func (r *PgxBalanceRepository) SetBalance(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error) {
	return r.mutate(ctx, accountID, currencyID, func(domain.Money) (domain.Money, error) {
		return amount, nil
	})
}

// ListBalancesForAccount returns one row per known currency ordered by code,
// materializing zero for currencies without a stored row.
func (r *PgxBalanceRepository) ListBalancesForAccount(ctx context.Context, accountID string) ([]domain.AccountBalance, error) {
	query := `
		SELECT c.currency_id, c.code, c.name, c.color, COALESCE(b.amount, 0)
		FROM currencies c
		LEFT JOIN balances b ON b.currency_id = c.currency_id AND b.account_id = $1
		ORDER BY c.code ASC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances for account %s: %w", accountID, err)
	}
	defer rows.Close()

	balances := []domain.AccountBalance{}
	for rows.Next() {
		var row domain.AccountBalance
		var amount decimal.Decimal
		if err := rows.Scan(&row.CurrencyID, &row.CurrencyCode, &row.CurrencyName, &row.Color, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan balance row for account %s: %w", accountID, err)
		}
		row.Amount = domain.NewAmount(amount)
		balances = append(balances, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance rows for account %s: %w", accountID, err)
	}

	return balances, nil
}
