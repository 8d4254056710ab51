package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mvcastro/currency_exchange_app/internal/apperrors"
	portsrepo "github.com/mvcastro/currency_exchange_app/internal/core/ports/repositories"
)

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data. The core
// only resolves the bank counterparty here; account registration is handled
// by an external layer writing to the same table.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.BankResolver {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankResolver = (*PgxAccountRepository)(nil)

// FindBankAccountID returns the ID of the distinguished system account.
func (r *PgxAccountRepository) FindBankAccountID(ctx context.Context) (string, error) {
	query := `
		SELECT account_id
		FROM accounts
		WHERE is_system = TRUE
		ORDER BY created_at
		LIMIT 1;
	`
	var accountID string
	err := r.Pool.QueryRow(ctx, query).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrBankNotConfigured
		}
		return "", fmt.Errorf("failed to resolve bank account: %w", err)
	}
	return accountID, nil
}
