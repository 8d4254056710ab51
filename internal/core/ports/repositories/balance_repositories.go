package repositories

import (
	"context"

	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
)

// BalanceReader defines read operations for ledger balance rows.
type BalanceReader interface {
	// FindBalance retrieves the balance row for one (account, currency) pair.
	// Returns apperrors.ErrNotFound when no row exists.
	FindBalance(ctx context.Context, accountID, currencyID string) (*domain.Balance, error)

	// ListBalancesForAccount returns one row per currency known to the system,
	// ordered by currency code ascending, with zero amounts materialized for
	// currencies the account holds no row in.
	ListBalancesForAccount(ctx context.Context, accountID string) ([]domain.AccountBalance, error)
}

// BalanceWriter defines single-operation mutations on ledger balance rows.
// Each call owns its own atomic scope: the row is created if absent, locked,
// mutated and committed as one unit.
type BalanceWriter interface {
	// CreditBalance adds amount to the row and returns the new balance.
	CreditBalance(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error)

	// DebitBalance subtracts amount from the row and returns the new balance.
	// Returns apperrors.ErrInsufficientFunds (row unchanged) if the result
	// would be negative.
	DebitBalance(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error)

	// SetBalance overwrites the row with an absolute amount and returns it.
	SetBalance(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error)
}

// BalanceRepositoryFacade combines all balance-related repository interfaces.
type BalanceRepositoryFacade interface {
	BalanceReader
	BalanceWriter
}
