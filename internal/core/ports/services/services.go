package services

import (
	"context"

	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
)

// LedgerSvcFacade exposes the per-(account, currency) balance ledger.
type LedgerSvcFacade interface {
	// GetBalance returns the account's balance in a currency; zero when no
	// row exists. It never fails for an unknown pair.
	GetBalance(ctx context.Context, accountID, currencyID string) (domain.Money, error)

	// Credit adds a positive amount to a balance and returns the new balance.
	Credit(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error)

	// Debit subtracts a positive amount from a balance and returns the new balance.
	Debit(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error)

	// SetAbsolute overwrites a balance with a non-negative amount.
	SetAbsolute(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error)

	// ListForAccount returns the zero-filled balance listing for an account,
	// ordered by currency code ascending.
	ListForAccount(ctx context.Context, accountID string) ([]domain.AccountBalance, error)
}

// ExchangeSvcFacade performs currency exchanges against the bank counterparty.
type ExchangeSvcFacade interface {
	// Exchange converts fromAmount of the source currency into the
	// destination currency for the given account, moving value across four
	// ledger legs and appending one audit record atomically.
	Exchange(ctx context.Context, accountID, fromCode, toCode string, fromAmount domain.Money) (*domain.ExchangeResult, error)

	// Preview computes the rate/fee breakdown for an exchange without moving
	// any value.
	Preview(ctx context.Context, fromCode, toCode string, fromAmount domain.Money) (*domain.RateBreakdown, error)
}

// ExchangeQuerySvcFacade exposes the read-only audit trail.
type ExchangeQuerySvcFacade interface {
	GetExchangeByID(ctx context.Context, exchangeID string) (*domain.ExchangeResult, error)
	ListExchanges(ctx context.Context, filter domain.ExchangeFilter, limit int, nextToken *string) ([]domain.ExchangeResult, *string, error)
}

// CurrencySvcFacade exposes the read-only currency catalog.
type CurrencySvcFacade interface {
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// ServiceContainer bundles the service facades for handler wiring.
type ServiceContainer struct {
	Ledger        LedgerSvcFacade
	Exchange      ExchangeSvcFacade
	ExchangeQuery ExchangeQuerySvcFacade
	Currency      CurrencySvcFacade
}
