package repositories

import (
	"context"

	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
)

// ExchangeReader defines read-only query operations over the audit trail.
type ExchangeReader interface {
	// FindExchangeByID retrieves one exchange record with resolved currency codes.
	FindExchangeByID(ctx context.Context, exchangeID string) (*domain.ExchangeResult, error)

	// ListExchanges retrieves a filtered, token-paginated list of exchange
	// records ordered by creation time. It returns the records, a token for
	// the next page (nil when exhausted), and an error.
	ListExchanges(ctx context.Context, filter domain.ExchangeFilter, limit int, nextToken *string) ([]domain.ExchangeResult, *string, error)
}

// ExchangeWriter persists a completed exchange.
type ExchangeWriter interface {
	// SaveExchange applies the balance movements and appends the audit record
	// as a single atomic unit. All touched balance rows are locked in a
	// consistent global order for the duration of the scope; any movement
	// that would drive a balance negative aborts the whole unit with
	// apperrors.ErrInsufficientFunds and no row is left partially updated.
	// Lock/commit contention surfaces as apperrors.ErrConcurrencyConflict.
	SaveExchange(ctx context.Context, record domain.ExchangeRecord, movements []domain.BalanceMovement) error
}

// ExchangeRepositoryFacade combines all exchange-related repository interfaces.
type ExchangeRepositoryFacade interface {
	ExchangeReader
	ExchangeWriter
}
