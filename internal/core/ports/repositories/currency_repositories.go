package repositories

import (
	"context"

	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
)

// CurrencyReader defines read operations for currency data. The core never
// writes currencies; the catalog is maintained by an external admin layer.
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a specific currency by its unique code.
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)

	// FindCurrencyByID retrieves a specific currency by its ID.
	FindCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error)

	// ListCurrencies retrieves all currencies ordered by code ascending.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
