package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mvcastro/currency_exchange_app/internal/apperrors"
	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/mvcastro/currency_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/mvcastro/currency_exchange_app/internal/core/ports/services"
)

// currencyService exposes the read-only currency catalog. Catalog writes are
// an external administrative concern.
type currencyService struct {
	currencyRepo portsrepo.CurrencyReader
}

// NewCurrencyService creates a new read-only currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyReader) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrCurrencyNotFound, code)
		}
		return nil, fmt.Errorf("failed to get currency by code: %w", err)
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}
