package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mvcastro/currency_exchange_app/internal/apperrors"
	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/mvcastro/currency_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/mvcastro/currency_exchange_app/internal/core/ports/services"
	"github.com/mvcastro/currency_exchange_app/internal/middleware"
)

// exchangeService orchestrates currency exchanges: it resolves the
// currencies and the bank counterparty, computes the rate/fee breakdown and
// hands the four ledger legs plus the audit record to the repository, which
// commits them as one atomic unit.
type exchangeService struct {
	currencyRepo portsrepo.CurrencyReader
	bankResolver portsrepo.BankResolver
	exchangeRepo portsrepo.ExchangeRepositoryFacade
	rates        *RateCalculator
}

// NewExchangeService creates a new exchange service.
func NewExchangeService(
	currencyRepo portsrepo.CurrencyReader,
	bankResolver portsrepo.BankResolver,
	exchangeRepo portsrepo.ExchangeRepositoryFacade,
	rates *RateCalculator,
) portssvc.ExchangeSvcFacade {
	return &exchangeService{
		currencyRepo: currencyRepo,
		bankResolver: bankResolver,
		exchangeRepo: exchangeRepo,
		rates:        rates,
	}
}

var _ portssvc.ExchangeSvcFacade = (*exchangeService)(nil)

// resolveCurrency looks up a currency by code, mapping a missing row to the
// domain's ErrCurrencyNotFound.
func (s *exchangeService) resolveCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrCurrencyNotFound, code)
		}
		return nil, fmt.Errorf("failed to resolve currency %s: %w", code, err)
	}
	return currency, nil
}

// Exchange converts fromAmount of the source currency into the destination
// currency for the given account. The bank receives the full source amount
// and pays out only the net (post-fee) destination amount; the difference
// stays in the bank's destination-currency balance as fee revenue.
//
// All preconditions are checked before any mutation. The four balance
// movements and the audit insert either all commit or none do.
func (s *exchangeService) Exchange(ctx context.Context, accountID, fromCode, toCode string, fromAmount domain.Money) (*domain.ExchangeResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if fromCode == toCode {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSameCurrency, fromCode)
	}
	if !fromAmount.IsPositive() {
		return nil, fmt.Errorf("%w: exchange amount must be positive, got %s", apperrors.ErrInvalidAmount, fromAmount)
	}

	from, err := s.resolveCurrency(ctx, fromCode)
	if err != nil {
		return nil, err
	}
	to, err := s.resolveCurrency(ctx, toCode)
	if err != nil {
		return nil, err
	}

	bankID, err := s.bankResolver.FindBankAccountID(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrBankNotConfigured) {
			logger.Error("Failed to resolve bank account", slog.String("error", err.Error()))
		}
		return nil, err
	}

	breakdown, err := s.rates.ComputeExchange(from.FactorToBase, to.FactorToBase, fromAmount)
	if err != nil {
		return nil, err
	}

	record := domain.ExchangeRecord{
		ExchangeID:      uuid.NewString(),
		AccountID:       accountID,
		FromCurrencyID:  from.CurrencyID,
		ToCurrencyID:    to.CurrencyID,
		FromAmount:      fromAmount,
		ToAmountGross:   breakdown.GrossAmount,
		ToAmountNet:     breakdown.NetAmount,
		Rate:            breakdown.Rate,
		QuoteFromFactor: from.FactorToBase,
		FeePercent:      s.rates.FeePercent(),
		FeeAmount:       breakdown.FeeAmount,
		CreatedAt:       time.Now().UTC(),
	}

	// The four ledger legs: the account pays the full source amount to the
	// bank and receives only the net destination amount back.
	movements := []domain.BalanceMovement{
		{AccountID: accountID, CurrencyID: from.CurrencyID, Delta: fromAmount.Neg()},
		{AccountID: bankID, CurrencyID: from.CurrencyID, Delta: fromAmount},
		{AccountID: bankID, CurrencyID: to.CurrencyID, Delta: breakdown.NetAmount.Neg()},
		{AccountID: accountID, CurrencyID: to.CurrencyID, Delta: breakdown.NetAmount},
	}

	if err := s.exchangeRepo.SaveExchange(ctx, record, movements); err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) || errors.Is(err, apperrors.ErrConcurrencyConflict) {
			logger.Warn("Exchange aborted", slog.String("account_id", accountID), slog.String("from", fromCode), slog.String("to", toCode), slog.String("error", err.Error()))
		} else {
			logger.Error("Failed to save exchange", slog.String("account_id", accountID), slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("Exchange completed",
		slog.String("exchange_id", record.ExchangeID),
		slog.String("account_id", accountID),
		slog.String("from", fromCode),
		slog.String("to", toCode),
		slog.String("from_amount", fromAmount.String()),
		slog.String("to_amount_net", breakdown.NetAmount.String()),
	)

	return &domain.ExchangeResult{
		ExchangeRecord:   record,
		FromCurrencyCode: from.Code,
		ToCurrencyCode:   to.Code,
	}, nil
}

// Preview computes the rate/fee breakdown for an exchange without touching
// any balance.
func (s *exchangeService) Preview(ctx context.Context, fromCode, toCode string, fromAmount domain.Money) (*domain.RateBreakdown, error) {
	if fromCode == toCode {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSameCurrency, fromCode)
	}
	if !fromAmount.IsPositive() {
		return nil, fmt.Errorf("%w: exchange amount must be positive, got %s", apperrors.ErrInvalidAmount, fromAmount)
	}

	from, err := s.resolveCurrency(ctx, fromCode)
	if err != nil {
		return nil, err
	}
	to, err := s.resolveCurrency(ctx, toCode)
	if err != nil {
		return nil, err
	}

	return s.rates.ComputeExchange(from.FactorToBase, to.FactorToBase, fromAmount)
}
