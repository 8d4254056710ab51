package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mvcastro/currency_exchange_app/internal/apperrors"
	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
)

// DefaultFeePercent returns the bank's standard cut on the gross converted
// amount (0.5%). A fresh value is returned on every call so callers cannot
// mutate the default for everyone else.
func DefaultFeePercent() decimal.Decimal {
	return decimal.RequireFromString("0.005")
}

// RateCalculator computes exchange rates and fee breakdowns. It is pure and
// side-effect free; the fee percentage is fixed at construction.
type RateCalculator struct {
	feePercent domain.Money
}

// NewRateCalculator creates a calculator charging the given fee fraction
// (e.g. 0.005 for 0.5%) on every gross converted amount.
func NewRateCalculator(feePercent decimal.Decimal) *RateCalculator {
	return &RateCalculator{feePercent: domain.NewRate(feePercent)}
}

// FeePercent returns the configured fee fraction at rate precision.
func (c *RateCalculator) FeePercent() domain.Money {
	return c.feePercent
}

// ComputeExchange derives the rate and destination-side amounts for
// converting fromAmount of a currency with conversion factor fromFactor into
// a currency with conversion factor toFactor.
//
// rate = toFactor / fromFactor, i.e. how many units of the destination
// currency equal one unit of the source currency. Each step rounds to its
// target precision before the next step runs.
func (c *RateCalculator) ComputeExchange(fromFactor, toFactor, fromAmount domain.Money) (*domain.RateBreakdown, error) {
	if !fromFactor.IsPositive() {
		return nil, fmt.Errorf("%w: source conversion factor must be positive, got %s", apperrors.ErrInvalidRateInput, fromFactor)
	}
	if !toFactor.IsPositive() {
		return nil, fmt.Errorf("%w: destination conversion factor must be positive, got %s", apperrors.ErrInvalidRateInput, toFactor)
	}
	if !fromAmount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidRateInput, fromAmount)
	}

	rate := toFactor.Div(fromFactor, domain.RatePrecision)
	grossAmount := fromAmount.Mul(rate, domain.AmountPrecision)
	feeAmount := grossAmount.Mul(c.feePercent, domain.AmountPrecision)
	netAmount := grossAmount.Sub(feeAmount)

	if !netAmount.IsPositive() {
		return nil, fmt.Errorf("%w: %s of rate %s nets to %s after fee", apperrors.ErrNonPositiveNetAmount, fromAmount, rate, netAmount)
	}

	return &domain.RateBreakdown{
		Rate:        rate,
		GrossAmount: grossAmount,
		FeeAmount:   feeAmount,
		NetAmount:   netAmount,
	}, nil
}
