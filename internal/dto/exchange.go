package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
)

// ExchangeRequest defines the data needed to perform or preview an exchange.
type ExchangeRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required"`
	FromAmount       decimal.Decimal `json:"fromAmount" binding:"required"`
}

// ExchangeResponse mirrors a persisted exchange record plus the resolved
// currency codes.
type ExchangeResponse struct {
	ExchangeID       string       `json:"exchangeID"`
	AccountID        string       `json:"accountID"`
	FromCurrencyCode string       `json:"fromCurrencyCode"`
	ToCurrencyCode   string       `json:"toCurrencyCode"`
	FromAmount       domain.Money `json:"fromAmount"`
	Rate             domain.Money `json:"rate"`
	QuoteFromFactor  domain.Money `json:"quoteFromFactor"`
	ToAmountGross    domain.Money `json:"toAmountGross"`
	FeePercent       domain.Money `json:"feePercent"`
	FeeAmount        domain.Money `json:"feeAmount"`
	ToAmountNet      domain.Money `json:"toAmountNet"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// ToExchangeResponse converts a domain.ExchangeResult to an ExchangeResponse DTO.
func ToExchangeResponse(result *domain.ExchangeResult) ExchangeResponse {
	return ExchangeResponse{
		ExchangeID:       result.ExchangeID,
		AccountID:        result.AccountID,
		FromCurrencyCode: result.FromCurrencyCode,
		ToCurrencyCode:   result.ToCurrencyCode,
		FromAmount:       result.FromAmount,
		Rate:             result.Rate,
		QuoteFromFactor:  result.QuoteFromFactor,
		ToAmountGross:    result.ToAmountGross,
		FeePercent:       result.FeePercent,
		FeeAmount:        result.FeeAmount,
		ToAmountNet:      result.ToAmountNet,
		CreatedAt:        result.CreatedAt,
	}
}

// RateBreakdownResponse defines the data returned by an exchange preview.
type RateBreakdownResponse struct {
	Rate        domain.Money `json:"rate"`
	GrossAmount domain.Money `json:"grossAmount"`
	FeeAmount   domain.Money `json:"feeAmount"`
	NetAmount   domain.Money `json:"netAmount"`
}

// ToRateBreakdownResponse converts a domain.RateBreakdown to a DTO.
func ToRateBreakdownResponse(breakdown *domain.RateBreakdown) RateBreakdownResponse {
	return RateBreakdownResponse{
		Rate:        breakdown.Rate,
		GrossAmount: breakdown.GrossAmount,
		FeeAmount:   breakdown.FeeAmount,
		NetAmount:   breakdown.NetAmount,
	}
}

// ListExchangesParams holds the query parameters for listing exchange records.
type ListExchangesParams struct {
	AccountID        string     `form:"accountID"`
	FromCurrencyCode string     `form:"fromCurrencyCode"`
	ToCurrencyCode   string     `form:"toCurrencyCode"`
	DateFrom         *time.Time `form:"dateFrom" time_format:"2006-01-02" time_utc:"1"`
	DateTo           *time.Time `form:"dateTo" time_format:"2006-01-02" time_utc:"1"`
	Order            string     `form:"order" binding:"omitempty,oneof=asc desc"`
	Limit            int        `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken        *string    `form:"nextToken"`
}

// ToExchangeFilter converts listing parameters to the domain filter. The
// dateTo parameter binds to midnight, so it is stretched to the end of that
// day to keep the range inclusive of records created during it.
func (p ListExchangesParams) ToExchangeFilter() domain.ExchangeFilter {
	dateTo := p.DateTo
	if dateTo != nil {
		endOfDay := dateTo.Add(24*time.Hour - time.Nanosecond)
		dateTo = &endOfDay
	}
	return domain.ExchangeFilter{
		AccountID:        p.AccountID,
		FromCurrencyCode: p.FromCurrencyCode,
		ToCurrencyCode:   p.ToCurrencyCode,
		DateFrom:         p.DateFrom,
		DateTo:           dateTo,
		SortAsc:          p.Order == "asc",
	}
}

// ListExchangesResponse is a page of exchange records plus the next-page token.
type ListExchangesResponse struct {
	Exchanges []ExchangeResponse `json:"exchanges"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToListExchangesResponse converts a page of domain results to the response DTO.
func ToListExchangesResponse(results []domain.ExchangeResult, nextToken *string) ListExchangesResponse {
	exchanges := make([]ExchangeResponse, len(results))
	for i := range results {
		exchanges[i] = ToExchangeResponse(&results[i])
	}
	return ListExchangesResponse{Exchanges: exchanges, NextToken: nextToken}
}
