package domain

import "time"

// ExchangeRecord is the immutable audit row written for every completed
// exchange. It is appended inside the same atomic scope as the four balance
// movements and never updated or deleted afterwards.
type ExchangeRecord struct {
	ExchangeID      string    `json:"exchangeID"` // Primary Key (UUID)
	AccountID       string    `json:"accountID"`
	FromCurrencyID  string    `json:"fromCurrencyID"`
	ToCurrencyID    string    `json:"toCurrencyID"`
	FromAmount      Money     `json:"fromAmount"`      // Amount precision
	ToAmountGross   Money     `json:"toAmountGross"`   // Before fee, amount precision
	ToAmountNet     Money     `json:"toAmountNet"`     // After fee, amount precision
	Rate            Money     `json:"rate"`            // Units of "to" per 1 "from", rate precision
	QuoteFromFactor Money     `json:"quoteFromFactor"` // "from" currency's factorToBase at trade time, rate precision
	FeePercent      Money     `json:"feePercent"`      // Rate precision, e.g. 0.005000
	FeeAmount       Money     `json:"feeAmount"`       // Amount precision, in the "to" currency
	CreatedAt       time.Time `json:"createdAt"`
}

// ExchangeResult mirrors the persisted ExchangeRecord plus the resolved
// currency codes for the caller's convenience.
type ExchangeResult struct {
	ExchangeRecord
	FromCurrencyCode string `json:"fromCurrencyCode"`
	ToCurrencyCode   string `json:"toCurrencyCode"`
}

// RateBreakdown is the output of the pure rate computation: how much the
// destination side is worth before and after the bank's fee.
type RateBreakdown struct {
	Rate        Money `json:"rate"`        // Rate precision
	GrossAmount Money `json:"grossAmount"` // Amount precision
	FeeAmount   Money `json:"feeAmount"`   // Amount precision
	NetAmount   Money `json:"netAmount"`   // Amount precision
}

// ExchangeFilter narrows an exchange-record listing. Zero values mean "no
// filter" for that field.
type ExchangeFilter struct {
	AccountID        string
	FromCurrencyCode string
	ToCurrencyCode   string
	DateFrom         *time.Time
	DateTo           *time.Time
	SortAsc          bool // createdAt ascending; default is most recent first
}
