package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
)

// BalanceMutationRequest defines the data for a direct credit, debit or
// set-absolute balance operation.
type BalanceMutationRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// BalanceResponse defines the data returned after a balance mutation.
type BalanceResponse struct {
	AccountID    string       `json:"accountID"`
	CurrencyCode string       `json:"currencyCode"`
	Amount       domain.Money `json:"amount"`
}

// AccountBalanceResponse is one row of the zero-filled balance listing.
type AccountBalanceResponse struct {
	CurrencyID string       `json:"currencyID"`
	Code       string       `json:"code"`
	Name       string       `json:"name"`
	Color      string       `json:"color"`
	Amount     domain.Money `json:"amount"`
}

// ToAccountBalanceResponses converts the domain listing rows to DTOs.
func ToAccountBalanceResponses(balances []domain.AccountBalance) []AccountBalanceResponse {
	res := make([]AccountBalanceResponse, len(balances))
	for i, b := range balances {
		res[i] = AccountBalanceResponse{
			CurrencyID: b.CurrencyID,
			Code:       b.CurrencyCode,
			Name:       b.CurrencyName,
			Color:      b.Color,
			Amount:     b.Amount,
		}
	}
	return res
}
