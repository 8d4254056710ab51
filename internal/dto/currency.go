package dto

import (
	"time"

	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
)

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyID   string       `json:"currencyID"`
	Code         string       `json:"code"`
	Name         string       `json:"name"`
	Color        string       `json:"color"`
	FactorToBase domain.Money `json:"factorToBase"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// ToCurrencyResponse converts a domain.Currency to a CurrencyResponse DTO.
func ToCurrencyResponse(currency *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyID:   currency.CurrencyID,
		Code:         currency.Code,
		Name:         currency.Name,
		Color:        currency.Color,
		FactorToBase: currency.FactorToBase,
		CreatedAt:    currency.CreatedAt,
		UpdatedAt:    currency.UpdatedAt,
	}
}

// ToListCurrencyResponse converts a slice of domain currencies to DTOs.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}
