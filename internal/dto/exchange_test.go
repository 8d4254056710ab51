package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mvcastro/currency_exchange_app/internal/dto"
)

func TestToExchangeFilter_StretchesDateToToEndOfDay(t *testing.T) {
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	params := dto.ListExchangesParams{DateTo: &day}

	filter := params.ToExchangeFilter()

	if assert.NotNil(t, filter.DateTo) {
		assert.True(t, filter.DateTo.Equal(time.Date(2026, 1, 15, 23, 59, 59, 999999999, time.UTC)))
	}
	// The bound parameter itself stays untouched.
	assert.True(t, day.Equal(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)))
}

func TestToExchangeFilter_PassesRangeAndOrderThrough(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	params := dto.ListExchangesParams{
		AccountID:        "ab7f2f1e-0b63-4f44-9f7d-2f6a2a3c9f10",
		FromCurrencyCode: "GOLD",
		ToCurrencyCode:   "SILVER",
		DateFrom:         &from,
		Order:            "asc",
	}

	filter := params.ToExchangeFilter()

	assert.Equal(t, params.AccountID, filter.AccountID)
	assert.Equal(t, "GOLD", filter.FromCurrencyCode)
	assert.Equal(t, "SILVER", filter.ToCurrencyCode)
	assert.Equal(t, &from, filter.DateFrom)
	assert.Nil(t, filter.DateTo)
	assert.True(t, filter.SortAsc)
}
