package pgsql

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvcastro/currency_exchange_app/internal/apperrors"
	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
)

func TestCanonicalMovements_LowercasesMixedCaseUUIDs(t *testing.T) {
	accountID := uuid.NewString()
	currencyID := uuid.NewString()
	delta := domain.NewAmount(decimal.RequireFromString("-5.00"))

	got, err := canonicalMovements([]domain.BalanceMovement{
		{AccountID: strings.ToUpper(accountID), CurrencyID: strings.ToUpper(currencyID), Delta: delta},
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, accountID, got[0].AccountID)
	assert.Equal(t, currencyID, got[0].CurrencyID)
	assert.True(t, got[0].Delta.Equal(delta))
}

func TestCanonicalMovements_RejectsMalformedIdentifiers(t *testing.T) {
	delta := domain.NewAmount(decimal.RequireFromString("1.00"))

	_, err := canonicalMovements([]domain.BalanceMovement{
		{AccountID: "not-a-uuid", CurrencyID: uuid.NewString(), Delta: delta},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = canonicalMovements([]domain.BalanceMovement{
		{AccountID: uuid.NewString(), CurrencyID: "not-a-uuid", Delta: delta},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDistinctPairs_DeduplicatesAndOrders(t *testing.T) {
	delta := domain.NewAmount(decimal.RequireFromString("1.00"))
	movements := []domain.BalanceMovement{
		{AccountID: "b", CurrencyID: "2", Delta: delta},
		{AccountID: "a", CurrencyID: "2", Delta: delta},
		{AccountID: "b", CurrencyID: "1", Delta: delta},
		{AccountID: "a", CurrencyID: "2", Delta: delta},
	}

	pairs := distinctPairs(movements)

	assert.Equal(t, []pairKey{
		{AccountID: "a", CurrencyID: "2"},
		{AccountID: "b", CurrencyID: "1"},
		{AccountID: "b", CurrencyID: "2"},
	}, pairs)
}
