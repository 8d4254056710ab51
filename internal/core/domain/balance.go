package domain

import "time"

// Balance is one ledger row: the amount an account holds in one currency.
// At most one row exists per (accountID, currencyID) pair; absence means
// zero. Rows are created lazily on first credit/debit/set and never go
// negative.
type Balance struct {
	BalanceID  string    `json:"balanceID"` // Primary Key (UUID)
	AccountID  string    `json:"accountID"`
	CurrencyID string    `json:"currencyID"`
	Amount     Money     `json:"amount"` // Amount precision, always >= 0
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// AccountBalance is one row of the zero-filled per-account balance listing:
// every currency known to the system appears, with amount 0 materialized for
// currencies the account has no stored row for.
type AccountBalance struct {
	CurrencyID   string `json:"currencyID"`
	CurrencyCode string `json:"code"`
	CurrencyName string `json:"name"`
	Color        string `json:"color"`
	Amount       Money  `json:"amount"`
}

// BalanceMovement is one signed ledger leg applied inside an atomic scope.
type BalanceMovement struct {
	AccountID  string
	CurrencyID string
	Delta      Money // Amount precision; negative for debits
}
