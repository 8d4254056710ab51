package repositories

import "context"

// BankResolver resolves the distinguished system account that acts as the
// exchange counterparty. Account registration itself lives upstream; the
// core only needs to find the bank.
type BankResolver interface {
	// FindBankAccountID returns the ID of the account flagged is_system=TRUE.
	// Returns apperrors.ErrBankNotConfigured when no such account exists.
	FindBankAccountID(ctx context.Context) (string, error)
}
