package domain

import "time"

// Account represents a registered account that can hold balances.
// Registration and identity live upstream; the core treats account IDs as
// opaque and only cares about the single system account acting as the bank
// counterparty for exchanges.
type Account struct {
	AccountID string    `json:"accountID"` // Primary Key (UUID)
	Name      string    `json:"name"`
	IsSystem  bool      `json:"isSystem"` // TRUE marks the bank counterparty account
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
