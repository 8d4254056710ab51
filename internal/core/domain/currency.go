package domain

import "time"

// Currency represents a user-defined currency in the domain. The core only
// reads currencies; catalog maintenance happens in an external admin layer.
type Currency struct {
	CurrencyID   string    `json:"currencyID"`   // Primary Key (UUID)
	Code         string    `json:"code"`         // Unique short code (e.g. "GOLD")
	Name         string    `json:"name"`         // e.g. "Gold Piece"
	Color        string    `json:"color"`        // Display color hint for clients
	FactorToBase Money     `json:"factorToBase"` // Value relative to the implicit base unit; rate precision, > 0
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
