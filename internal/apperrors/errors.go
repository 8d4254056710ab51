package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInvalidAmount indicates a non-positive or malformed value where a positive amount is required.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInsufficientFunds indicates a debit that would make a balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrSameCurrency indicates an exchange where source and destination currencies are identical.
var ErrSameCurrency = errors.New("source and destination currencies must differ")

// ErrCurrencyNotFound indicates a currency code that does not resolve to a known currency.
var ErrCurrencyNotFound = errors.New("currency not found")

// ErrBankNotConfigured indicates that no system account is flagged as the bank counterparty.
var ErrBankNotConfigured = errors.New("bank account not configured")

// ErrInvalidRateInput indicates non-positive conversion factors or amounts fed to the rate calculator.
var ErrInvalidRateInput = errors.New("invalid rate input")

// ErrNonPositiveNetAmount indicates the fee consumed the entire converted amount.
var ErrNonPositiveNetAmount = errors.New("net amount after fee is not positive")

// ErrConcurrencyConflict indicates lock or commit contention; the caller may retry the
// same request verbatim. All other errors require corrected input before retrying.
var ErrConcurrencyConflict = errors.New("concurrent modification conflict")
