package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mvcastro/currency_exchange_app/internal/apperrors"
	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/mvcastro/currency_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/mvcastro/currency_exchange_app/internal/core/ports/services"
	"github.com/mvcastro/currency_exchange_app/internal/middleware"
)

// ledgerService provides the per-(account, currency) balance operations.
// Every mutation is persisted atomically by the repository; this layer owns
// the amount validation rules.
type ledgerService struct {
	balanceRepo portsrepo.BalanceRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(balanceRepo portsrepo.BalanceRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{balanceRepo: balanceRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetBalance returns the stored balance for the pair, or zero when no row
// exists. Absence is not an error: the ledger is sparse.
func (s *ledgerService) GetBalance(ctx context.Context, accountID, currencyID string) (domain.Money, error) {
	balance, err := s.balanceRepo.FindBalance(ctx, accountID, currencyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.ZeroAmount(), nil
		}
		return domain.Money{}, fmt.Errorf("failed to get balance for account %s: %w", accountID, err)
	}
	return balance.Amount, nil
}

// Credit adds amount to the pair's balance, creating the row if absent.
func (s *ledgerService) Credit(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return domain.Money{}, fmt.Errorf("%w: credit amount must be positive, got %s", apperrors.ErrInvalidAmount, amount)
	}

	newBalance, err := s.balanceRepo.CreditBalance(ctx, accountID, currencyID, amount)
	if err != nil {
		logger.Error("Failed to credit balance", slog.String("account_id", accountID), slog.String("currency_id", currencyID), slog.String("error", err.Error()))
		return domain.Money{}, fmt.Errorf("failed to credit balance: %w", err)
	}

	logger.Info("Balance credited", slog.String("account_id", accountID), slog.String("currency_id", currencyID), slog.String("amount", amount.String()), slog.String("new_balance", newBalance.String()))
	return newBalance, nil
}

// Debit subtracts amount from the pair's balance. The row is left unchanged
// when the debit would make it negative.
func (s *ledgerService) Debit(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return domain.Money{}, fmt.Errorf("%w: debit amount must be positive, got %s", apperrors.ErrInvalidAmount, amount)
	}

	newBalance, err := s.balanceRepo.DebitBalance(ctx, accountID, currencyID, amount)
	if err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			logger.Error("Failed to debit balance", slog.String("account_id", accountID), slog.String("currency_id", currencyID), slog.String("error", err.Error()))
		}
		return domain.Money{}, fmt.Errorf("failed to debit balance: %w", err)
	}

	logger.Info("Balance debited", slog.String("account_id", accountID), slog.String("currency_id", currencyID), slog.String("amount", amount.String()), slog.String("new_balance", newBalance.String()))
	return newBalance, nil
}

// SetAbsolute overwrites the pair's balance with a non-negative amount.
func (s *ledgerService) SetAbsolute(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.IsNegative() {
		return domain.Money{}, fmt.Errorf("%w: absolute balance must not be negative, got %s", apperrors.ErrInvalidAmount, amount)
	}

	newBalance, err := s.balanceRepo.SetBalance(ctx, accountID, currencyID, amount)
	if err != nil {
		logger.Error("Failed to set balance", slog.String("account_id", accountID), slog.String("currency_id", currencyID), slog.String("error", err.Error()))
		return domain.Money{}, fmt.Errorf("failed to set balance: %w", err)
	}

	logger.Info("Balance set", slog.String("account_id", accountID), slog.String("currency_id", currencyID), slog.String("new_balance", newBalance.String()))
	return newBalance, nil
}

// ListForAccount returns the account's balance in every known currency,
// zero-filled and ordered by currency code ascending.
func (s *ledgerService) ListForAccount(ctx context.Context, accountID string) ([]domain.AccountBalance, error) {
	balances, err := s.balanceRepo.ListBalancesForAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances for account %s: %w", accountID, err)
	}
	if balances == nil {
		return []domain.AccountBalance{}, nil
	}
	return balances, nil
}
