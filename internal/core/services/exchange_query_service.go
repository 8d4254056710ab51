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

const defaultListLimit = 20

// exchangeQueryService serves the read-only audit trail queries. These sit
// outside the concurrency-critical path and are plain indexed lookups.
type exchangeQueryService struct {
	exchangeRepo portsrepo.ExchangeReader
}

// NewExchangeQueryService creates a new read-only exchange query service.
func NewExchangeQueryService(exchangeRepo portsrepo.ExchangeReader) portssvc.ExchangeQuerySvcFacade {
	return &exchangeQueryService{exchangeRepo: exchangeRepo}
}

var _ portssvc.ExchangeQuerySvcFacade = (*exchangeQueryService)(nil)

// GetExchangeByID retrieves one exchange record by its ID.
func (s *exchangeQueryService) GetExchangeByID(ctx context.Context, exchangeID string) (*domain.ExchangeResult, error) {
	record, err := s.exchangeRepo.FindExchangeByID(ctx, exchangeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find exchange by ID", slog.String("exchange_id", exchangeID), slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to find exchange %s: %w", exchangeID, err)
	}
	return record, nil
}

// ListExchanges retrieves a filtered, token-paginated page of exchange records.
func (s *exchangeQueryService) ListExchanges(ctx context.Context, filter domain.ExchangeFilter, limit int, nextToken *string) ([]domain.ExchangeResult, *string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	records, token, err := s.exchangeRepo.ListExchanges(ctx, filter, limit, nextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list exchanges", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to list exchanges: %w", err)
	}
	if records == nil {
		records = []domain.ExchangeResult{}
	}
	return records, token, nil
}
