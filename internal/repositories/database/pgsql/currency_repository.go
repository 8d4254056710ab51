package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mvcastro/currency_exchange_app/internal/apperrors"
	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/mvcastro/currency_exchange_app/internal/core/ports/repositories"
)

type PgxCurrencyRepository struct {
	BaseRepository
}

// NewCurrencyRepository creates a new read-only repository for currency data.
func NewCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyReader {
	return &PgxCurrencyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CurrencyReader = (*PgxCurrencyRepository)(nil)

const currencySelect = `
	SELECT currency_id, code, name, color, factor_to_base, created_at, last_updated_at
	FROM currencies
`

func scanCurrency(row pgx.Row) (*domain.Currency, error) {
	var currency domain.Currency
	var factor decimal.Decimal

	err := row.Scan(
		&currency.CurrencyID,
		&currency.Code,
		&currency.Name,
		&currency.Color,
		&factor,
		&currency.CreatedAt,
		&currency.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	currency.FactorToBase = domain.NewRate(factor)
	return &currency, nil
}

// FindCurrencyByCode retrieves a currency by its unique code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	currency, err := scanCurrency(r.Pool.QueryRow(ctx, currencySelect+` WHERE code = $1;`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", code, err)
	}
	return currency, nil
}

// FindCurrencyByID retrieves a currency by its ID.
func (r *PgxCurrencyRepository) FindCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error) {
	currency, err := scanCurrency(r.Pool.QueryRow(ctx, currencySelect+` WHERE currency_id = $1;`, currencyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by ID %s: %w", currencyID, err)
	}
	return currency, nil
}

// ListCurrencies retrieves all currencies ordered by code.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.Pool.Query(ctx, currencySelect+` ORDER BY code ASC;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies := []domain.Currency{}
	for rows.Next() {
		currency, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		currencies = append(currencies, *currency)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", err)
	}

	return currencies, nil
}
