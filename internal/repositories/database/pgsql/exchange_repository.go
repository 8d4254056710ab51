package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mvcastro/currency_exchange_app/internal/apperrors"
	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/mvcastro/currency_exchange_app/internal/core/ports/repositories"
	"github.com/mvcastro/currency_exchange_app/internal/utils/pagination"
)

type PgxExchangeRepository struct {
	BaseRepository
}

// NewExchangeRepository creates a new repository for the exchange audit trail.
func NewExchangeRepository(pool *pgxpool.Pool) portsrepo.ExchangeRepositoryFacade {
	return &PgxExchangeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRepositoryFacade = (*PgxExchangeRepository)(nil)

// pairKey identifies one balance row touched by an exchange.
type pairKey struct {
	AccountID  string
	CurrencyID string
}

// SaveExchange applies the exchange's balance movements and appends the
// audit record within one database transaction.
//
// Every touched balance row is locked with a single SELECT ... FOR UPDATE
// ordered by (account_id, currency_id), so concurrent exchanges that touch
// the bank from opposite legs always acquire row locks in the same global
// order and cannot cross-deadlock. Movements are then applied sequentially;
// any leg that would drive a balance negative aborts the transaction.
func (r *PgxExchangeRepository) SaveExchange(ctx context.Context, record domain.ExchangeRecord, movements []domain.BalanceMovement) error {
	if len(movements) == 0 {
		return fmt.Errorf("%w: exchange has no balance movements", apperrors.ErrValidation)
	}
	movements, err := canonicalMovements(movements)
	if err != nil {
		return err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	pairs := distinctPairs(movements)
	now := record.CreatedAt

	// 1. Lazily create any missing rows so they can be locked.
	ensureBatch := &pgx.Batch{}
	ensureQuery := `
		INSERT INTO balances (balance_id, account_id, currency_id, amount, created_at, last_updated_at)
		VALUES ($1, $2, $3, 0, $4, $4)
		ON CONFLICT (account_id, currency_id) DO NOTHING;
	`
	for _, p := range pairs {
		ensureBatch.Queue(ensureQuery, uuid.NewString(), p.AccountID, p.CurrencyID, now)
	}
	if err := tx.SendBatch(ctx, ensureBatch).Close(); err != nil {
		return mapPgError("failed to create balance rows for exchange "+record.ExchangeID, err)
	}

	// 2. Lock all rows in one ordered query.
	accountIDs := make([]string, len(pairs))
	currencyIDs := make([]string, len(pairs))
	for i, p := range pairs {
		accountIDs[i] = p.AccountID
		currencyIDs[i] = p.CurrencyID
	}
	lockQuery := `
		SELECT b.account_id, b.currency_id, b.amount
		FROM balances b
		JOIN unnest($1::text[], $2::text[]) AS k(account_id, currency_id)
		  ON b.account_id = k.account_id::uuid AND b.currency_id = k.currency_id::uuid
		ORDER BY b.account_id, b.currency_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, lockQuery, accountIDs, currencyIDs)
	if err != nil {
		return mapPgError("failed to lock balance rows for exchange "+record.ExchangeID, err)
	}

	amounts := make(map[pairKey]domain.Money, len(pairs))
	for rows.Next() {
		var key pairKey
		var amount decimal.Decimal
		if err := rows.Scan(&key.AccountID, &key.CurrencyID, &amount); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan locked balance row: %w", err)
		}
		amounts[key] = domain.NewAmount(amount)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return mapPgError("error iterating locked balance rows", err)
	}
	if len(amounts) != len(pairs) {
		return fmt.Errorf("%w: expected %d balance rows, locked %d", apperrors.ErrInternal, len(pairs), len(amounts))
	}

	// 3. Apply the legs in order; every intermediate balance must stay >= 0.
	for _, m := range movements {
		key := pairKey{AccountID: m.AccountID, CurrencyID: m.CurrencyID}
		next := amounts[key].Add(m.Delta)
		if next.IsNegative() {
			return fmt.Errorf("%w: account %s holds %s, movement %s", apperrors.ErrInsufficientFunds, m.AccountID, amounts[key], m.Delta)
		}
		amounts[key] = next
	}

	// 4. Write the new amounts.
	updateBatch := &pgx.Batch{}
	updateQuery := `
		UPDATE balances
		SET amount = $3, last_updated_at = $4
		WHERE account_id = $1 AND currency_id = $2;
	`
	for _, p := range pairs {
		updateBatch.Queue(updateQuery, p.AccountID, p.CurrencyID, amounts[p].Decimal(), now)
	}
	if err := tx.SendBatch(ctx, updateBatch).Close(); err != nil {
		return mapPgError("failed to update balance rows for exchange "+record.ExchangeID, err)
	}

	// 5. Append the audit record.
	recordQuery := `
		INSERT INTO exchanges (
			exchange_id, account_id, from_currency_id, to_currency_id,
			from_amount, to_amount_gross, to_amount_net,
			rate, quote_from_factor, fee_percent, fee_amount, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, recordQuery,
		record.ExchangeID,
		record.AccountID,
		record.FromCurrencyID,
		record.ToCurrencyID,
		record.FromAmount.Decimal(),
		record.ToAmountGross.Decimal(),
		record.ToAmountNet.Decimal(),
		record.Rate.Decimal(),
		record.QuoteFromFactor.Decimal(),
		record.FeePercent.Decimal(),
		record.FeeAmount.Decimal(),
		record.CreatedAt,
	)
	if err != nil {
		return mapPgError("failed to insert exchange record "+record.ExchangeID, err)
	}

	return r.Commit(ctx, tx)
}

// canonicalMovements re-renders every movement identifier in canonical
// lower-case UUID form. Postgres stores uuid columns canonically, so rows
// scanned back from the lock query would never match a map key built from a
// differently cased identifier. Malformed identifiers are rejected before
// the transaction starts.
func canonicalMovements(movements []domain.BalanceMovement) ([]domain.BalanceMovement, error) {
	out := make([]domain.BalanceMovement, len(movements))
	for i, m := range movements {
		accountID, err := uuid.Parse(m.AccountID)
		if err != nil {
			return nil, fmt.Errorf("%w: account id %q is not a UUID", apperrors.ErrValidation, m.AccountID)
		}
		currencyID, err := uuid.Parse(m.CurrencyID)
		if err != nil {
			return nil, fmt.Errorf("%w: currency id %q is not a UUID", apperrors.ErrValidation, m.CurrencyID)
		}
		out[i] = domain.BalanceMovement{
			AccountID:  accountID.String(),
			CurrencyID: currencyID.String(),
			Delta:      m.Delta,
		}
	}
	return out, nil
}

// distinctPairs returns the unique (account, currency) pairs of the
// movements sorted by (account_id, currency_id) ascending.
func distinctPairs(movements []domain.BalanceMovement) []pairKey {
	seen := make(map[pairKey]struct{}, len(movements))
	pairs := make([]pairKey, 0, len(movements))
	for _, m := range movements {
		key := pairKey{AccountID: m.AccountID, CurrencyID: m.CurrencyID}
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			pairs = append(pairs, key)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].AccountID != pairs[j].AccountID {
			return pairs[i].AccountID < pairs[j].AccountID
		}
		return pairs[i].CurrencyID < pairs[j].CurrencyID
	})
	return pairs
}

const exchangeSelect = `
	SELECT e.exchange_id, e.account_id, e.from_currency_id, e.to_currency_id,
	       e.from_amount, e.to_amount_gross, e.to_amount_net,
	       e.rate, e.quote_from_factor, e.fee_percent, e.fee_amount, e.created_at,
	       fc.code, tc.code
	FROM exchanges e
	JOIN currencies fc ON fc.currency_id = e.from_currency_id
	JOIN currencies tc ON tc.currency_id = e.to_currency_id
`

func scanExchange(row pgx.Row) (*domain.ExchangeResult, error) {
	var result domain.ExchangeResult
	var fromAmount, toGross, toNet, rate, quote, feePercent, feeAmount decimal.Decimal

	err := row.Scan(
		&result.ExchangeID,
		&result.AccountID,
		&result.FromCurrencyID,
		&result.ToCurrencyID,
		&fromAmount,
		&toGross,
		&toNet,
		&rate,
		&quote,
		&feePercent,
		&feeAmount,
		&result.CreatedAt,
		&result.FromCurrencyCode,
		&result.ToCurrencyCode,
	)
	if err != nil {
		return nil, err
	}

	result.FromAmount = domain.NewAmount(fromAmount)
	result.ToAmountGross = domain.NewAmount(toGross)
	result.ToAmountNet = domain.NewAmount(toNet)
	result.Rate = domain.NewRate(rate)
	result.QuoteFromFactor = domain.NewRate(quote)
	result.FeePercent = domain.NewRate(feePercent)
	result.FeeAmount = domain.NewAmount(feeAmount)
	return &result, nil
}

// FindExchangeByID retrieves one exchange record with resolved currency codes.
func (r *PgxExchangeRepository) FindExchangeByID(ctx context.Context, exchangeID string) (*domain.ExchangeResult, error) {
	query := exchangeSelect + ` WHERE e.exchange_id = $1;`

	result, err := scanExchange(r.Pool.QueryRow(ctx, query, exchangeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exchange by ID %s: %w", exchangeID, err)
	}
	return result, nil
}

// ListExchanges retrieves a filtered page of exchange records using keyset
// pagination over (created_at, exchange_id).
func (r *PgxExchangeRepository) ListExchanges(ctx context.Context, filter domain.ExchangeFilter, limit int, nextToken *string) ([]domain.ExchangeResult, *string, error) {
	var conditions []string
	var args []interface{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.AccountID != "" {
		addCondition("e.account_id = $%d", filter.AccountID)
	}
	if filter.FromCurrencyCode != "" {
		addCondition("fc.code = $%d", filter.FromCurrencyCode)
	}
	if filter.ToCurrencyCode != "" {
		addCondition("tc.code = $%d", filter.ToCurrencyCode)
	}
	if filter.DateFrom != nil {
		addCondition("e.created_at >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addCondition("e.created_at <= $%d", *filter.DateTo)
	}

	comparator := "<"
	direction := "DESC"
	if filter.SortAsc {
		comparator = ">"
		direction = "ASC"
	}

	if nextToken != nil && *nextToken != "" {
		createdAt, exchangeID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, createdAt, exchangeID)
		conditions = append(conditions, fmt.Sprintf("(e.created_at, e.exchange_id) %s ($%d, $%d)", comparator, len(args)-1, len(args)))
	}

	query := exchangeSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY e.created_at %s, e.exchange_id %s LIMIT $%d;", direction, direction, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	results := []domain.ExchangeResult{}
	for rows.Next() {
		result, err := scanExchange(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan exchange row: %w", err)
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating exchange rows: %w", err)
	}

	// One extra row was requested to detect whether another page exists.
	var token *string
	if len(results) > limit {
		results = results[:limit]
		last := results[len(results)-1]
		encoded := pagination.EncodeToken(last.CreatedAt, last.ExchangeID)
		token = &encoded
	}

	return results, token, nil
}
