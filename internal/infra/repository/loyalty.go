package repository

import (
	"context"

	"barberbook/internal/domain/booking"
	"barberbook/internal/infra"
	"barberbook/internal/infra/db"
	"barberbook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type LoyaltyRepository struct {
	db db.DBTX
}

func NewLoyaltyRepository(dbtx db.DBTX) *LoyaltyRepository {
	return &LoyaltyRepository{db: dbtx}
}

func (r *LoyaltyRepository) Balance(ctx context.Context, locationID, clientID uuid.UUID) (booking.Money, error) {
	var cents int64
	err := r.db.QueryRow(ctx,
		`SELECT balance_cents FROM cashback_balances WHERE location_id = $1 AND client_id = $2`,
		locationID, clientID,
	).Scan(&cents)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return booking.Money{}, nil
		}
		return booking.Money{}, infra.WrapRepoErr("failed to read cashback balance", err)
	}
	return booking.MustMoney(cents), nil
}

const creditCashbackSQL = `
INSERT INTO cashback_balances (location_id, client_id, balance_cents)
VALUES ($1, $2, $3)
ON CONFLICT (location_id, client_id)
DO UPDATE SET balance_cents = cashback_balances.balance_cents + EXCLUDED.balance_cents`

func (r *LoyaltyRepository) Credit(ctx context.Context, locationID, clientID uuid.UUID, amount booking.Money) error {
	if _, err := r.db.Exec(ctx, creditCashbackSQL, locationID, clientID, amount.Cents()); err != nil {
		return infra.WrapRepoErr("failed to credit cashback", err)
	}
	return nil
}

const debitCashbackSQL = `
UPDATE cashback_balances
SET balance_cents = balance_cents - $3
WHERE location_id = $1 AND client_id = $2 AND balance_cents >= $3`

// Debit fails with a conflict kind when the balance cannot cover the amount.
func (r *LoyaltyRepository) Debit(ctx context.Context, locationID, clientID uuid.UUID, amount booking.Money) error {
	tag, err := r.db.Exec(ctx, debitCashbackSQL, locationID, clientID, amount.Cents())
	if err != nil {
		return infra.WrapRepoErr("failed to debit cashback", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insufficient cashback balance", nil, infra.KindConflict)
	}
	return nil
}

const debitCashbackUpToSQL = `
WITH current AS (
    SELECT balance_cents
    FROM cashback_balances
    WHERE location_id = $1 AND client_id = $2
    FOR UPDATE
)
UPDATE cashback_balances
SET balance_cents = GREATEST(current.balance_cents - $3, 0)
FROM current
WHERE location_id = $1 AND client_id = $2
RETURNING LEAST(current.balance_cents, $3)`

// DebitUpTo clamps at the available balance; a missing balance row debits
// nothing.
func (r *LoyaltyRepository) DebitUpTo(ctx context.Context, locationID, clientID uuid.UUID, amount booking.Money) (booking.Money, error) {
	var taken int64
	err := r.db.QueryRow(ctx, debitCashbackUpToSQL, locationID, clientID, amount.Cents()).Scan(&taken)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return booking.Money{}, nil
		}
		return booking.Money{}, infra.WrapRepoErr("failed to debit cashback", err)
	}
	return booking.MustMoney(taken), nil
}
