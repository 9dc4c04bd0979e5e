package repository

import (
	"context"

	"barberbook/internal/domain/booking"
	"barberbook/internal/infra"
	"barberbook/internal/infra/db"
	"barberbook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type SettlementRepository struct {
	db db.DBTX
}

func NewSettlementRepository(dbtx db.DBTX) *SettlementRepository {
	return &SettlementRepository{db: dbtx}
}

const upsertReceivableSQL = `
INSERT INTO receivables (booking_id, amount_cents, status, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (booking_id)
DO UPDATE SET amount_cents = EXCLUDED.amount_cents, status = EXCLUDED.status, updated_at = now()`

func (r *SettlementRepository) UpsertReceivable(ctx context.Context, bookingID uuid.UUID, amount booking.Money, status booking.ReceivableStatus) error {
	if _, err := r.db.Exec(ctx, upsertReceivableSQL, bookingID, amount.Cents(), string(status)); err != nil {
		return infra.WrapRepoErr("failed to upsert receivable", err)
	}
	return nil
}

const upsertReceiptSQL = `
INSERT INTO receipts (booking_id, amount_cents, status, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (booking_id)
DO UPDATE SET amount_cents = EXCLUDED.amount_cents, status = EXCLUDED.status, updated_at = now()`

func (r *SettlementRepository) UpsertReceipt(ctx context.Context, bookingID uuid.UUID, amount booking.Money, status booking.ReceiptStatus) (booking.ReceiptStatus, error) {
	// Same transaction: the read and the upsert cannot interleave with another
	// writer on this booking.
	prev, err := r.ReceiptStatusByBooking(ctx, bookingID)
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			return "", err
		}
		prev = booking.ReceiptStatusPending
	}

	if _, err := r.db.Exec(ctx, upsertReceiptSQL, bookingID, amount.Cents(), string(status)); err != nil {
		return "", infra.WrapRepoErr("failed to upsert receipt", err)
	}
	return prev, nil
}

func (r *SettlementRepository) ReceiptStatusByBooking(ctx context.Context, bookingID uuid.UUID) (booking.ReceiptStatus, error) {
	var status string
	err := r.db.QueryRow(ctx, `SELECT status FROM receipts WHERE booking_id = $1`, bookingID).Scan(&status)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return "", infra.WrapRepoErr("receipt not found", err, infra.KindNotFound)
		}
		return "", infra.WrapRepoErr("failed to read receipt status", err)
	}
	return booking.ReceiptStatus(status), nil
}

func (r *SettlementRepository) ReverseByBooking(ctx context.Context, bookingID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `UPDATE receivables SET status = 'reversed', updated_at = now() WHERE booking_id = $1`, bookingID); err != nil {
		return infra.WrapRepoErr("failed to reverse receivable", err)
	}
	if _, err := r.db.Exec(ctx, `UPDATE receipts SET status = 'reversed', updated_at = now() WHERE booking_id = $1`, bookingID); err != nil {
		return infra.WrapRepoErr("failed to reverse receipt", err)
	}
	return nil
}
