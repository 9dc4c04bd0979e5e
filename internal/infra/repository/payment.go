package repository

import (
	"context"
	"time"

	"barberbook/internal/domain/booking"
	"barberbook/internal/infra"
	"barberbook/internal/infra/db"
	"barberbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

const createPaymentSQL = `
INSERT INTO payments (id, booking_id, payment_method_id, amount_cents, paid_at, note)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

func (r *PaymentRepository) Create(ctx context.Context, p *booking.Payment) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, createPaymentSQL,
		p.ID(), p.BookingID(), p.PaymentMethodID(),
		p.Amount().Cents(), p.PaidAt(),
		pgconv.StringPtrToPgtype(p.Note()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create payment", err)
	}
	return id, nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	return nil
}

const listPaymentsByBookingSQL = `
SELECT id, booking_id, payment_method_id, amount_cents, paid_at, note
FROM payments
WHERE booking_id = $1
ORDER BY paid_at, id`

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*booking.Payment, error) {
	rows, err := r.db.Query(ctx, listPaymentsByBookingSQL, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payments", err)
	}
	defer rows.Close()

	var payments []*booking.Payment
	for rows.Next() {
		var (
			id              uuid.UUID
			bID             uuid.UUID
			paymentMethodID uuid.UUID
			amountCents     int64
			paidAt          time.Time
			note            pgtype.Text
		)
		if err := rows.Scan(&id, &bID, &paymentMethodID, &amountCents, &paidAt, &note); err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment", err)
		}
		payments = append(payments, booking.ReconstructPayment(
			id, bID, paymentMethodID,
			booking.MustMoney(amountCents), paidAt,
			pgconv.StringPtrFromPgtype(note),
		))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read payments", err)
	}
	return payments, nil
}
