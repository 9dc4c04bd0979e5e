package repository

import (
	"context"
	"time"

	"barberbook/internal/domain/booking"
	"barberbook/internal/domain/promotion"
	"barberbook/internal/infra"
	"barberbook/internal/infra/db"
	"barberbook/internal/pkg/pgconv"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PromotionRepository struct {
	db db.DBTX
}

func NewPromotionRepository(dbtx db.DBTX) *PromotionRepository {
	return &PromotionRepository{db: dbtx}
}

const createApplicationSQL = `
INSERT INTO promotion_applications (id, booking_id, kind, instrument_id, payment_id, client_id, amount_cents, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`

func (r *PromotionRepository) CreateApplication(ctx context.Context, app *promotion.Application) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, createApplicationSQL,
		app.ID(), app.BookingID(), string(app.Kind()),
		pgconv.UUIDPtrToPgtype(app.InstrumentID()),
		pgconv.UUIDPtrToPgtype(app.PaymentID()),
		pgconv.UUIDPtrToPgtype(app.ClientID()),
		app.AmountApplied().Cents(),
		app.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create promotion application", err)
	}
	return id, nil
}

const applicationsByBookingSQL = `
SELECT id, booking_id, kind, instrument_id, payment_id, client_id, amount_cents, created_at
FROM promotion_applications
WHERE booking_id = $1
ORDER BY created_at, id`

func (r *PromotionRepository) ApplicationsByBooking(ctx context.Context, bookingID uuid.UUID) ([]shared.PromotionApplicationSnapshot, error) {
	rows, err := r.db.Query(ctx, applicationsByBookingSQL, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list promotion applications", err)
	}
	defer rows.Close()
	return scanApplications(rows)
}

const deleteApplicationsByPaymentSQL = `
DELETE FROM promotion_applications
WHERE payment_id = $1
RETURNING id, booking_id, kind, instrument_id, payment_id, client_id, amount_cents, created_at`

func (r *PromotionRepository) DeleteApplicationsByPayment(ctx context.Context, paymentID uuid.UUID) ([]shared.PromotionApplicationSnapshot, error) {
	rows, err := r.db.Query(ctx, deleteApplicationsByPaymentSQL, paymentID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to delete promotion applications", err)
	}
	defer rows.Close()
	return scanApplications(rows)
}

const couponUsageCountsSQL = `
SELECT
    COUNT(*),
    COUNT(*) FILTER (WHERE client_id = $2)
FROM promotion_applications
WHERE kind = 'coupon' AND instrument_id = $1`

func (r *PromotionRepository) CouponUsageCounts(ctx context.Context, couponID uuid.UUID, clientID *uuid.UUID) (int64, int64, error) {
	var global, perClient int64
	err := r.db.QueryRow(ctx, couponUsageCountsSQL, couponID, pgconv.UUIDPtrToPgtype(clientID)).Scan(&global, &perClient)
	if err != nil {
		return 0, 0, infra.WrapRepoErr("failed to count coupon usage", err)
	}
	return global, perClient, nil
}

const kindCountInWindowSQL = `
SELECT COUNT(*)
FROM promotion_applications pa
JOIN bookings b ON b.id = pa.booking_id
WHERE b.location_id = $1
  AND pa.kind = $2
  AND pa.payment_id IS NOT NULL
  AND pa.created_at >= $3`

func (r *PromotionRepository) KindCountInWindow(ctx context.Context, locationID uuid.UUID, kind promotion.Kind, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, kindCountInWindowSQL, locationID, string(kind), since).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count promotion usage in window", err)
	}
	return count, nil
}

const giftCardForUpdateSQL = `
SELECT id, location_id, balance_cents, status, expires_at
FROM gift_cards
WHERE id = $1
FOR UPDATE`

func (r *PromotionRepository) GiftCardForUpdate(ctx context.Context, id uuid.UUID) (*promotion.GiftCard, error) {
	var (
		cardID       uuid.UUID
		locationID   uuid.UUID
		balanceCents int64
		status       string
		expiresAt    pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, giftCardForUpdateSQL, id).Scan(&cardID, &locationID, &balanceCents, &status, &expiresAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("gift card not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock gift card", err)
	}

	var expiry *time.Time
	if expiresAt.Valid {
		t := expiresAt.Time
		expiry = &t
	}
	return promotion.NewGiftCard(cardID, locationID, booking.MustMoney(balanceCents), promotion.GiftCardStatus(status), expiry), nil
}

const saveGiftCardSQL = `
UPDATE gift_cards SET balance_cents = $2, status = $3 WHERE id = $1`

func (r *PromotionRepository) SaveGiftCard(ctx context.Context, g *promotion.GiftCard) error {
	tag, err := r.db.Exec(ctx, saveGiftCardSQL, g.ID(), g.Balance().Cents(), string(g.Status()))
	if err != nil {
		return infra.WrapRepoErr("failed to save gift card", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("gift card not found", nil, infra.KindNotFound)
	}
	return nil
}

type applicationRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanApplications(rows applicationRows) ([]shared.PromotionApplicationSnapshot, error) {
	var apps []shared.PromotionApplicationSnapshot
	for rows.Next() {
		var (
			snap         shared.PromotionApplicationSnapshot
			kind         string
			instrumentID pgtype.UUID
			paymentID    pgtype.UUID
			clientID     pgtype.UUID
		)
		if err := rows.Scan(&snap.ID, &snap.BookingID, &kind, &instrumentID, &paymentID, &clientID, &snap.AmountCents, &snap.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan promotion application", err)
		}
		snap.Kind = promotion.Kind(kind)
		snap.InstrumentID = pgconv.UUIDPtrFromPgtype(instrumentID)
		snap.PaymentID = pgconv.UUIDPtrFromPgtype(paymentID)
		snap.ClientID = pgconv.UUIDPtrFromPgtype(clientID)
		apps = append(apps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read promotion applications", err)
	}
	return apps, nil
}
