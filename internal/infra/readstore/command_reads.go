package readstore

import (
	"context"
	"time"

	"barberbook/internal/domain/booking"
	"barberbook/internal/infra"
	"barberbook/internal/infra/db"
	"barberbook/internal/pkg/pgconv"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// CommandReadStore serves the validation reads commands need. It runs on
// whatever DBTX it is given, so the same store works inside and outside a
// transaction.
type CommandReadStore struct {
	db db.DBTX
}

func NewCommandReadStore(dbtx db.DBTX) *CommandReadStore {
	return &CommandReadStore{db: dbtx}
}

const bookingByIDSQL = `
SELECT id, location_id, professional_id, client_id, status, start_time, expected_end
FROM bookings
WHERE id = $1`

func (s *CommandReadStore) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var (
		snap     shared.BookingSnapshot
		clientID pgtype.UUID
		status   string
	)
	err := s.db.QueryRow(ctx, bookingByIDSQL, id).Scan(
		&snap.ID, &snap.LocationID, &snap.ProfessionalID, &clientID,
		&status, &snap.StartTime, &snap.ExpectedEnd,
	)
	if err != nil {
		return nil, notFoundOr(err, "booking not found", "failed to read booking")
	}
	snap.ClientID = pgconv.UUIDPtrFromPgtype(clientID)
	snap.Status = booking.Status(status)
	return &snap, nil
}

const serviceByIDSQL = `
SELECT id, location_id, name, price_cents, duration_min, commission_percent, active
FROM services
WHERE id = $1`

func (s *CommandReadStore) ServiceByID(ctx context.Context, id uuid.UUID) (*shared.ServiceSnapshot, error) {
	var (
		snap       shared.ServiceSnapshot
		commission pgtype.Float8
	)
	err := s.db.QueryRow(ctx, serviceByIDSQL, id).Scan(
		&snap.ID, &snap.LocationID, &snap.Name, &snap.PriceCents,
		&snap.DurationMin, &commission, &snap.Active,
	)
	if err != nil {
		return nil, notFoundOr(err, "service not found", "failed to read service")
	}
	snap.CommissionPercent, err = pgconv.Float64PtrFromPgtype(commission)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid service commission", err)
	}
	return &snap, nil
}

const productByIDSQL = `
SELECT id, location_id, name, price_cents, active
FROM products
WHERE id = $1`

func (s *CommandReadStore) ProductByID(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	var snap shared.ProductSnapshot
	err := s.db.QueryRow(ctx, productByIDSQL, id).Scan(
		&snap.ID, &snap.LocationID, &snap.Name, &snap.PriceCents, &snap.Active,
	)
	if err != nil {
		return nil, notFoundOr(err, "product not found", "failed to read product")
	}
	return &snap, nil
}

const professionalByIDSQL = `
SELECT id, location_id, name, commission_percent, active
FROM professionals
WHERE id = $1`

func (s *CommandReadStore) ProfessionalByID(ctx context.Context, id uuid.UUID) (*shared.ProfessionalSnapshot, error) {
	var (
		snap       shared.ProfessionalSnapshot
		commission pgtype.Float8
	)
	err := s.db.QueryRow(ctx, professionalByIDSQL, id).Scan(
		&snap.ID, &snap.LocationID, &snap.Name, &commission, &snap.Active,
	)
	if err != nil {
		return nil, notFoundOr(err, "professional not found", "failed to read professional")
	}
	snap.CommissionPercent, err = pgconv.Float64PtrFromPgtype(commission)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid professional commission", err)
	}
	return &snap, nil
}

const locationByIDSQL = `
SELECT id, name, timezone, cashback_active, cashback_percent, cashback_min_total_cents
FROM locations
WHERE id = $1`

func (s *CommandReadStore) LocationByID(ctx context.Context, id uuid.UUID) (*shared.LocationSnapshot, error) {
	var snap shared.LocationSnapshot
	err := s.db.QueryRow(ctx, locationByIDSQL, id).Scan(
		&snap.ID, &snap.Name, &snap.Timezone,
		&snap.CashbackActive, &snap.CashbackPercent, &snap.CashbackMinTotalCents,
	)
	if err != nil {
		return nil, notFoundOr(err, "location not found", "failed to read location")
	}
	return &snap, nil
}

const paymentByIDSQL = `
SELECT id, booking_id, payment_method_id, amount_cents, paid_at
FROM payments
WHERE id = $1`

func (s *CommandReadStore) PaymentByID(ctx context.Context, id uuid.UUID) (*shared.PaymentSnapshot, error) {
	var snap shared.PaymentSnapshot
	err := s.db.QueryRow(ctx, paymentByIDSQL, id).Scan(
		&snap.ID, &snap.BookingID, &snap.PaymentMethodID, &snap.AmountCents, &snap.PaidAt,
	)
	if err != nil {
		return nil, notFoundOr(err, "payment not found", "failed to read payment")
	}
	return &snap, nil
}

const couponByCodeSQL = `
SELECT id, location_id, code, percent_off, fixed_off_cents, active, expires_at, usage_limit, per_client_limit
FROM coupons
WHERE location_id = $1 AND code = $2`

func (s *CommandReadStore) CouponByCode(ctx context.Context, locationID uuid.UUID, code string) (*shared.CouponSnapshot, error) {
	var (
		snap           shared.CouponSnapshot
		expiresAt      pgtype.Timestamptz
		usageLimit     pgtype.Int4
		perClientLimit pgtype.Int4
	)
	err := s.db.QueryRow(ctx, couponByCodeSQL, locationID, code).Scan(
		&snap.ID, &snap.LocationID, &snap.Code, &snap.PercentOff, &snap.FixedOffCents,
		&snap.Active, &expiresAt, &usageLimit, &perClientLimit,
	)
	if err != nil {
		return nil, notFoundOr(err, "coupon not found", "failed to read coupon")
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		snap.ExpiresAt = &t
	}
	snap.UsageLimit = pgconv.Int32PtrFromPgtype(usageLimit)
	snap.PerClientLimit = pgconv.Int32PtrFromPgtype(perClientLimit)
	return &snap, nil
}

const cancellationPolicySQL = `
SELECT location_id, min_advance_notice_hours, late_penalty_percent, max_unnotified_cancellations
FROM cancellation_policies
WHERE location_id = $1`

func (s *CommandReadStore) CancellationPolicyByLocation(ctx context.Context, locationID uuid.UUID) (*shared.CancellationPolicySnapshot, error) {
	var snap shared.CancellationPolicySnapshot
	err := s.db.QueryRow(ctx, cancellationPolicySQL, locationID).Scan(
		&snap.LocationID, &snap.MinAdvanceNoticeHours,
		&snap.LatePenaltyPercent, &snap.MaxUnnotifiedCancellationsBeforeBlock,
	)
	if err != nil {
		return nil, notFoundOr(err, "cancellation policy not found", "failed to read cancellation policy")
	}
	return &snap, nil
}

const promotionPolicySQL = `
SELECT location_id, allow_coupon_with_cashback, allow_gift_card_with_cashback, usage_window_days, usage_limit_in_window
FROM promotion_policies
WHERE location_id = $1`

func (s *CommandReadStore) PromotionPolicyByLocation(ctx context.Context, locationID uuid.UUID) (*shared.PromotionPolicySnapshot, error) {
	var snap shared.PromotionPolicySnapshot
	err := s.db.QueryRow(ctx, promotionPolicySQL, locationID).Scan(
		&snap.LocationID, &snap.AllowCouponWithCashback, &snap.AllowGiftCardWithCashback,
		&snap.UsageWindowDays, &snap.UsageLimitInWindow,
	)
	if err != nil {
		return nil, notFoundOr(err, "promotion policy not found", "failed to read promotion policy")
	}
	return &snap, nil
}

func (s *CommandReadStore) IsHoliday(ctx context.Context, locationID uuid.UUID, date time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM holidays WHERE location_id = $1 AND holiday_date = $2::date)`,
		locationID, date,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check holiday", err)
	}
	return exists, nil
}

const countBlocksOverlappingSQL = `
SELECT COUNT(*)
FROM blocks
WHERE location_id = $1
  AND (professional_id IS NULL OR professional_id = $2)
  AND start_time < $4
  AND end_time > $3`

func (s *CommandReadStore) CountBlocksOverlapping(ctx context.Context, locationID, professionalID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, countBlocksOverlappingSQL, locationID, professionalID, start, end).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count blocks", err)
	}
	return count, nil
}

func notFoundOr(err error, notFoundMsg, failMsg string) error {
	if pgconv.IsNoRows(err) {
		return infra.WrapRepoErr(notFoundMsg, err, infra.KindNotFound)
	}
	return infra.WrapRepoErr(failMsg, err)
}
