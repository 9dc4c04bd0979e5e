package readstore

import (
	"context"
	"fmt"
	"time"

	"barberbook/internal/infra"
	"barberbook/internal/infra/db"
	"barberbook/internal/pkg/pgconv"
	"barberbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingViewStore struct {
	db db.DBTX
}

func NewBookingViewStore(dbtx db.DBTX) *BookingViewStore {
	return &BookingViewStore{db: dbtx}
}

const findBookingViewSQL = `
SELECT
    b.id, b.location_id, b.professional_id, p.name,
    b.client_id, c.name,
    b.start_time, b.expected_end, b.status, b.created_at, b.updated_at
FROM bookings b
JOIN professionals p ON p.id = b.professional_id
LEFT JOIN clients c ON c.id = b.client_id
WHERE b.id = $1`

func (s *BookingViewStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		view       queries.BookingView
		clientID   pgtype.UUID
		clientName pgtype.Text
	)
	err := s.db.QueryRow(ctx, findBookingViewSQL, id).Scan(
		&view.ID, &view.LocationID, &view.ProfessionalID, &view.ProfessionalName,
		&clientID, &clientName,
		&view.StartTime, &view.ExpectedEnd, &view.Status, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundOr(err, "booking not found", "failed to read booking")
	}
	view.ClientID = pgconv.UUIDPtrFromPgtype(clientID)
	view.ClientName = pgconv.StringPtrFromPgtype(clientName)

	if view.Items, err = s.itemViews(ctx, id); err != nil {
		return nil, err
	}
	if view.Payments, err = s.paymentViews(ctx, id); err != nil {
		return nil, err
	}
	if view.Settlement, err = s.settlementView(ctx, id); err != nil {
		return nil, err
	}
	return &view, nil
}

const itemViewsSQL = `
SELECT
    i.id, i.kind, COALESCE(i.service_id, i.product_id),
    COALESCE(s.name, pr.name, ''),
    i.quantity, i.unit_price_cents, i.discount_cents, i.fee_cents,
    i.justification, i.commission_percent,
    (GREATEST(i.unit_price_cents - COALESCE(i.discount_cents, 0), 0) + COALESCE(i.fee_cents, 0)) * i.quantity
FROM booking_items i
LEFT JOIN services s ON s.id = i.service_id
LEFT JOIN products pr ON pr.id = i.product_id
WHERE i.booking_id = $1
ORDER BY i.created_at, i.id`

func (s *BookingViewStore) itemViews(ctx context.Context, bookingID uuid.UUID) ([]*queries.ItemView, error) {
	rows, err := s.db.Query(ctx, itemViewsSQL, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking items", err)
	}
	defer rows.Close()

	items := []*queries.ItemView{}
	for rows.Next() {
		var (
			item          queries.ItemView
			discount      pgtype.Int8
			fee           pgtype.Int8
			justification pgtype.Text
			commission    pgtype.Float8
		)
		if err := rows.Scan(
			&item.ID, &item.Kind, &item.CatalogID, &item.CatalogName,
			&item.Quantity, &item.UnitPriceCents, &discount, &fee,
			&justification, &commission, &item.SubtotalCents,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking item", err)
		}
		if discount.Valid {
			item.DiscountCents = &discount.Int64
		}
		if fee.Valid {
			item.FeeCents = &fee.Int64
		}
		item.Justification = pgconv.StringPtrFromPgtype(justification)
		if item.CommissionPercent, err = pgconv.Float64PtrFromPgtype(commission); err != nil {
			return nil, infra.WrapRepoErr("invalid item commission", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking items", err)
	}
	return items, nil
}

const paymentViewsSQL = `
SELECT
    py.id, py.payment_method_id, pm.name, py.amount_cents, py.paid_at, py.note,
    pa.kind, pa.amount_cents, pa.instrument_id
FROM payments py
JOIN payment_methods pm ON pm.id = py.payment_method_id
LEFT JOIN promotion_applications pa ON pa.payment_id = py.id
WHERE py.booking_id = $1
ORDER BY py.paid_at, py.id`

func (s *BookingViewStore) paymentViews(ctx context.Context, bookingID uuid.UUID) ([]*queries.PaymentView, error) {
	rows, err := s.db.Query(ctx, paymentViewsSQL, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payments", err)
	}
	defer rows.Close()

	payments := []*queries.PaymentView{}
	for rows.Next() {
		var (
			view         queries.PaymentView
			note         pgtype.Text
			promoKind    pgtype.Text
			promoCents   pgtype.Int8
			instrumentID pgtype.UUID
		)
		if err := rows.Scan(
			&view.ID, &view.PaymentMethodID, &view.MethodName,
			&view.AmountCents, &view.PaidAt, &note,
			&promoKind, &promoCents, &instrumentID,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment", err)
		}
		view.Note = pgconv.StringPtrFromPgtype(note)
		view.PromotionKind = pgconv.StringPtrFromPgtype(promoKind)
		if promoCents.Valid {
			view.PromotionCents = &promoCents.Int64
		}
		view.InstrumentID = pgconv.UUIDPtrFromPgtype(instrumentID)
		payments = append(payments, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read payments", err)
	}
	return payments, nil
}

const settlementViewSQL = `
SELECT
    rv.amount_cents, rv.status,
    COALESCE(rc.amount_cents, 0), COALESCE(rc.status, 'pending')
FROM receivables rv
LEFT JOIN receipts rc ON rc.booking_id = rv.booking_id
WHERE rv.booking_id = $1`

func (s *BookingViewStore) settlementView(ctx context.Context, bookingID uuid.UUID) (*queries.SettlementView, error) {
	var view queries.SettlementView
	err := s.db.QueryRow(ctx, settlementViewSQL, bookingID).Scan(
		&view.TotalCents, &view.ReceivableStatus, &view.PaidCents, &view.ReceiptStatus,
	)
	if err != nil {
		// No receivable yet means nothing has been reconciled for this booking.
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to read settlement", err)
	}
	if outstanding := view.TotalCents - view.PaidCents; outstanding > 0 {
		view.OutstandingCents = outstanding
	}
	return &view, nil
}

const bookingListSQL = `
SELECT
    b.id, b.professional_id, p.name, b.client_id,
    b.start_time, b.expected_end, b.status,
    COALESCE((
        SELECT SUM((GREATEST(i.unit_price_cents - COALESCE(i.discount_cents, 0), 0) + COALESCE(i.fee_cents, 0)) * i.quantity)
        FROM booking_items i
        WHERE i.booking_id = b.id
    ), 0),
    b.created_at
FROM bookings b
JOIN professionals p ON p.id = b.professional_id
WHERE %s = $1
  AND ($2::timestamptz IS NULL OR (b.created_at, b.id) < ($2, $3))
ORDER BY b.created_at DESC, b.id DESC
LIMIT $4`

func (s *BookingViewStore) FindByLocationPaginated(ctx context.Context, locationID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	return s.listPaginated(ctx, "b.location_id", locationID, afterCreatedAt, afterID, limit)
}

func (s *BookingViewStore) FindByClientPaginated(ctx context.Context, clientID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	return s.listPaginated(ctx, "b.client_id", clientID, afterCreatedAt, afterID, limit)
}

func (s *BookingViewStore) listPaginated(ctx context.Context, column string, key uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	var after pgtype.Timestamptz
	if !afterCreatedAt.IsZero() {
		after = pgconv.TimeToPgtype(afterCreatedAt)
	}

	rows, err := s.db.Query(ctx, withListColumn(column), key, after, afterID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	items := []*queries.BookingListItem{}
	for rows.Next() {
		var (
			item     queries.BookingListItem
			clientID pgtype.UUID
		)
		if err := rows.Scan(
			&item.ID, &item.ProfessionalID, &item.ProfessionalName, &clientID,
			&item.StartTime, &item.ExpectedEnd, &item.Status,
			&item.TotalCents, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		item.ClientID = pgconv.UUIDPtrFromPgtype(clientID)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read bookings", err)
	}
	return items, nil
}

// withListColumn substitutes the keyset filter column. Callers pass fixed
// column names only, never user input.
func withListColumn(column string) string {
	return fmt.Sprintf(bookingListSQL, column)
}
