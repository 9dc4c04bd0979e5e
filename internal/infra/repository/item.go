package repository

import (
	"context"

	"barberbook/internal/domain/booking"
	"barberbook/internal/infra"
	"barberbook/internal/infra/db"
	"barberbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ItemRepository struct {
	db db.DBTX
}

func NewItemRepository(dbtx db.DBTX) *ItemRepository {
	return &ItemRepository{db: dbtx}
}

const createItemSQL = `
INSERT INTO booking_items (id, booking_id, kind, service_id, product_id, quantity, unit_price_cents, discount_cents, fee_cents, justification, commission_percent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id`

func (r *ItemRepository) Create(ctx context.Context, bookingID uuid.UUID, item *booking.Item) (uuid.UUID, error) {
	serviceID, productID := catalogRefs(item)

	var id uuid.UUID
	err := r.db.QueryRow(ctx, createItemSQL,
		item.ID(), bookingID, string(item.Kind()),
		serviceID, productID,
		item.Quantity(), item.UnitPrice().Cents(),
		moneyPtrCents(item.Pricing().Discount),
		moneyPtrCents(item.Pricing().Fee),
		pgconv.StringPtrToPgtype(item.Pricing().Justification),
		item.Pricing().CommissionPercent,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking item", err)
	}
	return id, nil
}

const updateItemSQL = `
UPDATE booking_items
SET kind = $2, service_id = $3, product_id = $4, quantity = $5, unit_price_cents = $6,
    discount_cents = $7, fee_cents = $8, justification = $9, commission_percent = $10
WHERE id = $1`

func (r *ItemRepository) Update(ctx context.Context, item *booking.Item) error {
	serviceID, productID := catalogRefs(item)

	tag, err := r.db.Exec(ctx, updateItemSQL,
		item.ID(), string(item.Kind()),
		serviceID, productID,
		item.Quantity(), item.UnitPrice().Cents(),
		moneyPtrCents(item.Pricing().Discount),
		moneyPtrCents(item.Pricing().Fee),
		pgconv.StringPtrToPgtype(item.Pricing().Justification),
		item.Pricing().CommissionPercent,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking item not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM booking_items WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking item not found", nil, infra.KindNotFound)
	}
	return nil
}

const listItemsByBookingSQL = `
SELECT id, kind, service_id, product_id, quantity, unit_price_cents, discount_cents, fee_cents, justification, commission_percent
FROM booking_items
WHERE booking_id = $1
ORDER BY created_at, id`

func (r *ItemRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*booking.Item, error) {
	rows, err := r.db.Query(ctx, listItemsByBookingSQL, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking items", err)
	}
	defer rows.Close()

	var items []*booking.Item
	for rows.Next() {
		var (
			id                uuid.UUID
			kind              string
			serviceID         pgtype.UUID
			productID         pgtype.UUID
			quantity          int32
			unitPriceCents    int64
			discountCents     *int64
			feeCents          *int64
			justification     pgtype.Text
			commissionPercent *float64
		)
		if err := rows.Scan(&id, &kind, &serviceID, &productID, &quantity, &unitPriceCents,
			&discountCents, &feeCents, &justification, &commissionPercent); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking item", err)
		}

		itemKind := booking.ItemKind(kind)
		catalogID := pgconv.UUIDPtrFromPgtype(serviceID)
		if itemKind == booking.ItemKindProduct {
			catalogID = pgconv.UUIDPtrFromPgtype(productID)
		}
		if catalogID == nil {
			return nil, infra.WrapRepoErr("booking item missing catalog reference", nil)
		}

		pricing := booking.Pricing{
			Justification:     pgconv.StringPtrFromPgtype(justification),
			CommissionPercent: commissionPercent,
		}
		if discountCents != nil {
			m := booking.MustMoney(*discountCents)
			pricing.Discount = &m
		}
		if feeCents != nil {
			m := booking.MustMoney(*feeCents)
			pricing.Fee = &m
		}

		items = append(items, booking.ReconstructItem(id, itemKind, *catalogID, quantity, booking.MustMoney(unitPriceCents), pricing))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking items", err)
	}
	return items, nil
}

func catalogRefs(item *booking.Item) (pgtype.UUID, pgtype.UUID) {
	if item.Kind() == booking.ItemKindService {
		return pgconv.UUIDToPgtype(item.ServiceID()), pgtype.UUID{}
	}
	return pgtype.UUID{}, pgconv.UUIDToPgtype(item.ProductID())
}

func moneyPtrCents(m *booking.Money) *int64 {
	if m == nil {
		return nil
	}
	c := m.Cents()
	return &c
}
