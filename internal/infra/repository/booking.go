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

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

const createBookingSQL = `
INSERT INTO bookings (id, location_id, professional_id, client_id, start_time, expected_end, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, createBookingSQL,
		b.ID(),
		b.LocationID(),
		b.ProfessionalID(),
		pgconv.UUIDPtrToPgtype(b.ClientID()),
		b.Slot().Start(),
		b.Slot().ExpectedEnd(),
		string(b.Status()),
		b.CreatedAt(),
		b.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}
	return id, nil
}

const findBookingForUpdateSQL = `
SELECT id, location_id, professional_id, client_id, start_time, expected_end, status, created_at, updated_at
FROM bookings
WHERE id = $1
FOR UPDATE`

func (r *BookingRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var (
		bookingID      uuid.UUID
		locationID     uuid.UUID
		professionalID uuid.UUID
		clientID       pgtype.UUID
		startTime      time.Time
		expectedEnd    time.Time
		status         string
		createdAt      time.Time
		updatedAt      time.Time
	)
	err := r.db.QueryRow(ctx, findBookingForUpdateSQL, id).Scan(
		&bookingID, &locationID, &professionalID, &clientID,
		&startTime, &expectedEnd, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock booking", err)
	}

	slot, err := booking.NewTimeSlot(startTime, expectedEnd)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid persisted time slot", err)
	}
	return booking.ReconstructBooking(
		bookingID, professionalID, locationID,
		pgconv.UUIDPtrFromPgtype(clientID),
		slot, booking.Status(status), createdAt, updatedAt,
	), nil
}

const occupiedSlotsForUpdateSQL = `
SELECT start_time, expected_end
FROM bookings
WHERE professional_id = $1
  AND status <> 'canceled'
  AND start_time < $3
  AND expected_end > $2
FOR UPDATE`

func (r *BookingRepository) OccupiedSlotsForUpdate(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]booking.TimeSlot, error) {
	rows, err := r.db.Query(ctx, occupiedSlotsForUpdateSQL, professionalID, start, end)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock occupied slots", err)
	}
	defer rows.Close()

	var slots []booking.TimeSlot
	for rows.Next() {
		var s, e time.Time
		if err := rows.Scan(&s, &e); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupied slot", err)
		}
		slot, err := booking.NewTimeSlot(s, e)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid persisted time slot", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read occupied slots", err)
	}
	return slots, nil
}

const updateBookingStatusSQL = `
UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status, now time.Time) error {
	tag, err := r.db.Exec(ctx, updateBookingStatusSQL, id, string(status), now)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}
