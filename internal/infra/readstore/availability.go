package readstore

import (
	"context"
	"time"

	"barberbook/internal/infra"
	"barberbook/internal/infra/db"
	"barberbook/internal/pkg/pgconv"
	"barberbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type AvailabilityViewStore struct {
	db db.DBTX
}

func NewAvailabilityViewStore(dbtx db.DBTX) *AvailabilityViewStore {
	return &AvailabilityViewStore{db: dbtx}
}

func (s *AvailabilityViewStore) ProfessionalByID(ctx context.Context, id uuid.UUID) (*queries.ProfessionalView, error) {
	var view queries.ProfessionalView
	err := s.db.QueryRow(ctx,
		`SELECT id, location_id, name, active FROM professionals WHERE id = $1`, id,
	).Scan(&view.ID, &view.LocationID, &view.Name, &view.Active)
	if err != nil {
		return nil, notFoundOr(err, "professional not found", "failed to read professional")
	}
	return &view, nil
}

func (s *AvailabilityViewStore) ServiceByID(ctx context.Context, id uuid.UUID) (*queries.ServiceView, error) {
	var view queries.ServiceView
	err := s.db.QueryRow(ctx,
		`SELECT id, location_id, name, price_cents, duration_min, active FROM services WHERE id = $1`, id,
	).Scan(&view.ID, &view.LocationID, &view.Name, &view.PriceCents, &view.DurationMin, &view.Active)
	if err != nil {
		return nil, notFoundOr(err, "service not found", "failed to read service")
	}
	return &view, nil
}

func (s *AvailabilityViewStore) LocationByID(ctx context.Context, id uuid.UUID) (*queries.LocationView, error) {
	var view queries.LocationView
	err := s.db.QueryRow(ctx,
		`SELECT id, name, timezone FROM locations WHERE id = $1`, id,
	).Scan(&view.ID, &view.Name, &view.Timezone)
	if err != nil {
		return nil, notFoundOr(err, "location not found", "failed to read location")
	}
	return &view, nil
}

const workingWindowsSQL = `
SELECT id, location_id, professional_id, days_of_week, opens_at, closes_at, active
FROM working_windows
WHERE location_id = $1
  AND (professional_id IS NULL OR professional_id = $2)
  AND active
ORDER BY opens_at`

func (s *AvailabilityViewStore) WorkingWindows(ctx context.Context, locationID, professionalID uuid.UUID) ([]*queries.WorkingWindowView, error) {
	rows, err := s.db.Query(ctx, workingWindowsSQL, locationID, professionalID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list working windows", err)
	}
	defer rows.Close()

	var windows []*queries.WorkingWindowView
	for rows.Next() {
		var (
			view   queries.WorkingWindowView
			profID pgtype.UUID
		)
		if err := rows.Scan(
			&view.ID, &view.LocationID, &profID,
			&view.DaysOfWeek, &view.OpensAt, &view.ClosesAt, &view.Active,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan working window", err)
		}
		view.ProfessionalID = pgconv.UUIDPtrFromPgtype(profID)
		windows = append(windows, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read working windows", err)
	}
	return windows, nil
}

func (s *AvailabilityViewStore) IsHoliday(ctx context.Context, locationID uuid.UUID, date time.Time) (bool, error) {
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

const blocksOverlappingSQL = `
SELECT id, location_id, professional_id, start_time, end_time, reason
FROM blocks
WHERE location_id = $1
  AND (professional_id IS NULL OR professional_id = $2)
  AND start_time < $4
  AND end_time > $3
ORDER BY start_time`

func (s *AvailabilityViewStore) BlocksOverlapping(ctx context.Context, locationID, professionalID uuid.UUID, from, to time.Time) ([]*queries.BlockView, error) {
	rows, err := s.db.Query(ctx, blocksOverlappingSQL, locationID, professionalID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list blocks", err)
	}
	defer rows.Close()

	var blocks []*queries.BlockView
	for rows.Next() {
		var (
			view   queries.BlockView
			profID pgtype.UUID
			reason pgtype.Text
		)
		if err := rows.Scan(&view.ID, &view.LocationID, &profID, &view.StartTime, &view.EndTime, &reason); err != nil {
			return nil, infra.WrapRepoErr("failed to scan block", err)
		}
		view.ProfessionalID = pgconv.UUIDPtrFromPgtype(profID)
		view.Reason = pgconv.StringPtrFromPgtype(reason)
		blocks = append(blocks, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read blocks", err)
	}
	return blocks, nil
}

const occupiedSlotsSQL = `
SELECT start_time, expected_end
FROM bookings
WHERE professional_id = $1
  AND status <> 'canceled'
  AND start_time < $3
  AND expected_end > $2
ORDER BY start_time`

func (s *AvailabilityViewStore) OccupiedSlots(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*queries.SlotView, error) {
	rows, err := s.db.Query(ctx, occupiedSlotsSQL, professionalID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list occupied slots", err)
	}
	defer rows.Close()

	var slots []*queries.SlotView
	for rows.Next() {
		var view queries.SlotView
		if err := rows.Scan(&view.Start, &view.End); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupied slot", err)
		}
		slots = append(slots, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read occupied slots", err)
	}
	return slots, nil
}
