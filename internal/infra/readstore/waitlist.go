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

type WaitListViewStore struct {
	db db.DBTX
}

func NewWaitListViewStore(dbtx db.DBTX) *WaitListViewStore {
	return &WaitListViewStore{db: dbtx}
}

const activeWaitListSQL = `
SELECT id, location_id, professional_id, client_id, phone, desired_date, note, active, created_at
FROM wait_list_entries
WHERE location_id = $1
  AND active
  AND ($2::date IS NULL OR desired_date = $2::date)
ORDER BY created_at, id`

func (s *WaitListViewStore) FindActiveByLocation(ctx context.Context, locationID uuid.UUID, desiredDate *time.Time) ([]*queries.WaitListEntryView, error) {
	var date pgtype.Date
	if desiredDate != nil {
		date = pgtype.Date{Time: *desiredDate, Valid: true}
	}

	rows, err := s.db.Query(ctx, activeWaitListSQL, locationID, date)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list wait list entries", err)
	}
	defer rows.Close()

	entries := []*queries.WaitListEntryView{}
	for rows.Next() {
		var (
			view     queries.WaitListEntryView
			clientID pgtype.UUID
			phone    pgtype.Text
			note     pgtype.Text
		)
		if err := rows.Scan(
			&view.ID, &view.LocationID, &view.ProfessionalID, &clientID,
			&phone, &view.DesiredDate, &note, &view.Active, &view.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan wait list entry", err)
		}
		view.ClientID = pgconv.UUIDPtrFromPgtype(clientID)
		view.Phone = pgconv.StringPtrFromPgtype(phone)
		view.Note = pgconv.StringPtrFromPgtype(note)
		entries = append(entries, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read wait list entries", err)
	}
	return entries, nil
}
