package repository

import (
	"context"

	"barberbook/internal/infra"
	"barberbook/internal/infra/db"
	"barberbook/internal/pkg/pgconv"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type WaitListRepository struct {
	db db.DBTX
}

func NewWaitListRepository(dbtx db.DBTX) *WaitListRepository {
	return &WaitListRepository{db: dbtx}
}

const addWaitListEntrySQL = `
INSERT INTO wait_list_entries (id, location_id, professional_id, client_id, phone, desired_date, note, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, true)
RETURNING id`

func (r *WaitListRepository) Add(ctx context.Context, e shared.WaitListEntry) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, addWaitListEntrySQL,
		uuid.New(), e.LocationID, e.ProfessionalID,
		pgconv.UUIDPtrToPgtype(e.ClientID),
		pgconv.StringPtrToPgtype(e.Phone),
		e.DesiredDate,
		pgconv.StringPtrToPgtype(e.Note),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to add wait list entry", err)
	}
	return id, nil
}

func (r *WaitListRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE wait_list_entries SET active = false WHERE id = $1 AND active`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to deactivate wait list entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("wait list entry not found", nil, infra.KindNotFound)
	}
	return nil
}
