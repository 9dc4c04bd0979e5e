package repository

import (
	"context"
	"time"

	"barberbook/internal/infra"
	"barberbook/internal/infra/db"

	"github.com/google/uuid"
)

type NoShowRepository struct {
	db db.DBTX
}

func NewNoShowRepository(dbtx db.DBTX) *NoShowRepository {
	return &NoShowRepository{db: dbtx}
}

const recordNoShowSQL = `
INSERT INTO no_show_records (id, location_id, client_id, booking_id, created_at)
VALUES ($1, $2, $3, $4, $5)`

func (r *NoShowRepository) Record(ctx context.Context, locationID, clientID, bookingID uuid.UUID, at time.Time) error {
	if _, err := r.db.Exec(ctx, recordNoShowSQL, uuid.New(), locationID, clientID, bookingID, at); err != nil {
		return infra.WrapRepoErr("failed to record no-show", err)
	}
	return nil
}

func (r *NoShowRepository) CountByClient(ctx context.Context, locationID, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM no_show_records WHERE location_id = $1 AND client_id = $2`,
		locationID, clientID,
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count no-shows", err)
	}
	return count, nil
}
