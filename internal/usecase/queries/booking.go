package queries

import (
	"context"
	"time"

	"barberbook/internal/infra"
	"barberbook/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errs.New("booking not found")

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByLocationPaginated(ctx context.Context, locationID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int32) ([]*BookingListItem, error)
	FindByClientPaginated(ctx context.Context, clientID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByLocation(ctx context.Context, locationID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	afterCreatedAt, afterID, err := decodeListCursor(after)
	if err != nil {
		return nil, nil, err
	}
	limit = ValidateLimit(limit)

	rows, err := q.repo.FindByLocationPaginated(ctx, locationID, afterCreatedAt, afterID, int32(limit))
	if err != nil {
		return nil, nil, err
	}
	return rows, nextCursor(rows, limit), nil
}

func (q *bookingQueriesImpl) ListByClient(ctx context.Context, clientID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	afterCreatedAt, afterID, err := decodeListCursor(after)
	if err != nil {
		return nil, nil, err
	}
	limit = ValidateLimit(limit)

	rows, err := q.repo.FindByClientPaginated(ctx, clientID, afterCreatedAt, afterID, int32(limit))
	if err != nil {
		return nil, nil, err
	}
	return rows, nextCursor(rows, limit), nil
}

func decodeListCursor(after *Cursor) (time.Time, uuid.UUID, error) {
	if after == nil || after.After == "" {
		return time.Time{}, uuid.Nil, nil
	}
	return DecodeAfterCursor(after.After)
}

func nextCursor(rows []*BookingListItem, limit int) *Cursor {
	if len(rows) < limit {
		return nil
	}
	last := rows[len(rows)-1]
	return &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
}
