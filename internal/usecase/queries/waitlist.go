package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type WaitListQueries interface {
	ActiveByLocation(ctx context.Context, locationID uuid.UUID, desiredDate *time.Time) ([]*WaitListEntryView, error)
}

type WaitListViewRepo interface {
	FindActiveByLocation(ctx context.Context, locationID uuid.UUID, desiredDate *time.Time) ([]*WaitListEntryView, error)
}

type waitListQueriesImpl struct {
	repo WaitListViewRepo
}

func NewWaitListQueries(repo WaitListViewRepo) WaitListQueries {
	return &waitListQueriesImpl{repo: repo}
}

func (q *waitListQueriesImpl) ActiveByLocation(ctx context.Context, locationID uuid.UUID, desiredDate *time.Time) ([]*WaitListEntryView, error) {
	return q.repo.FindActiveByLocation(ctx, locationID, desiredDate)
}
