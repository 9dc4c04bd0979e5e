package queries

import (
	"context"

	"github.com/google/uuid"
)

type PaymentQueries interface {
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*PaymentView, error)
}

type PaymentViewRepo interface {
	FindByBooking(ctx context.Context, bookingID uuid.UUID) ([]*PaymentView, error)
}

type paymentQueriesImpl struct {
	repo PaymentViewRepo
}

func NewPaymentQueries(repo PaymentViewRepo) PaymentQueries {
	return &paymentQueriesImpl{repo: repo}
}

func (q *paymentQueriesImpl) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*PaymentView, error) {
	return q.repo.FindByBooking(ctx, bookingID)
}
