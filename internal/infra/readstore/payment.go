package readstore

import (
	"context"

	"barberbook/internal/infra/db"
	"barberbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentViewStore struct {
	bookings *BookingViewStore
}

func NewPaymentViewStore(dbtx db.DBTX) *PaymentViewStore {
	return &PaymentViewStore{bookings: NewBookingViewStore(dbtx)}
}

func (s *PaymentViewStore) FindByBooking(ctx context.Context, bookingID uuid.UUID) ([]*queries.PaymentView, error) {
	return s.bookings.paymentViews(ctx, bookingID)
}
