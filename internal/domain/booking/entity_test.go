//go:build unit

package booking_test

import (
	"testing"
	"time"

	"barberbook/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBooking(t *testing.T) *booking.Booking {
	t.Helper()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	slot, err := booking.NewTimeSlot(start, start.Add(time.Hour))
	require.NoError(t, err)

	b, err := booking.NewBooking(uuid.New(), uuid.New(), nil, slot, start.Add(-48*time.Hour))
	require.NoError(t, err)
	return b
}

func TestBooking(t *testing.T) {
	t.Run("new bookings start pending", func(t *testing.T) {
		b := newTestBooking(t)

		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.Equal(t, booking.StatusPending, b.Status())
		assert.True(t, b.CanMutate())
		assert.Equal(t, b.CreatedAt(), b.UpdatedAt())
	})

	t.Run("requires a professional", func(t *testing.T) {
		start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		slot, err := booking.NewTimeSlot(start, start.Add(time.Hour))
		require.NoError(t, err)

		_, err = booking.NewBooking(uuid.Nil, uuid.New(), nil, slot, start)
		require.ErrorIs(t, err, booking.ErrMissingProfessional)
	})

	t.Run("transition walks the lifecycle", func(t *testing.T) {
		b := newTestBooking(t)
		now := time.Now()

		require.NoError(t, b.Transition(booking.StatusConfirmed, now))
		require.NoError(t, b.Transition(booking.StatusInProgress, now))
		require.NoError(t, b.Transition(booking.StatusCompleted, now))

		assert.Equal(t, booking.StatusCompleted, b.Status())
		assert.False(t, b.CanMutate())
		assert.Equal(t, now, b.UpdatedAt())
	})

	t.Run("rejects skipping a stage", func(t *testing.T) {
		b := newTestBooking(t)

		err := b.Transition(booking.StatusCompleted, time.Now())
		require.ErrorIs(t, err, booking.ErrIllegalTransition)
		assert.Equal(t, booking.StatusPending, b.Status())
	})

	t.Run("rejects leaving a terminal status", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Transition(booking.StatusCanceled, time.Now()))

		err := b.Transition(booking.StatusConfirmed, time.Now())
		require.ErrorIs(t, err, booking.ErrIllegalTransition)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		b := newTestBooking(t)

		err := b.Transition(booking.Status("archived"), time.Now())
		require.ErrorIs(t, err, booking.ErrIllegalTransition)
	})

	t.Run("starts in future", func(t *testing.T) {
		b := newTestBooking(t)

		assert.True(t, b.StartsInFuture(b.Slot().Start().Add(-time.Hour)))
		assert.False(t, b.StartsInFuture(b.Slot().Start()))
		assert.False(t, b.StartsInFuture(b.Slot().Start().Add(time.Minute)))
	})
}

func TestPayment(t *testing.T) {
	t.Run("amount must be positive", func(t *testing.T) {
		_, err := booking.NewPayment(uuid.New(), uuid.New(), booking.MustMoney(0), time.Now(), nil)
		require.ErrorIs(t, err, booking.ErrInvalidPayment)
	})

	t.Run("payments total sums amounts", func(t *testing.T) {
		bookingID := uuid.New()
		methodID := uuid.New()
		now := time.Now()

		first, err := booking.NewPayment(bookingID, methodID, booking.MustMoney(3000), now, nil)
		require.NoError(t, err)
		second, err := booking.NewPayment(bookingID, methodID, booking.MustMoney(1250), now, nil)
		require.NoError(t, err)

		total := booking.PaymentsTotal([]*booking.Payment{first, second})
		assert.Equal(t, int64(4250), total.Cents())

		assert.True(t, booking.PaymentsTotal(nil).IsZero())
	})
}
