//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"barberbook/internal/domain/booking"
	"barberbook/internal/domain/policy"
	"barberbook/internal/domain/promotion"
	"barberbook/internal/pkg/clock"
	"barberbook/internal/usecase/commands"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lifecycleFixture struct {
	store          *fakeStore
	audit          *fakeAudit
	clk            *clock.MockClock
	uc             commands.LifecycleCommands
	locationID     uuid.UUID
	professionalID uuid.UUID
	clientID       uuid.UUID
	serviceID      uuid.UUID
	productID      uuid.UUID
}

func newLifecycleFixture() *lifecycleFixture {
	f := &lifecycleFixture{
		store:          newFakeStore(),
		audit:          &fakeAudit{},
		clk:            clock.NewMockClock(time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)),
		locationID:     uuid.New(),
		professionalID: uuid.New(),
		clientID:       uuid.New(),
		serviceID:      uuid.New(),
		productID:      uuid.New(),
	}
	f.store.locations[f.locationID] = shared.LocationSnapshot{
		ID:                    f.locationID,
		Name:                  "Downtown",
		Timezone:              "UTC",
		CashbackActive:        true,
		CashbackPercent:       5,
		CashbackMinTotalCents: 1000,
	}
	f.store.policies[f.locationID] = shared.CancellationPolicySnapshot{
		LocationID:                            f.locationID,
		MinAdvanceNoticeHours:                 24,
		LatePenaltyPercent:                    30,
		MaxUnnotifiedCancellationsBeforeBlock: 2,
	}
	defaults := commands.PolicyDefaults{
		Cancellation: policy.Cancellation{MinAdvanceNoticeHours: 24},
	}
	f.uc = commands.NewLifecycleUseCase(&fakeUow{s: f.store}, f.clk, f.audit, defaults)
	return f
}

func (f *lifecycleFixture) seedBooking(t *testing.T, status booking.Status, startIn time.Duration, withClient bool) uuid.UUID {
	t.Helper()
	start := f.clk.Now().Add(startIn)
	slot, err := booking.NewTimeSlot(start, start.Add(time.Hour))
	require.NoError(t, err)

	var clientID *uuid.UUID
	if withClient {
		clientID = &f.clientID
	}
	id := uuid.New()
	f.store.bookings[id] = booking.ReconstructBooking(
		id, f.professionalID, f.locationID, clientID, slot, status, f.clk.Now(), f.clk.Now(),
	)
	f.store.statuses[id] = status
	return id
}

// seedItems attaches one service line (5000) and a two-unit product line
// (2 x 1750) for a total of 8500 cents.
func (f *lifecycleFixture) seedItems(bookingID uuid.UUID) {
	f.store.items[bookingID] = []*booking.Item{
		booking.ReconstructItem(uuid.New(), booking.ItemKindService, f.serviceID, 1, booking.MustMoney(5000), booking.Pricing{}),
		booking.ReconstructItem(uuid.New(), booking.ItemKindProduct, f.productID, 2, booking.MustMoney(1750), booking.Pricing{}),
	}
}

func (f *lifecycleFixture) seedPayment(bookingID uuid.UUID, cents int64) {
	p := booking.ReconstructPayment(uuid.New(), bookingID, uuid.New(), booking.MustMoney(cents), f.clk.Now(), nil)
	f.store.payments[bookingID] = append(f.store.payments[bookingID], p)
}

func TestConfirmBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("pending booking confirms and is audited", func(t *testing.T) {
		f := newLifecycleFixture()
		id := f.seedBooking(t, booking.StatusPending, 72*time.Hour, true)

		require.NoError(t, f.uc.ConfirmBooking(ctx, id))

		assert.Equal(t, booking.StatusConfirmed, f.store.statuses[id])
		require.Len(t, f.audit.events, 1)
		assert.Equal(t, "booking.confirmed", f.audit.events[0].Action)
		assert.Equal(t, f.locationID, f.audit.events[0].LocationID)
	})

	t.Run("completed booking rejects further transitions", func(t *testing.T) {
		f := newLifecycleFixture()
		id := f.seedBooking(t, booking.StatusCompleted, -time.Hour, true)

		err := f.uc.ConfirmBooking(ctx, id)

		require.ErrorIs(t, err, commands.ErrIllegalTransition)
		assert.Equal(t, booking.StatusCompleted, f.store.statuses[id])
		assert.Empty(t, f.audit.events)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newLifecycleFixture()

		err := f.uc.ConfirmBooking(ctx, uuid.New())

		require.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

func TestCompleteBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("settled booking credits cashback once", func(t *testing.T) {
		f := newLifecycleFixture()
		id := f.seedBooking(t, booking.StatusInProgress, -time.Hour, true)
		f.seedItems(id)
		f.seedPayment(id, 8500)

		require.NoError(t, f.uc.CompleteBooking(ctx, id))

		assert.Equal(t, booking.StatusCompleted, f.store.statuses[id])
		assert.Equal(t, booking.ReceivableStatusPaid, f.store.receivables[id].status)
		assert.Equal(t, int64(8500), f.store.receivables[id].amount.Cents())
		assert.Equal(t, booking.ReceiptStatusReceived, f.store.receipts[id].status)
		assert.Equal(t, int64(425), f.store.balances[f.clientID])

		apps := f.store.apps[id]
		require.Len(t, apps, 1)
		assert.Equal(t, promotion.KindCashback, apps[0].Kind)
		assert.Nil(t, apps[0].PaymentID)
		assert.Equal(t, int64(425), apps[0].AmountCents)
	})

	t.Run("unsettled booking completes without cashback", func(t *testing.T) {
		f := newLifecycleFixture()
		id := f.seedBooking(t, booking.StatusInProgress, -time.Hour, true)
		f.seedItems(id)

		require.NoError(t, f.uc.CompleteBooking(ctx, id))

		assert.Equal(t, booking.ReceivableStatusPending, f.store.receivables[id].status)
		assert.Equal(t, booking.ReceiptStatusPending, f.store.receipts[id].status)
		assert.Zero(t, f.store.balances[f.clientID])
		assert.Empty(t, f.store.apps[id])
	})

	t.Run("already received receipt does not credit again", func(t *testing.T) {
		f := newLifecycleFixture()
		id := f.seedBooking(t, booking.StatusInProgress, -time.Hour, true)
		f.seedItems(id)
		f.seedPayment(id, 8500)
		f.store.receipts[id] = receiptRow{amount: booking.MustMoney(8500), status: booking.ReceiptStatusReceived}

		require.NoError(t, f.uc.CompleteBooking(ctx, id))

		assert.Zero(t, f.store.balances[f.clientID])
		assert.Empty(t, f.store.apps[id])
	})

	t.Run("negative cashback percent disables accrual", func(t *testing.T) {
		f := newLifecycleFixture()
		loc := f.store.locations[f.locationID]
		loc.CashbackPercent = -5
		f.store.locations[f.locationID] = loc
		id := f.seedBooking(t, booking.StatusInProgress, -time.Hour, true)
		f.seedItems(id)
		f.seedPayment(id, 8500)

		require.NotPanics(t, func() {
			require.NoError(t, f.uc.CompleteBooking(ctx, id))
		})

		assert.Equal(t, booking.StatusCompleted, f.store.statuses[id])
		assert.Zero(t, f.store.balances[f.clientID])
		assert.Empty(t, f.store.apps[id])
	})

	t.Run("walk-in without client settles without cashback", func(t *testing.T) {
		f := newLifecycleFixture()
		id := f.seedBooking(t, booking.StatusInProgress, -time.Hour, false)
		f.seedItems(id)
		f.seedPayment(id, 8500)

		require.NoError(t, f.uc.CompleteBooking(ctx, id))

		assert.Equal(t, booking.ReceiptStatusReceived, f.store.receipts[id].status)
		assert.Empty(t, f.store.apps[id])
	})
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("timely cancellation reverses stock and settlement", func(t *testing.T) {
		f := newLifecycleFixture()
		id := f.seedBooking(t, booking.StatusPending, 72*time.Hour, true)
		f.seedItems(id)
		f.store.receivables[id] = receivableRow{amount: booking.MustMoney(8500), status: booking.ReceivableStatusPending}
		f.store.receipts[id] = receiptRow{amount: booking.MustMoney(0), status: booking.ReceiptStatusPending}

		require.NoError(t, f.uc.CancelBooking(ctx, id, commands.CancelBookingRequest{}))

		assert.Equal(t, booking.StatusCanceled, f.store.statuses[id])
		assert.Zero(t, f.store.noShows[f.clientID])
		assert.Equal(t, booking.ReceivableStatusReversed, f.store.receivables[id].status)
		assert.Equal(t, booking.ReceiptStatusReversed, f.store.receipts[id].status)

		require.Len(t, f.store.adjustments, 1)
		assert.Equal(t, f.productID, f.store.adjustments[0].ProductID)
		assert.Equal(t, shared.StockIn, f.store.adjustments[0].Direction)
		assert.Equal(t, int32(2), f.store.adjustments[0].Quantity)
		assert.Equal(t, "booking_canceled", f.store.adjustments[0].Reason)

		require.Len(t, f.audit.events, 1)
		assert.Equal(t, "booking.canceled", f.audit.events[0].Action)
	})

	t.Run("late cancellation without override is rejected and counted", func(t *testing.T) {
		f := newLifecycleFixture()
		id := f.seedBooking(t, booking.StatusPending, 2*time.Hour, true)
		f.seedItems(id)

		err := f.uc.CancelBooking(ctx, id, commands.CancelBookingRequest{})

		require.ErrorIs(t, err, commands.ErrInsufficientNotice)
		assert.Equal(t, booking.StatusPending, f.store.statuses[id])
		assert.Equal(t, int64(1), f.store.noShows[f.clientID])
	})

	t.Run("override cancels late with a penalty receivable", func(t *testing.T) {
		f := newLifecycleFixture()
		id := f.seedBooking(t, booking.StatusConfirmed, 2*time.Hour, true)
		f.seedItems(id)
		f.store.receipts[id] = receiptRow{amount: booking.MustMoney(0), status: booking.ReceiptStatusPending}

		require.NoError(t, f.uc.CancelBooking(ctx, id, commands.CancelBookingRequest{Override: true}))

		assert.Equal(t, booking.StatusCanceled, f.store.statuses[id])
		assert.Equal(t, int64(1), f.store.noShows[f.clientID])
		assert.Equal(t, booking.ReceiptStatusReversed, f.store.receipts[id].status)
		// 30% of the 8500 item total.
		assert.Equal(t, int64(2550), f.store.receivables[id].amount.Cents())
		assert.Equal(t, booking.ReceivableStatusPending, f.store.receivables[id].status)
	})

	t.Run("blocked after repeated late cancellations", func(t *testing.T) {
		f := newLifecycleFixture()
		id := f.seedBooking(t, booking.StatusPending, 2*time.Hour, true)
		f.store.noShows[f.clientID] = 2

		err := f.uc.CancelBooking(ctx, id, commands.CancelBookingRequest{Override: true})

		require.ErrorIs(t, err, commands.ErrLateCancellationBlocked)
		assert.Equal(t, booking.StatusPending, f.store.statuses[id])
	})

	t.Run("falls back to default policy without a stored row", func(t *testing.T) {
		f := newLifecycleFixture()
		delete(f.store.policies, f.locationID)
		id := f.seedBooking(t, booking.StatusPending, 2*time.Hour, true)

		err := f.uc.CancelBooking(ctx, id, commands.CancelBookingRequest{})

		require.ErrorIs(t, err, commands.ErrInsufficientNotice)
	})

	t.Run("received receipt triggers best-effort cashback reversal", func(t *testing.T) {
		f := newLifecycleFixture()
		id := f.seedBooking(t, booking.StatusConfirmed, 72*time.Hour, true)
		f.seedItems(id)
		f.store.receipts[id] = receiptRow{amount: booking.MustMoney(8500), status: booking.ReceiptStatusReceived}
		f.store.apps[id] = []shared.PromotionApplicationSnapshot{{
			ID:          uuid.New(),
			BookingID:   id,
			ClientID:    &f.clientID,
			Kind:        promotion.KindCashback,
			AmountCents: 425,
			CreatedAt:   f.clk.Now(),
		}}
		// Balance cannot cover the accrual; the debit clamps and the
		// cancellation still goes through.
		f.store.balances[f.clientID] = 300

		require.NoError(t, f.uc.CancelBooking(ctx, id, commands.CancelBookingRequest{}))

		assert.Equal(t, booking.StatusCanceled, f.store.statuses[id])
		assert.Zero(t, f.store.balances[f.clientID])
	})

	t.Run("walk-in skips no-show accounting", func(t *testing.T) {
		f := newLifecycleFixture()
		id := f.seedBooking(t, booking.StatusPending, 2*time.Hour, false)
		f.seedItems(id)

		require.NoError(t, f.uc.CancelBooking(ctx, id, commands.CancelBookingRequest{Override: true}))

		assert.Equal(t, booking.StatusCanceled, f.store.statuses[id])
		assert.Empty(t, f.store.noShows)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newLifecycleFixture()

		err := f.uc.CancelBooking(ctx, uuid.New(), commands.CancelBookingRequest{})

		require.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}
