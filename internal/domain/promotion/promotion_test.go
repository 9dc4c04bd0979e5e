//go:build unit

package promotion_test

import (
	"testing"
	"time"

	"barberbook/internal/domain/booking"
	"barberbook/internal/domain/promotion"
	"barberbook/internal/pkg/ptr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now        = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	locationID = uuid.New()
)

func TestInstrumentKind(t *testing.T) {
	giftCardID := uuid.New()

	cases := []struct {
		name       string
		instrument promotion.Instrument
		kind       promotion.Kind
		present    bool
		errIs      error
	}{
		{name: "no instrument", instrument: promotion.Instrument{}},
		{
			name:       "coupon",
			instrument: promotion.Instrument{CouponCode: ptr.To("WELCOME10")},
			kind:       promotion.KindCoupon,
			present:    true,
		},
		{
			name:       "gift card",
			instrument: promotion.Instrument{GiftCardID: &giftCardID},
			kind:       promotion.KindGiftCard,
			present:    true,
		},
		{
			name:       "cashback",
			instrument: promotion.Instrument{CashbackCents: ptr.To(int64(500))},
			kind:       promotion.KindCashback,
			present:    true,
		},
		{
			name:       "zero cashback counts as absent",
			instrument: promotion.Instrument{CashbackCents: ptr.To(int64(0))},
		},
		{
			name: "coupon and gift card together",
			instrument: promotion.Instrument{
				CouponCode: ptr.To("WELCOME10"),
				GiftCardID: &giftCardID,
			},
			errIs: promotion.ErrMultipleInstruments,
		},
		{
			name: "coupon and cashback together",
			instrument: promotion.Instrument{
				CouponCode:    ptr.To("WELCOME10"),
				CashbackCents: ptr.To(int64(500)),
			},
			errIs: promotion.ErrMultipleInstruments,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			kind, present, err := c.instrument.Kind()
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.present, present)
			if c.present {
				assert.Equal(t, c.kind, kind)
			}
		})
	}
}

func newCoupon(mutate func(*couponParams)) *promotion.Coupon {
	p := couponParams{
		locationID: locationID,
		percentOff: 10,
		fixedOff:   booking.MustMoney(0),
		active:     true,
	}
	if mutate != nil {
		mutate(&p)
	}
	return promotion.NewCoupon(
		uuid.New(), p.locationID, "WELCOME10",
		p.percentOff, p.fixedOff, p.active,
		p.expiresAt, p.usageLimit, p.perClientLimit,
	)
}

type couponParams struct {
	locationID     uuid.UUID
	percentOff     float64
	fixedOff       booking.Money
	active         bool
	expiresAt      *time.Time
	usageLimit     *int32
	perClientLimit *int32
}

func TestCouponValidateUsage(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*couponParams)
		errIs  error
	}{
		{name: "valid coupon"},
		{
			name:   "wrong location",
			mutate: func(p *couponParams) { p.locationID = uuid.New() },
			errIs:  promotion.ErrCouponWrongLocation,
		},
		{
			name:   "inactive",
			mutate: func(p *couponParams) { p.active = false },
			errIs:  promotion.ErrCouponInactive,
		},
		{
			name:   "expired",
			mutate: func(p *couponParams) { p.expiresAt = ptr.To(now.Add(-time.Hour)) },
			errIs:  promotion.ErrCouponExpired,
		},
		{
			name:   "expiry still ahead",
			mutate: func(p *couponParams) { p.expiresAt = ptr.To(now.Add(time.Hour)) },
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := newCoupon(c.mutate).ValidateUsage(now, locationID)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCouponValidateCounts(t *testing.T) {
	t.Run("unlimited coupon never trips", func(t *testing.T) {
		require.NoError(t, newCoupon(nil).ValidateCounts(1_000_000, 1_000_000))
	})

	t.Run("global limit", func(t *testing.T) {
		c := newCoupon(func(p *couponParams) { p.usageLimit = ptr.To(int32(5)) })

		require.NoError(t, c.ValidateCounts(4, 0))
		require.ErrorIs(t, c.ValidateCounts(5, 0), promotion.ErrCouponUsageLimit)
	})

	t.Run("per-client limit", func(t *testing.T) {
		c := newCoupon(func(p *couponParams) { p.perClientLimit = ptr.To(int32(1)) })

		require.NoError(t, c.ValidateCounts(0, 0))
		require.ErrorIs(t, c.ValidateCounts(0, 1), promotion.ErrCouponClientLimit)
	})
}

func TestCouponDiscountFor(t *testing.T) {
	cases := []struct {
		name       string
		percentOff float64
		fixedOff   int64
		total      int64
		want       int64
	}{
		{name: "percent only", percentOff: 10, total: 8000, want: 800},
		{name: "fixed only", fixedOff: 500, total: 8000, want: 500},
		{name: "percent plus fixed", percentOff: 10, fixedOff: 500, total: 8000, want: 1300},
		{name: "capped at total", percentOff: 50, fixedOff: 5000, total: 8000, want: 8000},
		{name: "zero total", percentOff: 10, fixedOff: 500, total: 0, want: 0},
		{name: "fractional cents truncate", percentOff: 7.5, total: 999, want: 74},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			coupon := newCoupon(func(p *couponParams) {
				p.percentOff = c.percentOff
				p.fixedOff = booking.MustMoney(c.fixedOff)
			})

			got := coupon.DiscountFor(booking.MustMoney(c.total))
			assert.Equal(t, c.want, got.Cents())
		})
	}
}

func TestGiftCard(t *testing.T) {
	t.Run("validate usage", func(t *testing.T) {
		cases := []struct {
			name       string
			locationID uuid.UUID
			status     promotion.GiftCardStatus
			expiresAt  *time.Time
			errIs      error
		}{
			{name: "active card", locationID: locationID, status: promotion.GiftCardActive},
			{
				name:       "wrong location",
				locationID: uuid.New(),
				status:     promotion.GiftCardActive,
				errIs:      promotion.ErrGiftCardWrongLocation,
			},
			{
				name:       "used card",
				locationID: locationID,
				status:     promotion.GiftCardUsed,
				errIs:      promotion.ErrGiftCardNotActive,
			},
			{
				name:       "expired card",
				locationID: locationID,
				status:     promotion.GiftCardActive,
				expiresAt:  ptr.To(now.Add(-time.Minute)),
				errIs:      promotion.ErrGiftCardExpired,
			},
			{
				name:       "card marked expired",
				locationID: locationID,
				status:     promotion.GiftCardExpired,
				errIs:      promotion.ErrGiftCardExpired,
			},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				card := promotion.NewGiftCard(uuid.New(), c.locationID, booking.MustMoney(5000), c.status, c.expiresAt)
				err := card.ValidateUsage(now, locationID)
				if c.errIs != nil {
					require.ErrorIs(t, err, c.errIs)
				} else {
					require.NoError(t, err)
				}
			})
		}
	})

	t.Run("amount applicable caps at balance", func(t *testing.T) {
		card := promotion.NewGiftCard(uuid.New(), locationID, booking.MustMoney(3000), promotion.GiftCardActive, nil)

		applied, err := card.AmountApplicable(booking.MustMoney(5000))
		require.NoError(t, err)
		assert.Equal(t, int64(3000), applied.Cents())

		applied, err = card.AmountApplicable(booking.MustMoney(1000))
		require.NoError(t, err)
		assert.Equal(t, int64(1000), applied.Cents())
	})

	t.Run("empty card cannot offset anything", func(t *testing.T) {
		card := promotion.NewGiftCard(uuid.New(), locationID, booking.MustMoney(0), promotion.GiftCardActive, nil)

		_, err := card.AmountApplicable(booking.MustMoney(1000))
		require.ErrorIs(t, err, promotion.ErrGiftCardExhausted)
	})

	t.Run("debit to zero flips the card to used", func(t *testing.T) {
		card := promotion.NewGiftCard(uuid.New(), locationID, booking.MustMoney(3000), promotion.GiftCardActive, nil)

		card.Debit(booking.MustMoney(1000))
		assert.Equal(t, int64(2000), card.Balance().Cents())
		assert.Equal(t, promotion.GiftCardActive, card.Status())

		card.Debit(booking.MustMoney(2000))
		assert.True(t, card.Balance().IsZero())
		assert.Equal(t, promotion.GiftCardUsed, card.Status())
	})

	t.Run("credit reactivates a used card", func(t *testing.T) {
		card := promotion.NewGiftCard(uuid.New(), locationID, booking.MustMoney(1000), promotion.GiftCardActive, nil)
		card.Debit(booking.MustMoney(1000))
		require.Equal(t, promotion.GiftCardUsed, card.Status())

		card.Credit(booking.MustMoney(1000))
		assert.Equal(t, int64(1000), card.Balance().Cents())
		assert.Equal(t, promotion.GiftCardActive, card.Status())
	})
}

func TestPolicyWindow(t *testing.T) {
	policy := promotion.Policy{UsageWindowDays: 30, UsageLimitInWindow: 3}

	t.Run("window start rolls back by the configured days", func(t *testing.T) {
		assert.Equal(t, now.AddDate(0, 0, -30), policy.WindowStart(now))
	})

	t.Run("count below limit passes", func(t *testing.T) {
		require.NoError(t, policy.ValidateWindowCount(2))
	})

	t.Run("count at limit trips", func(t *testing.T) {
		require.ErrorIs(t, policy.ValidateWindowCount(3), promotion.ErrUsageWindowExceeded)
	})

	t.Run("non-positive limit disables the gate", func(t *testing.T) {
		open := promotion.Policy{UsageWindowDays: 30, UsageLimitInWindow: 0}
		require.NoError(t, open.ValidateWindowCount(1_000_000))
	})
}

func TestPolicyStacking(t *testing.T) {
	strict := promotion.Policy{}
	lenient := promotion.Policy{AllowCouponWithCashback: true, AllowGiftCardWithCashback: true}

	cases := []struct {
		name     string
		policy   promotion.Policy
		kind     promotion.Kind
		existing []promotion.Kind
		errIs    error
	}{
		{name: "first promotion on a booking", policy: strict, kind: promotion.KindCoupon},
		{
			name:     "coupon after cashback forbidden",
			policy:   strict,
			kind:     promotion.KindCoupon,
			existing: []promotion.Kind{promotion.KindCashback},
			errIs:    promotion.ErrStackingForbidden,
		},
		{
			name:     "cashback after coupon forbidden",
			policy:   strict,
			kind:     promotion.KindCashback,
			existing: []promotion.Kind{promotion.KindCoupon},
			errIs:    promotion.ErrStackingForbidden,
		},
		{
			name:     "gift card after cashback forbidden",
			policy:   strict,
			kind:     promotion.KindGiftCard,
			existing: []promotion.Kind{promotion.KindCashback},
			errIs:    promotion.ErrStackingForbidden,
		},
		{
			name:     "coupon after gift card is free of cashback",
			policy:   strict,
			kind:     promotion.KindCoupon,
			existing: []promotion.Kind{promotion.KindGiftCard},
		},
		{
			name:     "lenient policy allows mixing",
			policy:   lenient,
			kind:     promotion.KindCashback,
			existing: []promotion.Kind{promotion.KindCoupon, promotion.KindGiftCard},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.policy.ValidateStacking(c.kind, c.existing)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewApplication(t *testing.T) {
	bookingID := uuid.New()
	clientID := uuid.New()
	paymentID := uuid.New()

	t.Run("cashback requires an identified client", func(t *testing.T) {
		_, err := promotion.NewApplication(bookingID, promotion.KindCashback, nil, &paymentID, nil, booking.MustMoney(500), now)
		require.ErrorIs(t, err, promotion.ErrClientRequired)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := promotion.NewApplication(bookingID, promotion.Kind("raffle"), nil, &paymentID, nil, booking.MustMoney(500), now)
		require.Error(t, err)
	})

	t.Run("records the applied amount", func(t *testing.T) {
		app, err := promotion.NewApplication(bookingID, promotion.KindCashback, nil, &paymentID, &clientID, booking.MustMoney(500), now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, app.ID())
		assert.Equal(t, bookingID, app.BookingID())
		assert.Equal(t, promotion.KindCashback, app.Kind())
		assert.Equal(t, int64(500), app.AmountApplied().Cents())
		assert.Equal(t, &clientID, app.ClientID())
	})
}
