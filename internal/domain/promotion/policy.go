package promotion

import (
	"errors"
	"time"
)

var (
	ErrUsageWindowExceeded = errors.New("promotion usage limit reached for the current window")
	ErrStackingForbidden   = errors.New("promotion cannot be combined with cashback on this booking")
)

// Policy is a location's promotion-stacking and throttling configuration.
// It is loaded per location and injected; domain code never reads it from
// the environment.
type Policy struct {
	AllowCouponWithCashback   bool
	AllowGiftCardWithCashback bool
	UsageWindowDays           int32
	UsageLimitInWindow        int32
}

// WindowStart returns the lower bound of the rolling usage window.
func (p Policy) WindowStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -int(p.UsageWindowDays))
}

// ValidateWindowCount gates an application of the given kind against the
// count of same-kind applications recorded for the location within the
// window. A non-positive limit disables the gate.
func (p Policy) ValidateWindowCount(countInWindow int64) error {
	if p.UsageLimitInWindow <= 0 {
		return nil
	}
	if countInWindow >= int64(p.UsageLimitInWindow) {
		return ErrUsageWindowExceeded
	}
	return nil
}

// ValidateStacking rejects mixing a coupon or gift card with cashback on the
// same booking when the policy flags forbid it. existingKinds are the kinds
// of applications already recorded for the booking.
func (p Policy) ValidateStacking(kind Kind, existingKinds []Kind) error {
	hasCashback := kind == KindCashback
	hasCoupon := kind == KindCoupon
	hasGiftCard := kind == KindGiftCard
	for _, k := range existingKinds {
		switch k {
		case KindCashback:
			hasCashback = true
		case KindCoupon:
			hasCoupon = true
		case KindGiftCard:
			hasGiftCard = true
		}
	}

	if hasCashback && hasCoupon && !p.AllowCouponWithCashback {
		return ErrStackingForbidden
	}
	if hasCashback && hasGiftCard && !p.AllowGiftCardWithCashback {
		return ErrStackingForbidden
	}
	return nil
}
