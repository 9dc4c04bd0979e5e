package promotion

import (
	"errors"
	"time"

	"barberbook/internal/domain/booking"

	"github.com/google/uuid"
)

var (
	ErrCouponInactive      = errors.New("coupon is not active")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponWrongLocation = errors.New("coupon belongs to a different location")
	ErrCouponUsageLimit    = errors.New("coupon usage limit reached")
	ErrCouponClientLimit   = errors.New("coupon per-client usage limit reached")
)

type Coupon struct {
	id             uuid.UUID
	locationID     uuid.UUID
	code           string
	percentOff     float64
	fixedOff       booking.Money
	active         bool
	expiresAt      *time.Time
	usageLimit     *int32
	perClientLimit *int32
}

func NewCoupon(
	id, locationID uuid.UUID,
	code string,
	percentOff float64,
	fixedOff booking.Money,
	active bool,
	expiresAt *time.Time,
	usageLimit, perClientLimit *int32,
) *Coupon {
	return &Coupon{
		id:             id,
		locationID:     locationID,
		code:           code,
		percentOff:     percentOff,
		fixedOff:       fixedOff,
		active:         active,
		expiresAt:      expiresAt,
		usageLimit:     usageLimit,
		perClientLimit: perClientLimit,
	}
}

func (c *Coupon) ID() uuid.UUID         { return c.id }
func (c *Coupon) LocationID() uuid.UUID { return c.locationID }
func (c *Coupon) Code() string          { return c.code }

// ValidateUsage checks the static eligibility gates. Usage counters are
// checked separately against recorded applications.
func (c *Coupon) ValidateUsage(now time.Time, locationID uuid.UUID) error {
	if c.locationID != locationID {
		return ErrCouponWrongLocation
	}
	if !c.active {
		return ErrCouponInactive
	}
	if c.expiresAt != nil && now.After(*c.expiresAt) {
		return ErrCouponExpired
	}
	return nil
}

// ValidateCounts enforces the global and per-client usage caps given how
// many prior applications reference this coupon.
func (c *Coupon) ValidateCounts(globalUses, clientUses int64) error {
	if c.usageLimit != nil && globalUses >= int64(*c.usageLimit) {
		return ErrCouponUsageLimit
	}
	if c.perClientLimit != nil && clientUses >= int64(*c.perClientLimit) {
		return ErrCouponClientLimit
	}
	return nil
}

// DiscountFor sizes the coupon against a commanda total:
// min(total × percentOff/100 + fixedOff, total).
func (c *Coupon) DiscountFor(total booking.Money) booking.Money {
	percent := int64(float64(total.Cents()) * c.percentOff / 100.0)
	discount := booking.MustMoney(percent).Add(c.fixedOff)
	return booking.MinMoney(discount, total)
}
