package promotion

import (
	"errors"

	"github.com/google/uuid"
)

var ErrMultipleInstruments = errors.New("a payment may carry at most one promotion instrument")

// Instrument is the caller's choice of promotion on a payment request. At
// most one of the three fields may be set.
type Instrument struct {
	CouponCode    *string
	GiftCardID    *uuid.UUID
	CashbackCents *int64
}

// Kind resolves which instrument was supplied. It returns false when the
// payment carries no promotion, and ErrMultipleInstruments when more than one
// field is set.
func (i Instrument) Kind() (Kind, bool, error) {
	var (
		kind  Kind
		count int
	)
	if i.CouponCode != nil {
		kind = KindCoupon
		count++
	}
	if i.GiftCardID != nil {
		kind = KindGiftCard
		count++
	}
	if i.CashbackCents != nil && *i.CashbackCents > 0 {
		kind = KindCashback
		count++
	}
	switch count {
	case 0:
		return "", false, nil
	case 1:
		return kind, true, nil
	default:
		return "", false, ErrMultipleInstruments
	}
}
