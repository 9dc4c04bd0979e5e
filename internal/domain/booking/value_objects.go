package booking

import (
	"errors"
	"time"
)

var (
	ErrInvalidTimeSlot = errors.New("expected end must be after start time")
	ErrNegativeMoney   = errors.New("money cannot be negative")
)

// TimeSlot is the half-open [start, expectedEnd) window a booking occupies.
type TimeSlot struct {
	start       time.Time
	expectedEnd time.Time
}

func NewTimeSlot(start, expectedEnd time.Time) (TimeSlot, error) {
	if !expectedEnd.After(start) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, expectedEnd: expectedEnd}, nil
}

func (ts TimeSlot) Start() time.Time       { return ts.start }
func (ts TimeSlot) ExpectedEnd() time.Time { return ts.expectedEnd }

func (ts TimeSlot) Duration() time.Duration {
	return ts.expectedEnd.Sub(ts.start)
}

func (ts TimeSlot) Overlaps(o TimeSlot) bool {
	return ts.start.Before(o.expectedEnd) && o.start.Before(ts.expectedEnd)
}

// Money is an amount in cents. Item and payment arithmetic stays integral so
// reconciliation totals never drift.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeMoney
	}
	return Money{cents: cents}, nil
}

func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Cents() int64 { return m.cents }

func (m Money) IsZero() bool { return m.cents == 0 }

func (m Money) Add(o Money) Money {
	return Money{cents: m.cents + o.cents}
}

// SubFloor subtracts o clamping at zero.
func (m Money) SubFloor(o Money) Money {
	if o.cents >= m.cents {
		return Money{}
	}
	return Money{cents: m.cents - o.cents}
}

func (m Money) LessThan(o Money) bool {
	return m.cents < o.cents
}

func (m Money) GreaterOrEqual(o Money) bool {
	return m.cents >= o.cents
}

func MinMoney(a, b Money) Money {
	if a.cents < b.cents {
		return a
	}
	return b
}

// Settled reports the settlement rule shared by receipts and receivables:
// paid covers the total and the total is non-trivial.
func Settled(total, paid Money) bool {
	return paid.GreaterOrEqual(total) && total.cents > 0
}
