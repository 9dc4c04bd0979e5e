package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBookingTerminal     = errors.New("booking is in a terminal status")
	ErrIllegalTransition   = errors.New("illegal booking status transition")
	ErrInvalidPayment      = errors.New("payment amount must be positive")
	ErrMissingProfessional = errors.New("booking requires a professional")
)

type Booking struct {
	id             uuid.UUID
	professionalID uuid.UUID
	locationID     uuid.UUID
	clientID       *uuid.UUID
	slot           TimeSlot
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
}

func NewBooking(professionalID, locationID uuid.UUID, clientID *uuid.UUID, slot TimeSlot, now time.Time) (*Booking, error) {
	if professionalID == uuid.Nil {
		return nil, ErrMissingProfessional
	}
	return &Booking{
		id:             uuid.New(),
		professionalID: professionalID,
		locationID:     locationID,
		clientID:       clientID,
		slot:           slot,
		status:         StatusPending,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructBooking(
	id, professionalID, locationID uuid.UUID,
	clientID *uuid.UUID,
	slot TimeSlot,
	status Status,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:             id,
		professionalID: professionalID,
		locationID:     locationID,
		clientID:       clientID,
		slot:           slot,
		status:         status,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID             { return b.id }
func (b *Booking) ProfessionalID() uuid.UUID { return b.professionalID }
func (b *Booking) LocationID() uuid.UUID     { return b.locationID }
func (b *Booking) ClientID() *uuid.UUID      { return b.clientID }
func (b *Booking) Slot() TimeSlot            { return b.slot }
func (b *Booking) Status() Status            { return b.status }
func (b *Booking) CreatedAt() time.Time      { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time      { return b.updatedAt }

func (b *Booking) IsTerminal() bool {
	return b.status.IsTerminal()
}

// CanMutate reports whether items and payments may still change. Terminal
// bookings are frozen.
func (b *Booking) CanMutate() bool {
	return !b.status.IsTerminal()
}

// Transition moves the booking to next, enforcing the lifecycle table.
func (b *Booking) Transition(next Status, now time.Time) error {
	if !next.IsValid() {
		return ErrIllegalTransition
	}
	if !b.status.CanTransitionTo(next) {
		return ErrIllegalTransition
	}
	b.status = next
	b.updatedAt = now
	return nil
}

// StartsInFuture reports whether cancellation-notice rules still apply.
func (b *Booking) StartsInFuture(now time.Time) bool {
	return b.slot.Start().After(now)
}

// Payment is an amount recorded against a booking through some payment
// method.
type Payment struct {
	id              uuid.UUID
	bookingID       uuid.UUID
	paymentMethodID uuid.UUID
	amount          Money
	paidAt          time.Time
	note            *string
}

func NewPayment(bookingID, paymentMethodID uuid.UUID, amount Money, paidAt time.Time, note *string) (*Payment, error) {
	if amount.Cents() <= 0 {
		return nil, ErrInvalidPayment
	}
	return &Payment{
		id:              uuid.New(),
		bookingID:       bookingID,
		paymentMethodID: paymentMethodID,
		amount:          amount,
		paidAt:          paidAt,
		note:            note,
	}, nil
}

func ReconstructPayment(id, bookingID, paymentMethodID uuid.UUID, amount Money, paidAt time.Time, note *string) *Payment {
	return &Payment{
		id:              id,
		bookingID:       bookingID,
		paymentMethodID: paymentMethodID,
		amount:          amount,
		paidAt:          paidAt,
		note:            note,
	}
}

func (p *Payment) ID() uuid.UUID              { return p.id }
func (p *Payment) BookingID() uuid.UUID       { return p.bookingID }
func (p *Payment) PaymentMethodID() uuid.UUID { return p.paymentMethodID }
func (p *Payment) Amount() Money              { return p.amount }
func (p *Payment) PaidAt() time.Time          { return p.paidAt }
func (p *Payment) Note() *string              { return p.note }

// PaymentsTotal sums recorded payment amounts.
func PaymentsTotal(payments []*Payment) Money {
	var total Money
	for _, p := range payments {
		total = total.Add(p.amount)
	}
	return total
}
