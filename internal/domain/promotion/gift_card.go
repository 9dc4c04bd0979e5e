package promotion

import (
	"errors"
	"time"

	"barberbook/internal/domain/booking"

	"github.com/google/uuid"
)

var (
	ErrGiftCardNotActive     = errors.New("gift card is not active")
	ErrGiftCardExpired       = errors.New("gift card has expired")
	ErrGiftCardWrongLocation = errors.New("gift card belongs to a different location")
	ErrGiftCardExhausted     = errors.New("gift card has no remaining balance")
)

type GiftCard struct {
	id         uuid.UUID
	locationID uuid.UUID
	balance    booking.Money
	status     GiftCardStatus
	expiresAt  *time.Time
}

func NewGiftCard(id, locationID uuid.UUID, balance booking.Money, status GiftCardStatus, expiresAt *time.Time) *GiftCard {
	return &GiftCard{
		id:         id,
		locationID: locationID,
		balance:    balance,
		status:     status,
		expiresAt:  expiresAt,
	}
}

func (g *GiftCard) ID() uuid.UUID          { return g.id }
func (g *GiftCard) LocationID() uuid.UUID  { return g.locationID }
func (g *GiftCard) Balance() booking.Money { return g.balance }
func (g *GiftCard) Status() GiftCardStatus { return g.status }

func (g *GiftCard) ValidateUsage(now time.Time, locationID uuid.UUID) error {
	if g.locationID != locationID {
		return ErrGiftCardWrongLocation
	}
	if g.status == GiftCardExpired {
		return ErrGiftCardExpired
	}
	if g.status != GiftCardActive {
		return ErrGiftCardNotActive
	}
	if g.expiresAt != nil && now.After(*g.expiresAt) {
		return ErrGiftCardExpired
	}
	return nil
}

// AmountApplicable is min(balance, paymentAmount); a zero result means the
// card cannot offset this payment at all.
func (g *GiftCard) AmountApplicable(payment booking.Money) (booking.Money, error) {
	applied := booking.MinMoney(g.balance, payment)
	if applied.IsZero() {
		return booking.Money{}, ErrGiftCardExhausted
	}
	return applied, nil
}

// Debit consumes balance; the card flips to used the moment it reaches zero.
func (g *GiftCard) Debit(amount booking.Money) {
	g.balance = g.balance.SubFloor(amount)
	if g.balance.IsZero() {
		g.status = GiftCardUsed
	}
}

// Credit restores balance on reversal, re-activating a used card.
func (g *GiftCard) Credit(amount booking.Money) {
	g.balance = g.balance.Add(amount)
	if g.status == GiftCardUsed && !g.balance.IsZero() {
		g.status = GiftCardActive
	}
}
