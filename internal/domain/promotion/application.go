package promotion

import (
	"errors"
	"time"

	"barberbook/internal/domain/booking"

	"github.com/google/uuid"
)

var ErrClientRequired = errors.New("promotion requires an identified client")

// Application is the immutable audit/settlement record written when an
// instrument offsets a payment. Removing the payment deletes the row and
// reverses the balance effect.
type Application struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	kind          Kind
	instrumentID  *uuid.UUID
	paymentID     *uuid.UUID
	clientID      *uuid.UUID
	amountApplied booking.Money
	createdAt     time.Time
}

func NewApplication(
	bookingID uuid.UUID,
	kind Kind,
	instrumentID, paymentID, clientID *uuid.UUID,
	amountApplied booking.Money,
	now time.Time,
) (*Application, error) {
	if !kind.IsValid() {
		return nil, errors.New("invalid promotion kind")
	}
	if kind == KindCashback && clientID == nil {
		return nil, ErrClientRequired
	}
	return &Application{
		id:            uuid.New(),
		bookingID:     bookingID,
		kind:          kind,
		instrumentID:  instrumentID,
		paymentID:     paymentID,
		clientID:      clientID,
		amountApplied: amountApplied,
		createdAt:     now,
	}, nil
}

func (a *Application) ID() uuid.UUID                { return a.id }
func (a *Application) BookingID() uuid.UUID         { return a.bookingID }
func (a *Application) Kind() Kind                   { return a.kind }
func (a *Application) InstrumentID() *uuid.UUID     { return a.instrumentID }
func (a *Application) PaymentID() *uuid.UUID        { return a.paymentID }
func (a *Application) ClientID() *uuid.UUID         { return a.clientID }
func (a *Application) AmountApplied() booking.Money { return a.amountApplied }
func (a *Application) CreatedAt() time.Time         { return a.createdAt }
