package commands

import (
	"context"
	"time"

	"barberbook/internal/domain/booking"
	"barberbook/internal/domain/promotion"
	"barberbook/internal/infra"
	"barberbook/internal/pkg/clock"
	"barberbook/internal/pkg/errs"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound        = errs.New("payment not found")
	ErrInvalidPaymentAmount   = errs.New("payment amount must be positive")
	ErrMultipleInstruments    = errs.New("payment carries more than one promotion instrument")
	ErrCouponNotFound         = errs.New("coupon not found")
	ErrCouponRejected         = errs.New("coupon is not usable")
	ErrCouponUsageExceeded    = errs.New("coupon usage limit exceeded")
	ErrGiftCardNotFound       = errs.New("gift card not found")
	ErrGiftCardRejected       = errs.New("gift card is not usable")
	ErrCashbackClientRequired = errs.New("cashback requires an identified client")
	ErrInsufficientCashback   = errs.New("insufficient cashback balance")
	ErrPromotionUsageCapped   = errs.New("promotion usage limit reached for the current window")
	ErrPromotionStacking      = errs.New("promotion cannot be combined on this booking")
)

type RecordPaymentRequest struct {
	PaymentMethodID uuid.UUID
	AmountCents     int64
	Note            *string
	Instrument      promotion.Instrument
}

type PaymentCommands interface {
	RecordPayment(ctx context.Context, bookingID uuid.UUID, req RecordPaymentRequest) (uuid.UUID, error)
	RemovePayment(ctx context.Context, bookingID, paymentID uuid.UUID) error
}

type paymentUseCaseImpl struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	audit    shared.AuditSink
	defaults PolicyDefaults
}

func NewPaymentUseCase(uow shared.UnitOfWork, clk clock.Clock, audit shared.AuditSink, defaults PolicyDefaults) PaymentCommands {
	return &paymentUseCaseImpl{uow: uow, clock: clk, audit: audit, defaults: defaults}
}

func (uc *paymentUseCaseImpl) RecordPayment(ctx context.Context, bookingID uuid.UUID, req RecordPaymentRequest) (uuid.UUID, error) {
	kind, hasInstrument, err := req.Instrument.Kind()
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrMultipleInstruments)
	}

	amount, err := booking.NewMoney(req.AmountCents)
	if err != nil || amount.IsZero() {
		return uuid.Nil, ErrInvalidPaymentAmount
	}

	now := uc.clock.Now()
	var createdID uuid.UUID
	var locationID uuid.UUID

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := mutableBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		locationID = snap.LocationID

		payment, derr := booking.NewPayment(bookingID, req.PaymentMethodID, amount, now, req.Note)
		if derr != nil {
			return errs.Mark(derr, ErrInvalidPaymentAmount)
		}

		var application *promotion.Application
		if hasInstrument {
			application, derr = uc.applyInstrument(ctx, tx, snap, kind, req.Instrument, amount, now)
			if derr != nil {
				return derr
			}
		}

		id, derr := tx.Payments().Create(ctx, payment)
		if derr != nil {
			return derr
		}
		createdID = id

		if application != nil {
			bound, derr := promotion.NewApplication(
				bookingID, application.Kind(),
				application.InstrumentID(), &id, application.ClientID(),
				application.AmountApplied(), now,
			)
			if derr != nil {
				return derr
			}
			if _, derr = tx.Promotions().CreateApplication(ctx, bound); derr != nil {
				return derr
			}
		}

		return reconcileBooking(ctx, tx, bookingID, snap.LocationID, snap.ClientID, now)
	})
	if err != nil {
		return uuid.Nil, err
	}

	uc.audit.Record(ctx, shared.AuditEvent{
		LocationID: locationID,
		Action:     "payment.recorded",
		EntityID:   bookingID,
		Detail:     map[string]any{"payment_id": createdID, "amount_cents": req.AmountCents},
	})
	return createdID, nil
}

// applyInstrument validates policy gates and mutates instrument balances. The
// returned application is unbound: the caller rebinds it to the payment id
// once the payment row exists.
func (uc *paymentUseCaseImpl) applyInstrument(
	ctx context.Context,
	tx shared.Tx,
	snap *shared.BookingSnapshot,
	kind promotion.Kind,
	instrument promotion.Instrument,
	amount booking.Money,
	now time.Time,
) (*promotion.Application, error) {
	pol, err := loadPromotionPolicy(ctx, tx.Reads(), snap.LocationID, uc.defaults)
	if err != nil {
		return nil, err
	}

	existing, err := tx.Promotions().ApplicationsByBooking(ctx, snap.ID)
	if err != nil {
		return nil, err
	}
	kinds := make([]promotion.Kind, 0, len(existing))
	for _, app := range existing {
		// Accrual rows are settlement output, not instrument usage.
		if app.PaymentID == nil {
			continue
		}
		kinds = append(kinds, app.Kind)
	}
	if err := pol.ValidateStacking(kind, kinds); err != nil {
		return nil, errs.Mark(err, ErrPromotionStacking)
	}

	count, err := tx.Promotions().KindCountInWindow(ctx, snap.LocationID, kind, pol.WindowStart(now))
	if err != nil {
		return nil, err
	}
	if err := pol.ValidateWindowCount(count); err != nil {
		return nil, errs.Mark(err, ErrPromotionUsageCapped)
	}

	switch kind {
	case promotion.KindCoupon:
		return uc.applyCoupon(ctx, tx, snap, *instrument.CouponCode, now)
	case promotion.KindGiftCard:
		return uc.applyGiftCard(ctx, tx, snap, *instrument.GiftCardID, amount, now)
	case promotion.KindCashback:
		return uc.applyCashback(ctx, tx, snap, *instrument.CashbackCents, now)
	default:
		return nil, errs.Mark(promotion.ErrMultipleInstruments, ErrMultipleInstruments)
	}
}

func (uc *paymentUseCaseImpl) applyCoupon(
	ctx context.Context,
	tx shared.Tx,
	snap *shared.BookingSnapshot,
	code string,
	now time.Time,
) (*promotion.Application, error) {
	cs, err := tx.Reads().CouponByCode(ctx, snap.LocationID, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	fixedOff, err := booking.NewMoney(cs.FixedOffCents)
	if err != nil {
		return nil, errs.Mark(err, ErrCouponRejected)
	}
	coupon := promotion.NewCoupon(cs.ID, cs.LocationID, cs.Code, cs.PercentOff, fixedOff, cs.Active, cs.ExpiresAt, cs.UsageLimit, cs.PerClientLimit)

	if err := coupon.ValidateUsage(now, snap.LocationID); err != nil {
		return nil, errs.Mark(err, ErrCouponRejected)
	}

	globalUses, clientUses, err := tx.Promotions().CouponUsageCounts(ctx, coupon.ID(), snap.ClientID)
	if err != nil {
		return nil, err
	}
	if err := coupon.ValidateCounts(globalUses, clientUses); err != nil {
		return nil, errs.Mark(err, ErrCouponUsageExceeded)
	}

	items, err := tx.Items().ListByBooking(ctx, snap.ID)
	if err != nil {
		return nil, err
	}
	applied := coupon.DiscountFor(booking.ItemsTotal(items))
	if applied.IsZero() {
		return nil, ErrCouponRejected
	}

	couponID := coupon.ID()
	return promotion.NewApplication(snap.ID, promotion.KindCoupon, &couponID, nil, snap.ClientID, applied, now)
}

func (uc *paymentUseCaseImpl) applyGiftCard(
	ctx context.Context,
	tx shared.Tx,
	snap *shared.BookingSnapshot,
	giftCardID uuid.UUID,
	amount booking.Money,
	now time.Time,
) (*promotion.Application, error) {
	card, err := tx.Promotions().GiftCardForUpdate(ctx, giftCardID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrGiftCardNotFound
		}
		return nil, err
	}

	if err := card.ValidateUsage(now, snap.LocationID); err != nil {
		return nil, errs.Mark(err, ErrGiftCardRejected)
	}
	applied, err := card.AmountApplicable(amount)
	if err != nil {
		return nil, errs.Mark(err, ErrGiftCardRejected)
	}

	card.Debit(applied)
	if err := tx.Promotions().SaveGiftCard(ctx, card); err != nil {
		return nil, err
	}

	id := card.ID()
	return promotion.NewApplication(snap.ID, promotion.KindGiftCard, &id, nil, snap.ClientID, applied, now)
}

func (uc *paymentUseCaseImpl) applyCashback(
	ctx context.Context,
	tx shared.Tx,
	snap *shared.BookingSnapshot,
	requestedCents int64,
	now time.Time,
) (*promotion.Application, error) {
	if snap.ClientID == nil {
		return nil, ErrCashbackClientRequired
	}
	requested, err := booking.NewMoney(requestedCents)
	if err != nil || requested.IsZero() {
		return nil, ErrInvalidPaymentAmount
	}

	if err := tx.Loyalty().Debit(ctx, snap.LocationID, *snap.ClientID, requested); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, ErrInsufficientCashback
		}
		return nil, err
	}

	return promotion.NewApplication(snap.ID, promotion.KindCashback, nil, nil, snap.ClientID, requested, now)
}

func (uc *paymentUseCaseImpl) RemovePayment(ctx context.Context, bookingID, paymentID uuid.UUID) error {
	var locationID uuid.UUID

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := mutableBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		locationID = snap.LocationID

		pay, derr := tx.Reads().PaymentByID(ctx, paymentID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return derr
		}
		if pay.BookingID != bookingID {
			return ErrPaymentNotFound
		}

		apps, derr := tx.Promotions().DeleteApplicationsByPayment(ctx, paymentID)
		if derr != nil {
			return derr
		}
		for _, app := range apps {
			if derr = uc.reverseApplication(ctx, tx, snap.LocationID, app); derr != nil {
				return derr
			}
		}

		if derr = tx.Payments().Delete(ctx, paymentID); derr != nil {
			return derr
		}

		return reconcileBooking(ctx, tx, bookingID, snap.LocationID, snap.ClientID, uc.clock.Now())
	})
	if err != nil {
		return err
	}

	uc.audit.Record(ctx, shared.AuditEvent{
		LocationID: locationID,
		Action:     "payment.removed",
		EntityID:   bookingID,
		Detail:     map[string]any{"payment_id": paymentID},
	})
	return nil
}

func (uc *paymentUseCaseImpl) reverseApplication(ctx context.Context, tx shared.Tx, locationID uuid.UUID, app shared.PromotionApplicationSnapshot) error {
	amount, err := booking.NewMoney(app.AmountCents)
	if err != nil {
		return err
	}

	switch app.Kind {
	case promotion.KindGiftCard:
		if app.InstrumentID == nil {
			return nil
		}
		card, err := tx.Promotions().GiftCardForUpdate(ctx, *app.InstrumentID)
		if err != nil {
			return err
		}
		card.Credit(amount)
		return tx.Promotions().SaveGiftCard(ctx, card)

	case promotion.KindCashback:
		if app.ClientID == nil {
			return nil
		}
		return tx.Loyalty().Credit(ctx, locationID, *app.ClientID, amount)

	default:
		// Coupons are usage-counted; deleting the row is the reversal.
		return nil
	}
}
