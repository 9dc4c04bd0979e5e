package commands

import (
	"context"
	"errors"
	"log/slog"
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
	ErrIllegalTransition       = errs.New("illegal booking status transition")
	ErrInsufficientNotice      = errs.New("cancellation is below the minimum advance notice")
	ErrLateCancellationBlocked = errs.New("client is blocked from further late cancellations")
)

type CancelBookingRequest struct {
	Reason  *string
	ActorID *uuid.UUID
	// Override lets staff cancel below the minimum notice, taking the
	// late-penalty path instead of a rejection.
	Override bool
}

type LifecycleCommands interface {
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID) error
	StartBooking(ctx context.Context, bookingID uuid.UUID) error
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) error
	CancelBooking(ctx context.Context, bookingID uuid.UUID, req CancelBookingRequest) error
}

type lifecycleUseCaseImpl struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	audit    shared.AuditSink
	defaults PolicyDefaults
}

func NewLifecycleUseCase(uow shared.UnitOfWork, clk clock.Clock, audit shared.AuditSink, defaults PolicyDefaults) LifecycleCommands {
	return &lifecycleUseCaseImpl{uow: uow, clock: clk, audit: audit, defaults: defaults}
}

func (uc *lifecycleUseCaseImpl) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) error {
	return uc.plainTransition(ctx, bookingID, booking.StatusConfirmed, "booking.confirmed")
}

func (uc *lifecycleUseCaseImpl) StartBooking(ctx context.Context, bookingID uuid.UUID) error {
	return uc.plainTransition(ctx, bookingID, booking.StatusInProgress, "booking.started")
}

// plainTransition covers the edges with no side effects beyond the status
// write.
func (uc *lifecycleUseCaseImpl) plainTransition(ctx context.Context, bookingID uuid.UUID, next booking.Status, action string) error {
	var locationID uuid.UUID

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, derr := lockBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		locationID = entity.LocationID()

		if derr = entity.Transition(next, uc.clock.Now()); derr != nil {
			return errs.Mark(derr, ErrIllegalTransition)
		}
		return tx.Bookings().UpdateStatus(ctx, bookingID, next, uc.clock.Now())
	})
	if err != nil {
		return err
	}

	uc.audit.Record(ctx, shared.AuditEvent{
		LocationID: locationID,
		Action:     action,
		EntityID:   bookingID,
	})
	return nil
}

func (uc *lifecycleUseCaseImpl) CompleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	now := uc.clock.Now()
	var locationID uuid.UUID

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, derr := lockBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		locationID = entity.LocationID()

		if derr = entity.Transition(booking.StatusCompleted, now); derr != nil {
			return errs.Mark(derr, ErrIllegalTransition)
		}
		if derr = tx.Bookings().UpdateStatus(ctx, bookingID, booking.StatusCompleted, now); derr != nil {
			return derr
		}

		return reconcileBooking(ctx, tx, bookingID, entity.LocationID(), entity.ClientID(), now)
	})
	if err != nil {
		return err
	}

	uc.audit.Record(ctx, shared.AuditEvent{
		LocationID: locationID,
		Action:     "booking.completed",
		EntityID:   bookingID,
	})
	return nil
}

func (uc *lifecycleUseCaseImpl) CancelBooking(ctx context.Context, bookingID uuid.UUID, req CancelBookingRequest) error {
	now := uc.clock.Now()
	var locationID uuid.UUID

	var canceled *booking.Booking
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, derr := lockBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		canceled = entity
		locationID = entity.LocationID()

		late := false
		pol, derr := loadCancellationPolicy(ctx, tx.Reads(), entity.LocationID(), uc.defaults)
		if derr != nil {
			return derr
		}
		if entity.StartsInFuture(now) {
			if noticeErr := pol.ValidateAdvanceNotice(now, entity.Slot().Start()); noticeErr != nil {
				late = true
				if entity.ClientID() != nil {
					count, cerr := tx.NoShows().CountByClient(ctx, entity.LocationID(), *entity.ClientID())
					if cerr != nil {
						return cerr
					}
					if cerr = pol.ValidateLateCount(count + 1); cerr != nil {
						return errs.Mark(cerr, ErrLateCancellationBlocked)
					}
				}
				if !req.Override {
					return errs.Mark(noticeErr, ErrInsufficientNotice)
				}
				if derr = uc.recordNoShow(ctx, tx, entity, now); derr != nil {
					return derr
				}
			}
		}

		if derr = entity.Transition(booking.StatusCanceled, now); derr != nil {
			return errs.Mark(derr, ErrIllegalTransition)
		}
		if derr = tx.Bookings().UpdateStatus(ctx, bookingID, booking.StatusCanceled, now); derr != nil {
			return derr
		}

		if derr = uc.creditBackProducts(ctx, tx, entity); derr != nil {
			return derr
		}

		priorReceipt, derr := tx.Settlements().ReceiptStatusByBooking(ctx, bookingID)
		if derr != nil && !infra.IsKind(derr, infra.KindNotFound) {
			return derr
		}
		if derr = tx.Settlements().ReverseByBooking(ctx, bookingID); derr != nil {
			return derr
		}

		if late && pol.LatePenaltyPercent > 0 {
			items, derr := tx.Items().ListByBooking(ctx, bookingID)
			if derr != nil {
				return derr
			}
			penalty := percentOf(booking.ItemsTotal(items), pol.LatePenaltyPercent)
			if !penalty.IsZero() {
				if derr = tx.Settlements().UpsertReceivable(ctx, bookingID, penalty, booking.ReceivableStatusPending); derr != nil {
					return derr
				}
			}
		}

		if priorReceipt == booking.ReceiptStatusReceived {
			uc.reverseAccruedCashback(ctx, tx, entity)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientNotice) {
			uc.recordRejectedLateAttempt(ctx, canceled, now)
		}
		return err
	}

	detail := map[string]any{}
	if req.Reason != nil {
		detail["reason"] = *req.Reason
	}
	uc.audit.Record(ctx, shared.AuditEvent{
		LocationID: locationID,
		ActorID:    req.ActorID,
		Action:     "booking.canceled",
		EntityID:   bookingID,
		Detail:     detail,
	})
	return nil
}

func (uc *lifecycleUseCaseImpl) recordNoShow(ctx context.Context, tx shared.Tx, entity *booking.Booking, now time.Time) error {
	if entity.ClientID() == nil {
		return nil
	}
	return tx.NoShows().Record(ctx, entity.LocationID(), *entity.ClientID(), entity.ID(), now)
}

// recordRejectedLateAttempt keeps no-show accounting across rejected late
// cancellations. It runs in its own transaction because the rejecting
// transaction rolled back, and it is best effort.
func (uc *lifecycleUseCaseImpl) recordRejectedLateAttempt(ctx context.Context, entity *booking.Booking, now time.Time) {
	if entity == nil || entity.ClientID() == nil {
		return
	}
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return uc.recordNoShow(ctx, tx, entity, now)
	})
	if err != nil {
		slog.Warn("no-show record failed", "booking_id", entity.ID(), "error", err.Error())
	}
}

func (uc *lifecycleUseCaseImpl) creditBackProducts(ctx context.Context, tx shared.Tx, entity *booking.Booking) error {
	items, err := tx.Items().ListByBooking(ctx, entity.ID())
	if err != nil {
		return err
	}
	for _, it := range items {
		if !it.IsProduct() {
			continue
		}
		refID := it.ID()
		if err := tx.Stock().Adjust(ctx, entity.LocationID(), shared.StockAdjustment{
			ProductID: it.ProductID(),
			Direction: shared.StockIn,
			Quantity:  it.Quantity(),
			Reason:    "booking_canceled",
			RefID:     &refID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// reverseAccruedCashback debits back cashback credited at settlement. Best
// effort: a short balance degrades to a partial debit and cancellation
// proceeds.
func (uc *lifecycleUseCaseImpl) reverseAccruedCashback(ctx context.Context, tx shared.Tx, entity *booking.Booking) {
	if entity.ClientID() == nil {
		return
	}
	apps, err := tx.Promotions().ApplicationsByBooking(ctx, entity.ID())
	if err != nil {
		slog.Warn("cashback reversal skipped", "booking_id", entity.ID(), "error", err.Error())
		return
	}

	var accrued booking.Money
	for _, app := range apps {
		if app.Kind == promotion.KindCashback && app.PaymentID == nil {
			amount, merr := booking.NewMoney(app.AmountCents)
			if merr != nil {
				continue
			}
			accrued = accrued.Add(amount)
		}
	}
	if accrued.IsZero() {
		return
	}

	taken, err := tx.Loyalty().DebitUpTo(ctx, entity.LocationID(), *entity.ClientID(), accrued)
	if err != nil {
		slog.Warn("cashback reversal failed", "booking_id", entity.ID(), "error", err.Error())
		return
	}
	if taken.LessThan(accrued) {
		slog.Warn("cashback reversal partial",
			"booking_id", entity.ID(),
			"requested_cents", accrued.Cents(),
			"debited_cents", taken.Cents())
	}
}

func lockBooking(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (*booking.Booking, error) {
	entity, err := tx.Bookings().FindForUpdate(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return entity, nil
}
