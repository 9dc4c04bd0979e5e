package commands

import (
	"context"
	"time"

	"barberbook/internal/domain/booking"
	"barberbook/internal/domain/promotion"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// reconcileBooking recomputes the receivable and receipt from the current
// items and payments. It runs after every item or payment mutation and on
// completion. Cashback accrues exactly once, on the receipt's first
// pending->received edge, so repeated reconciliation never double-credits.
func reconcileBooking(
	ctx context.Context,
	tx shared.Tx,
	bookingID, locationID uuid.UUID,
	clientID *uuid.UUID,
	now time.Time,
) error {
	items, err := tx.Items().ListByBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	payments, err := tx.Payments().ListByBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	total := booking.ItemsTotal(items)
	paid := booking.PaymentsTotal(payments)
	settled := booking.Settled(total, paid)

	receivableStatus := booking.ReceivableStatusPending
	receiptStatus := booking.ReceiptStatusPending
	if settled {
		receivableStatus = booking.ReceivableStatusPaid
		receiptStatus = booking.ReceiptStatusReceived
	}

	if err := tx.Settlements().UpsertReceivable(ctx, bookingID, total, receivableStatus); err != nil {
		return err
	}
	prev, err := tx.Settlements().UpsertReceipt(ctx, bookingID, paid, receiptStatus)
	if err != nil {
		return err
	}

	if settled && prev != booking.ReceiptStatusReceived {
		return accrueCashback(ctx, tx, bookingID, locationID, clientID, total, now)
	}
	return nil
}

func accrueCashback(
	ctx context.Context,
	tx shared.Tx,
	bookingID, locationID uuid.UUID,
	clientID *uuid.UUID,
	total booking.Money,
	now time.Time,
) error {
	if clientID == nil {
		return nil
	}
	loc, err := tx.Reads().LocationByID(ctx, locationID)
	if err != nil {
		return err
	}
	if !loc.CashbackActive || total.Cents() < loc.CashbackMinTotalCents {
		return nil
	}

	credit := percentOf(total, loc.CashbackPercent)
	if credit.IsZero() {
		return nil
	}

	if err := tx.Loyalty().Credit(ctx, locationID, *clientID, credit); err != nil {
		return err
	}
	// Accrual rows carry no payment reference; cancellation uses them to size
	// the best-effort debit.
	app, err := promotion.NewApplication(bookingID, promotion.KindCashback, nil, nil, clientID, credit, now)
	if err != nil {
		return err
	}
	_, err = tx.Promotions().CreateApplication(ctx, app)
	return err
}

// percentOf treats non-positive percentages as zero so a misconfigured rate
// stored against a location disables the accrual instead of failing it.
func percentOf(m booking.Money, percent float64) booking.Money {
	if percent <= 0 {
		return booking.Money{}
	}
	return booking.MustMoney(int64(float64(m.Cents()) * percent / 100.0))
}
