//go:build unit

package commands_test

import (
	"context"
	"time"

	"barberbook/internal/domain/booking"
	"barberbook/internal/domain/promotion"
	"barberbook/internal/infra"
	"barberbook/internal/infra/db"
	"barberbook/internal/pkg/errs"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory stand-ins for the transactional ports. No rollback: commands
// under test must fail before mutating, which mirrors how the SQL
// implementations order their work.

type receivableRow struct {
	amount booking.Money
	status booking.ReceivableStatus
}

type receiptRow struct {
	amount booking.Money
	status booking.ReceiptStatus
}

type fakeStore struct {
	bookings    map[uuid.UUID]*booking.Booking
	statuses    map[uuid.UUID]booking.Status
	items       map[uuid.UUID][]*booking.Item
	payments    map[uuid.UUID][]*booking.Payment
	apps        map[uuid.UUID][]shared.PromotionApplicationSnapshot
	receivables map[uuid.UUID]receivableRow
	receipts    map[uuid.UUID]receiptRow
	noShows     map[uuid.UUID]int64
	balances    map[uuid.UUID]int64
	policies    map[uuid.UUID]shared.CancellationPolicySnapshot
	locations   map[uuid.UUID]shared.LocationSnapshot
	services    map[uuid.UUID]shared.ServiceSnapshot
	products    map[uuid.UUID]shared.ProductSnapshot
	stock       map[uuid.UUID]int32
	adjustments []shared.StockAdjustment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings:    map[uuid.UUID]*booking.Booking{},
		statuses:    map[uuid.UUID]booking.Status{},
		items:       map[uuid.UUID][]*booking.Item{},
		payments:    map[uuid.UUID][]*booking.Payment{},
		apps:        map[uuid.UUID][]shared.PromotionApplicationSnapshot{},
		receivables: map[uuid.UUID]receivableRow{},
		receipts:    map[uuid.UUID]receiptRow{},
		noShows:     map[uuid.UUID]int64{},
		balances:    map[uuid.UUID]int64{},
		policies:    map[uuid.UUID]shared.CancellationPolicySnapshot{},
		locations:   map[uuid.UUID]shared.LocationSnapshot{},
		services:    map[uuid.UUID]shared.ServiceSnapshot{},
		products:    map[uuid.UUID]shared.ProductSnapshot{},
		stock:       map[uuid.UUID]int32{},
	}
}

func notFound() error {
	return infra.WrapRepoErr("not found", nil, infra.KindNotFound)
}

type fakeUow struct{ s *fakeStore }

func (u *fakeUow) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{s: u.s})
}

func (u *fakeUow) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUow) WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUow) CommandReads() shared.CommandReads { return &fakeReads{s: u.s} }

type fakeTx struct{ s *fakeStore }

func (t *fakeTx) Bookings() shared.BookingRepository       { return &fakeBookings{s: t.s} }
func (t *fakeTx) Items() shared.ItemRepository             { return &fakeItems{s: t.s} }
func (t *fakeTx) Payments() shared.PaymentRepository       { return &fakePayments{s: t.s} }
func (t *fakeTx) Promotions() shared.PromotionRepository   { return &fakePromotions{s: t.s} }
func (t *fakeTx) Settlements() shared.SettlementRepository { return &fakeSettlements{s: t.s} }
func (t *fakeTx) Stock() shared.StockRepository            { return &fakeStock{s: t.s} }
func (t *fakeTx) Loyalty() shared.LoyaltyRepository        { return &fakeLoyalty{s: t.s} }
func (t *fakeTx) NoShows() shared.NoShowRepository         { return &fakeNoShows{s: t.s} }
func (t *fakeTx) WaitList() shared.WaitListRepository      { return &fakeWaitList{} }
func (t *fakeTx) Reads() shared.CommandReads               { return &fakeReads{s: t.s} }
func (t *fakeTx) DB() db.DBTX                              { return nil }

type fakeBookings struct{ s *fakeStore }

func (r *fakeBookings) Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error) {
	r.s.bookings[b.ID()] = b
	r.s.statuses[b.ID()] = b.Status()
	return b.ID(), nil
}

func (r *fakeBookings) FindForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, notFound()
	}
	return b, nil
}

func (r *fakeBookings) OccupiedSlotsForUpdate(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]booking.TimeSlot, error) {
	var slots []booking.TimeSlot
	for id, b := range r.s.bookings {
		if b.ProfessionalID() != professionalID || r.s.statuses[id] == booking.StatusCanceled {
			continue
		}
		if b.Slot().Start().Before(end) && start.Before(b.Slot().ExpectedEnd()) {
			slots = append(slots, b.Slot())
		}
	}
	return slots, nil
}

func (r *fakeBookings) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status, now time.Time) error {
	r.s.statuses[id] = status
	return nil
}

type fakeItems struct{ s *fakeStore }

func (r *fakeItems) Create(ctx context.Context, bookingID uuid.UUID, item *booking.Item) (uuid.UUID, error) {
	r.s.items[bookingID] = append(r.s.items[bookingID], item)
	return item.ID(), nil
}

func (r *fakeItems) Update(ctx context.Context, item *booking.Item) error {
	for bookingID, items := range r.s.items {
		for i, it := range items {
			if it.ID() == item.ID() {
				r.s.items[bookingID][i] = item
				return nil
			}
		}
	}
	return notFound()
}

func (r *fakeItems) Delete(ctx context.Context, id uuid.UUID) error {
	for bookingID, items := range r.s.items {
		for i, it := range items {
			if it.ID() == id {
				r.s.items[bookingID] = append(items[:i], items[i+1:]...)
				return nil
			}
		}
	}
	return notFound()
}

func (r *fakeItems) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*booking.Item, error) {
	return r.s.items[bookingID], nil
}

type fakePayments struct{ s *fakeStore }

func (r *fakePayments) Create(ctx context.Context, p *booking.Payment) (uuid.UUID, error) {
	r.s.payments[p.BookingID()] = append(r.s.payments[p.BookingID()], p)
	return p.ID(), nil
}

func (r *fakePayments) Delete(ctx context.Context, id uuid.UUID) error {
	for bookingID, payments := range r.s.payments {
		for i, p := range payments {
			if p.ID() == id {
				r.s.payments[bookingID] = append(payments[:i], payments[i+1:]...)
				return nil
			}
		}
	}
	return notFound()
}

func (r *fakePayments) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*booking.Payment, error) {
	return r.s.payments[bookingID], nil
}

type fakePromotions struct{ s *fakeStore }

func (r *fakePromotions) CreateApplication(ctx context.Context, app *promotion.Application) (uuid.UUID, error) {
	snap := shared.PromotionApplicationSnapshot{
		ID:           app.ID(),
		BookingID:    app.BookingID(),
		PaymentID:    app.PaymentID(),
		ClientID:     app.ClientID(),
		Kind:         app.Kind(),
		InstrumentID: app.InstrumentID(),
		AmountCents:  app.AmountApplied().Cents(),
		CreatedAt:    app.CreatedAt(),
	}
	r.s.apps[app.BookingID()] = append(r.s.apps[app.BookingID()], snap)
	return app.ID(), nil
}

func (r *fakePromotions) ApplicationsByBooking(ctx context.Context, bookingID uuid.UUID) ([]shared.PromotionApplicationSnapshot, error) {
	return r.s.apps[bookingID], nil
}

func (r *fakePromotions) DeleteApplicationsByPayment(ctx context.Context, paymentID uuid.UUID) ([]shared.PromotionApplicationSnapshot, error) {
	var removed []shared.PromotionApplicationSnapshot
	for bookingID, apps := range r.s.apps {
		var kept []shared.PromotionApplicationSnapshot
		for _, app := range apps {
			if app.PaymentID != nil && *app.PaymentID == paymentID {
				removed = append(removed, app)
				continue
			}
			kept = append(kept, app)
		}
		r.s.apps[bookingID] = kept
	}
	return removed, nil
}

func (r *fakePromotions) CouponUsageCounts(ctx context.Context, couponID uuid.UUID, clientID *uuid.UUID) (int64, int64, error) {
	return 0, 0, nil
}

func (r *fakePromotions) KindCountInWindow(ctx context.Context, locationID uuid.UUID, kind promotion.Kind, since time.Time) (int64, error) {
	return 0, nil
}

func (r *fakePromotions) GiftCardForUpdate(ctx context.Context, id uuid.UUID) (*promotion.GiftCard, error) {
	return nil, notFound()
}

func (r *fakePromotions) SaveGiftCard(ctx context.Context, g *promotion.GiftCard) error { return nil }

type fakeSettlements struct{ s *fakeStore }

func (r *fakeSettlements) UpsertReceivable(ctx context.Context, bookingID uuid.UUID, amount booking.Money, status booking.ReceivableStatus) error {
	r.s.receivables[bookingID] = receivableRow{amount: amount, status: status}
	return nil
}

func (r *fakeSettlements) UpsertReceipt(ctx context.Context, bookingID uuid.UUID, amount booking.Money, status booking.ReceiptStatus) (booking.ReceiptStatus, error) {
	prev := booking.ReceiptStatusPending
	if row, ok := r.s.receipts[bookingID]; ok {
		prev = row.status
	}
	r.s.receipts[bookingID] = receiptRow{amount: amount, status: status}
	return prev, nil
}

func (r *fakeSettlements) ReceiptStatusByBooking(ctx context.Context, bookingID uuid.UUID) (booking.ReceiptStatus, error) {
	row, ok := r.s.receipts[bookingID]
	if !ok {
		return "", notFound()
	}
	return row.status, nil
}

func (r *fakeSettlements) ReverseByBooking(ctx context.Context, bookingID uuid.UUID) error {
	if row, ok := r.s.receivables[bookingID]; ok {
		row.status = booking.ReceivableStatusReversed
		r.s.receivables[bookingID] = row
	}
	if row, ok := r.s.receipts[bookingID]; ok {
		row.status = booking.ReceiptStatusReversed
		r.s.receipts[bookingID] = row
	}
	return nil
}

type fakeStock struct{ s *fakeStore }

func (r *fakeStock) Adjust(ctx context.Context, locationID uuid.UUID, adj shared.StockAdjustment) error {
	if adj.Direction == shared.StockOut {
		if r.s.stock[adj.ProductID] < adj.Quantity {
			return infra.WrapRepoErr("insufficient product stock", nil, infra.KindConflict)
		}
		r.s.stock[adj.ProductID] -= adj.Quantity
	} else {
		r.s.stock[adj.ProductID] += adj.Quantity
	}
	r.s.adjustments = append(r.s.adjustments, adj)
	return nil
}

type fakeLoyalty struct{ s *fakeStore }

func (r *fakeLoyalty) Balance(ctx context.Context, locationID, clientID uuid.UUID) (booking.Money, error) {
	return booking.MustMoney(r.s.balances[clientID]), nil
}

func (r *fakeLoyalty) Credit(ctx context.Context, locationID, clientID uuid.UUID, amount booking.Money) error {
	r.s.balances[clientID] += amount.Cents()
	return nil
}

func (r *fakeLoyalty) Debit(ctx context.Context, locationID, clientID uuid.UUID, amount booking.Money) error {
	if r.s.balances[clientID] < amount.Cents() {
		return errs.New("insufficient cashback balance")
	}
	r.s.balances[clientID] -= amount.Cents()
	return nil
}

func (r *fakeLoyalty) DebitUpTo(ctx context.Context, locationID, clientID uuid.UUID, amount booking.Money) (booking.Money, error) {
	take := amount.Cents()
	if r.s.balances[clientID] < take {
		take = r.s.balances[clientID]
	}
	r.s.balances[clientID] -= take
	return booking.MustMoney(take), nil
}

type fakeNoShows struct{ s *fakeStore }

func (r *fakeNoShows) Record(ctx context.Context, locationID, clientID, bookingID uuid.UUID, at time.Time) error {
	r.s.noShows[clientID]++
	return nil
}

func (r *fakeNoShows) CountByClient(ctx context.Context, locationID, clientID uuid.UUID) (int64, error) {
	return r.s.noShows[clientID], nil
}

type fakeWaitList struct{}

func (r *fakeWaitList) Add(ctx context.Context, e shared.WaitListEntry) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (r *fakeWaitList) Deactivate(ctx context.Context, id uuid.UUID) error { return nil }

type fakeReads struct{ s *fakeStore }

func (r *fakeReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, notFound()
	}
	return &shared.BookingSnapshot{
		ID:             b.ID(),
		LocationID:     b.LocationID(),
		ProfessionalID: b.ProfessionalID(),
		ClientID:       b.ClientID(),
		Status:         r.s.statuses[id],
		StartTime:      b.Slot().Start(),
		ExpectedEnd:    b.Slot().ExpectedEnd(),
	}, nil
}

func (r *fakeReads) ServiceByID(ctx context.Context, id uuid.UUID) (*shared.ServiceSnapshot, error) {
	svc, ok := r.s.services[id]
	if !ok {
		return nil, notFound()
	}
	return &svc, nil
}

func (r *fakeReads) ProductByID(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	prod, ok := r.s.products[id]
	if !ok {
		return nil, notFound()
	}
	return &prod, nil
}

func (r *fakeReads) ProfessionalByID(ctx context.Context, id uuid.UUID) (*shared.ProfessionalSnapshot, error) {
	return nil, notFound()
}

func (r *fakeReads) LocationByID(ctx context.Context, id uuid.UUID) (*shared.LocationSnapshot, error) {
	loc, ok := r.s.locations[id]
	if !ok {
		return nil, notFound()
	}
	return &loc, nil
}

func (r *fakeReads) PaymentByID(ctx context.Context, id uuid.UUID) (*shared.PaymentSnapshot, error) {
	return nil, notFound()
}

func (r *fakeReads) CouponByCode(ctx context.Context, locationID uuid.UUID, code string) (*shared.CouponSnapshot, error) {
	return nil, notFound()
}

func (r *fakeReads) CancellationPolicyByLocation(ctx context.Context, locationID uuid.UUID) (*shared.CancellationPolicySnapshot, error) {
	pol, ok := r.s.policies[locationID]
	if !ok {
		return nil, notFound()
	}
	return &pol, nil
}

func (r *fakeReads) PromotionPolicyByLocation(ctx context.Context, locationID uuid.UUID) (*shared.PromotionPolicySnapshot, error) {
	return nil, notFound()
}

func (r *fakeReads) IsHoliday(ctx context.Context, locationID uuid.UUID, date time.Time) (bool, error) {
	return false, nil
}

func (r *fakeReads) CountBlocksOverlapping(ctx context.Context, locationID, professionalID uuid.UUID, start, end time.Time) (int64, error) {
	return 0, nil
}

type fakeAudit struct {
	events []shared.AuditEvent
}

func (a *fakeAudit) Record(ctx context.Context, e shared.AuditEvent) {
	a.events = append(a.events, e)
}
