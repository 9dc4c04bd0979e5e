package shared

import (
	"context"
	"time"

	"barberbook/internal/domain/booking"
	"barberbook/internal/domain/promotion"
	"barberbook/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Items() ItemRepository
	Payments() PaymentRepository
	Promotions() PromotionRepository
	Settlements() SettlementRepository
	Stock() StockRepository
	Loyalty() LoyaltyRepository
	NoShows() NoShowRepository
	WaitList() WaitListRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	ServiceByID(ctx context.Context, id uuid.UUID) (*ServiceSnapshot, error)
	ProductByID(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
	ProfessionalByID(ctx context.Context, id uuid.UUID) (*ProfessionalSnapshot, error)
	LocationByID(ctx context.Context, id uuid.UUID) (*LocationSnapshot, error)
	PaymentByID(ctx context.Context, id uuid.UUID) (*PaymentSnapshot, error)
	CouponByCode(ctx context.Context, locationID uuid.UUID, code string) (*CouponSnapshot, error)
	CancellationPolicyByLocation(ctx context.Context, locationID uuid.UUID) (*CancellationPolicySnapshot, error)
	PromotionPolicyByLocation(ctx context.Context, locationID uuid.UUID) (*PromotionPolicySnapshot, error)
	IsHoliday(ctx context.Context, locationID uuid.UUID, date time.Time) (bool, error)
	// CountBlocksOverlapping counts manual blocks (professional-specific or
	// location-wide) that half-open-overlap [start, end).
	CountBlocksOverlapping(ctx context.Context, locationID, professionalID uuid.UUID, start, end time.Time) (int64, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error)
	FindForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// OccupiedSlotsForUpdate locks the professional's non-canceled bookings
	// half-open-overlapping [start, end) and returns their slots.
	OccupiedSlotsForUpdate(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]booking.TimeSlot, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status, now time.Time) error
}

type ItemRepository interface {
	Create(ctx context.Context, bookingID uuid.UUID, item *booking.Item) (uuid.UUID, error)
	Update(ctx context.Context, item *booking.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*booking.Item, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *booking.Payment) (uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*booking.Payment, error)
}

type PromotionRepository interface {
	CreateApplication(ctx context.Context, app *promotion.Application) (uuid.UUID, error)
	ApplicationsByBooking(ctx context.Context, bookingID uuid.UUID) ([]PromotionApplicationSnapshot, error)
	DeleteApplicationsByPayment(ctx context.Context, paymentID uuid.UUID) ([]PromotionApplicationSnapshot, error)
	// CouponUsageCounts returns total recorded applications for the coupon and
	// the subset attributed to the client (zero when clientID is nil).
	CouponUsageCounts(ctx context.Context, couponID uuid.UUID, clientID *uuid.UUID) (global int64, perClient int64, err error)
	// KindCountInWindow counts payment-backed applications of the kind for the
	// location created at or after since. Accrual rows (no payment) are not
	// counted.
	KindCountInWindow(ctx context.Context, locationID uuid.UUID, kind promotion.Kind, since time.Time) (int64, error)
	GiftCardForUpdate(ctx context.Context, id uuid.UUID) (*promotion.GiftCard, error)
	SaveGiftCard(ctx context.Context, g *promotion.GiftCard) error
}

type SettlementRepository interface {
	UpsertReceivable(ctx context.Context, bookingID uuid.UUID, amount booking.Money, status booking.ReceivableStatus) error
	// UpsertReceipt reports the status the receipt held before the write so
	// callers can detect the pending->received edge.
	UpsertReceipt(ctx context.Context, bookingID uuid.UUID, amount booking.Money, status booking.ReceiptStatus) (booking.ReceiptStatus, error)
	// ReceiptStatusByBooking reports not-found when no receipt row exists yet.
	ReceiptStatusByBooking(ctx context.Context, bookingID uuid.UUID) (booking.ReceiptStatus, error)
	ReverseByBooking(ctx context.Context, bookingID uuid.UUID) error
}

type StockRepository interface {
	Adjust(ctx context.Context, locationID uuid.UUID, adj StockAdjustment) error
}

type LoyaltyRepository interface {
	Balance(ctx context.Context, locationID, clientID uuid.UUID) (booking.Money, error)
	Credit(ctx context.Context, locationID, clientID uuid.UUID, amount booking.Money) error
	// Debit fails when the balance cannot cover the amount.
	Debit(ctx context.Context, locationID, clientID uuid.UUID, amount booking.Money) error
	// DebitUpTo clamps at the current balance and reports what was taken.
	DebitUpTo(ctx context.Context, locationID, clientID uuid.UUID, amount booking.Money) (booking.Money, error)
}

type NoShowRepository interface {
	Record(ctx context.Context, locationID, clientID, bookingID uuid.UUID, at time.Time) error
	CountByClient(ctx context.Context, locationID, clientID uuid.UUID) (int64, error)
}

type WaitListRepository interface {
	Add(ctx context.Context, e WaitListEntry) (uuid.UUID, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}
