package shared

import (
	"time"

	"barberbook/internal/domain/booking"
	"barberbook/internal/domain/promotion"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)
type BookingSnapshot struct {
	ID             uuid.UUID
	LocationID     uuid.UUID
	ProfessionalID uuid.UUID
	ClientID       *uuid.UUID
	Status         booking.Status
	StartTime      time.Time
	ExpectedEnd    time.Time
}

type ServiceSnapshot struct {
	ID                uuid.UUID
	LocationID        uuid.UUID
	Name              string
	PriceCents        int64
	DurationMin       int32
	CommissionPercent *float64
	Active            bool
}

type ProductSnapshot struct {
	ID         uuid.UUID
	LocationID uuid.UUID
	Name       string
	PriceCents int64
	Active     bool
}

type ProfessionalSnapshot struct {
	ID                uuid.UUID
	LocationID        uuid.UUID
	Name              string
	CommissionPercent *float64
	Active            bool
}

type LocationSnapshot struct {
	ID                    uuid.UUID
	Name                  string
	Timezone              string
	CashbackActive        bool
	CashbackPercent       float64
	CashbackMinTotalCents int64
}

type PaymentSnapshot struct {
	ID              uuid.UUID
	BookingID       uuid.UUID
	PaymentMethodID uuid.UUID
	AmountCents     int64
	PaidAt          time.Time
}

type CouponSnapshot struct {
	ID             uuid.UUID
	LocationID     uuid.UUID
	Code           string
	PercentOff     float64
	FixedOffCents  int64
	Active         bool
	ExpiresAt      *time.Time
	UsageLimit     *int32
	PerClientLimit *int32
}

type CancellationPolicySnapshot struct {
	LocationID                            uuid.UUID
	MinAdvanceNoticeHours                 int32
	LatePenaltyPercent                    float64
	MaxUnnotifiedCancellationsBeforeBlock int32
}

type PromotionPolicySnapshot struct {
	LocationID                uuid.UUID
	AllowCouponWithCashback   bool
	AllowGiftCardWithCashback bool
	UsageWindowDays           int32
	UsageLimitInWindow        int32
}

type PromotionApplicationSnapshot struct {
	ID           uuid.UUID
	BookingID    uuid.UUID
	PaymentID    *uuid.UUID
	ClientID     *uuid.UUID
	Kind         promotion.Kind
	InstrumentID *uuid.UUID
	AmountCents  int64
	CreatedAt    time.Time
}

type StockDirection string

const (
	StockIn  StockDirection = "in"
	StockOut StockDirection = "out"
)

type StockAdjustment struct {
	ProductID uuid.UUID
	Direction StockDirection
	Quantity  int32
	Reason    string
	RefID     *uuid.UUID
}

type WaitListEntry struct {
	LocationID     uuid.UUID
	ProfessionalID uuid.UUID
	ClientID       *uuid.UUID
	Phone          *string
	DesiredDate    time.Time
	Note           *string
}
