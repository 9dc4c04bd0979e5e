package queries

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleClient = "client"
)

// Read models (DTO for read side)
type BookingView struct {
	ID               uuid.UUID       `json:"id"`
	LocationID       uuid.UUID       `json:"location_id"`
	ProfessionalID   uuid.UUID       `json:"professional_id"`
	ProfessionalName string          `json:"professional_name"`
	ClientID         *uuid.UUID      `json:"client_id,omitempty"`
	ClientName       *string         `json:"client_name,omitempty"`
	StartTime        time.Time       `json:"start_time"`
	ExpectedEnd      time.Time       `json:"expected_end"`
	Status           string          `json:"status"`
	Items            []*ItemView     `json:"items"`
	Payments         []*PaymentView  `json:"payments"`
	Settlement       *SettlementView `json:"settlement,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type BookingListItem struct {
	ID               uuid.UUID  `json:"id"`
	ProfessionalID   uuid.UUID  `json:"professional_id"`
	ProfessionalName string     `json:"professional_name"`
	ClientID         *uuid.UUID `json:"client_id,omitempty"`
	StartTime        time.Time  `json:"start_time"`
	ExpectedEnd      time.Time  `json:"expected_end"`
	Status           string     `json:"status"`
	TotalCents       int64      `json:"total_cents"`
	CreatedAt        time.Time  `json:"created_at"`
}

type ItemView struct {
	ID                uuid.UUID `json:"id"`
	Kind              string    `json:"kind"`
	CatalogID         uuid.UUID `json:"catalog_id"`
	CatalogName       string    `json:"catalog_name"`
	Quantity          int32     `json:"quantity"`
	UnitPriceCents    int64     `json:"unit_price_cents"`
	DiscountCents     *int64    `json:"discount_cents,omitempty"`
	FeeCents          *int64    `json:"fee_cents,omitempty"`
	Justification     *string   `json:"justification,omitempty"`
	CommissionPercent *float64  `json:"commission_percent,omitempty"`
	SubtotalCents     int64     `json:"subtotal_cents"`
}

type PaymentView struct {
	ID              uuid.UUID  `json:"id"`
	PaymentMethodID uuid.UUID  `json:"payment_method_id"`
	MethodName      string     `json:"method_name"`
	AmountCents     int64      `json:"amount_cents"`
	PaidAt          time.Time  `json:"paid_at"`
	Note            *string    `json:"note,omitempty"`
	PromotionKind   *string    `json:"promotion_kind,omitempty"`
	PromotionCents  *int64     `json:"promotion_cents,omitempty"`
	InstrumentID    *uuid.UUID `json:"instrument_id,omitempty"`
}

type SettlementView struct {
	TotalCents       int64  `json:"total_cents"`
	PaidCents        int64  `json:"paid_cents"`
	ReceivableStatus string `json:"receivable_status"`
	ReceiptStatus    string `json:"receipt_status"`
	OutstandingCents int64  `json:"outstanding_cents"`
}

type SlotView struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AvailabilityView struct {
	Date               time.Time   `json:"date"`
	SlotGranularityMin int         `json:"slot_granularity_min"`
	ResolvedServiceID  *uuid.UUID  `json:"resolved_service_id,omitempty"`
	Slots              []*SlotView `json:"slots"`
}

type WorkingWindowView struct {
	ID             uuid.UUID  `json:"id"`
	LocationID     uuid.UUID  `json:"location_id"`
	ProfessionalID *uuid.UUID `json:"professional_id,omitempty"`
	DaysOfWeek     []int      `json:"days_of_week"`
	OpensAt        string     `json:"opens_at"`
	ClosesAt       string     `json:"closes_at"`
	Active         bool       `json:"active"`
}

type BlockView struct {
	ID             uuid.UUID  `json:"id"`
	LocationID     uuid.UUID  `json:"location_id"`
	ProfessionalID *uuid.UUID `json:"professional_id,omitempty"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        time.Time  `json:"end_time"`
	Reason         *string    `json:"reason,omitempty"`
}

type ProfessionalView struct {
	ID         uuid.UUID `json:"id"`
	LocationID uuid.UUID `json:"location_id"`
	Name       string    `json:"name"`
	Active     bool      `json:"active"`
}

type ServiceView struct {
	ID          uuid.UUID `json:"id"`
	LocationID  uuid.UUID `json:"location_id"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"price_cents"`
	DurationMin int32     `json:"duration_min"`
	Active      bool      `json:"active"`
}

type LocationView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Timezone string    `json:"timezone"`
}

type WaitListEntryView struct {
	ID             uuid.UUID  `json:"id"`
	LocationID     uuid.UUID  `json:"location_id"`
	ProfessionalID uuid.UUID  `json:"professional_id"`
	ClientID       *uuid.UUID `json:"client_id,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	DesiredDate    time.Time  `json:"desired_date"`
	Note           *string    `json:"note,omitempty"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
}
