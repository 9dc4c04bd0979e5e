package response

import (
	"time"

	"barberbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID               uuid.UUID           `json:"id"`
	LocationID       uuid.UUID           `json:"locationId"`
	ProfessionalID   uuid.UUID           `json:"professionalId"`
	ProfessionalName string              `json:"professionalName"`
	ClientID         *uuid.UUID          `json:"clientId,omitempty"`
	ClientName       *string             `json:"clientName,omitempty"`
	StartTime        time.Time           `json:"startTime"`
	ExpectedEnd      time.Time           `json:"expectedEnd"`
	Status           string              `json:"status"`
	Items            []*ItemResponse     `json:"items"`
	Payments         []*PaymentResponse  `json:"payments"`
	Settlement       *SettlementResponse `json:"settlement,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

type ItemResponse struct {
	ID                uuid.UUID `json:"id"`
	Kind              string    `json:"kind"`
	CatalogID         uuid.UUID `json:"catalogId"`
	CatalogName       string    `json:"catalogName"`
	Quantity          int32     `json:"quantity"`
	UnitPriceCents    int64     `json:"unitPriceCents"`
	DiscountCents     *int64    `json:"discountCents,omitempty"`
	FeeCents          *int64    `json:"feeCents,omitempty"`
	Justification     *string   `json:"justification,omitempty"`
	CommissionPercent *float64  `json:"commissionPercent,omitempty"`
	SubtotalCents     int64     `json:"subtotalCents"`
}

type PaymentResponse struct {
	ID              uuid.UUID  `json:"id"`
	PaymentMethodID uuid.UUID  `json:"paymentMethodId"`
	MethodName      string     `json:"methodName"`
	AmountCents     int64      `json:"amountCents"`
	PaidAt          time.Time  `json:"paidAt"`
	Note            *string    `json:"note,omitempty"`
	PromotionKind   *string    `json:"promotionKind,omitempty"`
	PromotionCents  *int64     `json:"promotionCents,omitempty"`
	InstrumentID    *uuid.UUID `json:"instrumentId,omitempty"`
}

type SettlementResponse struct {
	TotalCents       int64  `json:"totalCents"`
	PaidCents        int64  `json:"paidCents"`
	ReceivableStatus string `json:"receivableStatus"`
	ReceiptStatus    string `json:"receiptStatus"`
	OutstandingCents int64  `json:"outstandingCents"`
}

type BookingListItemResponse struct {
	ID               uuid.UUID  `json:"id"`
	ProfessionalID   uuid.UUID  `json:"professionalId"`
	ProfessionalName string     `json:"professionalName"`
	ClientID         *uuid.UUID `json:"clientId,omitempty"`
	StartTime        time.Time  `json:"startTime"`
	ExpectedEnd      time.Time  `json:"expectedEnd"`
	Status           string     `json:"status"`
	TotalCents       int64      `json:"totalCents"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type BookingListResponse struct {
	Items      []*BookingListItemResponse `json:"items"`
	NextCursor *string                    `json:"nextCursor,omitempty"`
}

func FromBookingView(view *queries.BookingView) (*BookingResponse, error) {
	var resp BookingResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromBookingList(items []*queries.BookingListItem, next *queries.Cursor) (*BookingListResponse, error) {
	resp := &BookingListResponse{Items: []*BookingListItemResponse{}}
	if err := copier.Copy(&resp.Items, &items); err != nil {
		return nil, err
	}
	if next != nil {
		resp.NextCursor = &next.After
	}
	return resp, nil
}
