package request

import (
	"barberbook/internal/domain/promotion"
	"barberbook/internal/usecase/commands"

	"github.com/google/uuid"
)

type RecordPaymentRequest struct {
	PaymentMethodID uuid.UUID  `json:"paymentMethodId" binding:"required"`
	AmountCents     int64      `json:"amountCents" binding:"required,gt=0"`
	Note            *string    `json:"note"`
	CouponCode      *string    `json:"couponCode"`
	GiftCardID      *uuid.UUID `json:"giftCardId"`
	CashbackCents   *int64     `json:"cashbackCents" binding:"omitempty,gt=0"`
}

func (r *RecordPaymentRequest) ToParams() commands.RecordPaymentRequest {
	return commands.RecordPaymentRequest{
		PaymentMethodID: r.PaymentMethodID,
		AmountCents:     r.AmountCents,
		Note:            r.Note,
		Instrument: promotion.Instrument{
			CouponCode:    r.CouponCode,
			GiftCardID:    r.GiftCardID,
			CashbackCents: r.CashbackCents,
		},
	}
}
