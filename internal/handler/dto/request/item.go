package request

import (
	"barberbook/internal/domain/booking"
	"barberbook/internal/usecase/commands"

	"github.com/google/uuid"
)

type AddItemRequest struct {
	Kind              string    `json:"kind" binding:"required,oneof=service product"`
	CatalogID         uuid.UUID `json:"catalogId" binding:"required"`
	Quantity          int32     `json:"quantity" binding:"omitempty,gt=0"`
	UnitPriceCents    *int64    `json:"unitPriceCents" binding:"omitempty,gte=0"`
	DiscountCents     *int64    `json:"discountCents" binding:"omitempty,gte=0"`
	FeeCents          *int64    `json:"feeCents" binding:"omitempty,gte=0"`
	Justification     *string   `json:"justification"`
	CommissionPercent *float64  `json:"commissionPercent" binding:"omitempty,gte=0,lte=100"`
}

func (r *AddItemRequest) ToParams() commands.AddItemRequest {
	return commands.AddItemRequest{
		Kind:              booking.ItemKind(r.Kind),
		CatalogID:         r.CatalogID,
		Quantity:          r.Quantity,
		UnitPriceCents:    r.UnitPriceCents,
		DiscountCents:     r.DiscountCents,
		FeeCents:          r.FeeCents,
		Justification:     r.Justification,
		CommissionPercent: r.CommissionPercent,
	}
}

type UpdateItemRequest struct {
	Kind              *string    `json:"kind" binding:"omitempty,oneof=service product"`
	CatalogID         *uuid.UUID `json:"catalogId"`
	Quantity          *int32     `json:"quantity" binding:"omitempty,gt=0"`
	UnitPriceCents    *int64     `json:"unitPriceCents" binding:"omitempty,gte=0"`
	DiscountCents     *int64     `json:"discountCents" binding:"omitempty,gte=0"`
	FeeCents          *int64     `json:"feeCents" binding:"omitempty,gte=0"`
	Justification     *string    `json:"justification"`
	CommissionPercent *float64   `json:"commissionPercent" binding:"omitempty,gte=0,lte=100"`
}

func (r *UpdateItemRequest) ToParams() commands.UpdateItemRequest {
	var kind *booking.ItemKind
	if r.Kind != nil {
		k := booking.ItemKind(*r.Kind)
		kind = &k
	}
	return commands.UpdateItemRequest{
		Kind:              kind,
		CatalogID:         r.CatalogID,
		Quantity:          r.Quantity,
		UnitPriceCents:    r.UnitPriceCents,
		DiscountCents:     r.DiscountCents,
		FeeCents:          r.FeeCents,
		Justification:     r.Justification,
		CommissionPercent: r.CommissionPercent,
	}
}
