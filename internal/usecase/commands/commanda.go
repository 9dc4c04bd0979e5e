package commands

import (
	"context"

	"barberbook/internal/domain/booking"
	"barberbook/internal/infra"
	"barberbook/internal/pkg/clock"
	"barberbook/internal/pkg/errs"
	"barberbook/internal/pkg/patch"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound      = errs.New("booking not found")
	ErrBookingFrozen        = errs.New("booking is terminal and cannot be mutated")
	ErrItemNotFound         = errs.New("booking item not found")
	ErrServiceNotFound      = errs.New("service not found")
	ErrProductNotFound      = errs.New("product not found")
	ErrCatalogWrongLocation = errs.New("catalog entry belongs to a different location")
	ErrCatalogInactive      = errs.New("catalog entry is inactive")
	ErrInsufficientStock    = errs.New("insufficient product stock")
)

type AddItemRequest struct {
	Kind              booking.ItemKind
	CatalogID         uuid.UUID
	Quantity          int32
	UnitPriceCents    *int64
	DiscountCents     *int64
	FeeCents          *int64
	Justification     *string
	CommissionPercent *float64
}

type UpdateItemRequest struct {
	Kind              *booking.ItemKind
	CatalogID         *uuid.UUID
	Quantity          *int32
	UnitPriceCents    *int64
	DiscountCents     *int64
	FeeCents          *int64
	Justification     *string
	CommissionPercent *float64
}

type CommandaCommands interface {
	AddItem(ctx context.Context, bookingID uuid.UUID, req AddItemRequest) (uuid.UUID, error)
	UpdateItem(ctx context.Context, bookingID, itemID uuid.UUID, req UpdateItemRequest) error
	RemoveItem(ctx context.Context, bookingID, itemID uuid.UUID) error
}

type commandaUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	audit shared.AuditSink
}

func NewCommandaUseCase(uow shared.UnitOfWork, clk clock.Clock, audit shared.AuditSink) CommandaCommands {
	return &commandaUseCaseImpl{uow: uow, clock: clk, audit: audit}
}

// catalogEntry is the location-checked price/commission resolution shared by
// add and update.
type catalogEntry struct {
	priceCents        int64
	commissionPercent *float64
}

func resolveCatalog(ctx context.Context, tx shared.Tx, snap *shared.BookingSnapshot, kind booking.ItemKind, catalogID uuid.UUID) (*catalogEntry, error) {
	switch kind {
	case booking.ItemKindService:
		svc, err := tx.Reads().ServiceByID(ctx, catalogID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrServiceNotFound
			}
			return nil, err
		}
		if svc.LocationID != snap.LocationID {
			return nil, ErrCatalogWrongLocation
		}
		if !svc.Active {
			return nil, ErrCatalogInactive
		}
		commission := svc.CommissionPercent
		if commission == nil {
			prof, err := tx.Reads().ProfessionalByID(ctx, snap.ProfessionalID)
			if err == nil {
				commission = prof.CommissionPercent
			} else if !infra.IsKind(err, infra.KindNotFound) {
				return nil, err
			}
		}
		return &catalogEntry{priceCents: svc.PriceCents, commissionPercent: commission}, nil

	case booking.ItemKindProduct:
		prod, err := tx.Reads().ProductByID(ctx, catalogID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		if prod.LocationID != snap.LocationID {
			return nil, ErrCatalogWrongLocation
		}
		if !prod.Active {
			return nil, ErrCatalogInactive
		}
		return &catalogEntry{priceCents: prod.PriceCents}, nil

	default:
		return nil, errs.Mark(booking.ErrInvalidItemKind, ErrDomainValidation)
	}
}

func buildPricing(discountCents, feeCents *int64, justification *string, commissionPercent *float64) (booking.Pricing, error) {
	var pricing booking.Pricing
	if discountCents != nil {
		m, err := booking.NewMoney(*discountCents)
		if err != nil {
			return booking.Pricing{}, errs.Mark(err, ErrDomainValidation)
		}
		pricing.Discount = &m
	}
	if feeCents != nil {
		m, err := booking.NewMoney(*feeCents)
		if err != nil {
			return booking.Pricing{}, errs.Mark(err, ErrDomainValidation)
		}
		pricing.Fee = &m
	}
	pricing.Justification = justification
	pricing.CommissionPercent = commissionPercent
	return pricing, nil
}

func (uc *commandaUseCaseImpl) AddItem(ctx context.Context, bookingID uuid.UUID, req AddItemRequest) (uuid.UUID, error) {
	var createdID uuid.UUID
	var locationID uuid.UUID

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := mutableBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		locationID = snap.LocationID

		entry, derr := resolveCatalog(ctx, tx, snap, req.Kind, req.CatalogID)
		if derr != nil {
			return derr
		}

		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}
		unitPrice, derr := booking.NewMoney(patch.Coalesce(req.UnitPriceCents, entry.priceCents))
		if derr != nil {
			return errs.Mark(derr, ErrDomainValidation)
		}
		commission := req.CommissionPercent
		if commission == nil {
			commission = entry.commissionPercent
		}
		pricing, derr := buildPricing(req.DiscountCents, req.FeeCents, req.Justification, commission)
		if derr != nil {
			return derr
		}

		var item *booking.Item
		if req.Kind == booking.ItemKindService {
			item, derr = booking.NewServiceItem(uuid.Nil, req.CatalogID, quantity, unitPrice, pricing)
		} else {
			item, derr = booking.NewProductItem(uuid.Nil, req.CatalogID, quantity, unitPrice, pricing)
		}
		if derr != nil {
			return errs.Mark(derr, ErrDomainValidation)
		}

		id, derr := tx.Items().Create(ctx, bookingID, item)
		if derr != nil {
			return derr
		}
		createdID = id

		if item.IsProduct() {
			itemID := item.ID()
			if derr = tx.Stock().Adjust(ctx, snap.LocationID, shared.StockAdjustment{
				ProductID: item.ProductID(),
				Direction: shared.StockOut,
				Quantity:  item.Quantity(),
				Reason:    "booking_item_added",
				RefID:     &itemID,
			}); derr != nil {
				if infra.IsKind(derr, infra.KindConflict) {
					return errs.Mark(derr, ErrInsufficientStock)
				}
				return derr
			}
		}

		return reconcileBooking(ctx, tx, bookingID, snap.LocationID, snap.ClientID, uc.clock.Now())
	})
	if err != nil {
		return uuid.Nil, err
	}

	uc.audit.Record(ctx, shared.AuditEvent{
		LocationID: locationID,
		Action:     "commanda.item_added",
		EntityID:   bookingID,
		Detail:     map[string]any{"item_id": createdID, "kind": string(req.Kind)},
	})
	return createdID, nil
}

func (uc *commandaUseCaseImpl) UpdateItem(ctx context.Context, bookingID, itemID uuid.UUID, req UpdateItemRequest) error {
	var locationID uuid.UUID

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := mutableBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		locationID = snap.LocationID

		current, derr := findItem(ctx, tx, bookingID, itemID)
		if derr != nil {
			return derr
		}

		// Credit the old product quantity back first so kind or catalog
		// changes still produce a correct net stock delta.
		if current.IsProduct() {
			refID := current.ID()
			if derr = tx.Stock().Adjust(ctx, snap.LocationID, shared.StockAdjustment{
				ProductID: current.ProductID(),
				Direction: shared.StockIn,
				Quantity:  current.Quantity(),
				Reason:    "booking_item_updated",
				RefID:     &refID,
			}); derr != nil {
				return derr
			}
		}

		kind := patch.Coalesce(req.Kind, current.Kind())
		catalogID := patch.Coalesce(req.CatalogID, current.CatalogID())
		catalogChanged := kind != current.Kind() || catalogID != current.CatalogID()

		entry, derr := resolveCatalog(ctx, tx, snap, kind, catalogID)
		if derr != nil {
			return derr
		}

		quantity := patch.Coalesce(req.Quantity, current.Quantity())

		unitPriceCents := current.UnitPrice().Cents()
		if catalogChanged {
			unitPriceCents = entry.priceCents
		}
		unitPrice, derr := booking.NewMoney(patch.Coalesce(req.UnitPriceCents, unitPriceCents))
		if derr != nil {
			return errs.Mark(derr, ErrDomainValidation)
		}

		cur := current.Pricing()
		discountCents := req.DiscountCents
		if discountCents == nil && cur.Discount != nil {
			c := cur.Discount.Cents()
			discountCents = &c
		}
		feeCents := req.FeeCents
		if feeCents == nil && cur.Fee != nil {
			c := cur.Fee.Cents()
			feeCents = &c
		}
		justification := req.Justification
		if justification == nil {
			justification = cur.Justification
		}
		commission := req.CommissionPercent
		if commission == nil {
			commission = cur.CommissionPercent
		}
		pricing, derr := buildPricing(discountCents, feeCents, justification, commission)
		if derr != nil {
			return derr
		}

		var updated *booking.Item
		if kind == booking.ItemKindService {
			updated, derr = booking.NewServiceItem(itemID, catalogID, quantity, unitPrice, pricing)
		} else {
			updated, derr = booking.NewProductItem(itemID, catalogID, quantity, unitPrice, pricing)
		}
		if derr != nil {
			return errs.Mark(derr, ErrDomainValidation)
		}

		if derr = tx.Items().Update(ctx, updated); derr != nil {
			return derr
		}

		if updated.IsProduct() {
			if derr = tx.Stock().Adjust(ctx, snap.LocationID, shared.StockAdjustment{
				ProductID: updated.ProductID(),
				Direction: shared.StockOut,
				Quantity:  updated.Quantity(),
				Reason:    "booking_item_updated",
				RefID:     &itemID,
			}); derr != nil {
				if infra.IsKind(derr, infra.KindConflict) {
					return errs.Mark(derr, ErrInsufficientStock)
				}
				return derr
			}
		}

		return reconcileBooking(ctx, tx, bookingID, snap.LocationID, snap.ClientID, uc.clock.Now())
	})
	if err != nil {
		return err
	}

	uc.audit.Record(ctx, shared.AuditEvent{
		LocationID: locationID,
		Action:     "commanda.item_updated",
		EntityID:   bookingID,
		Detail:     map[string]any{"item_id": itemID},
	})
	return nil
}

func (uc *commandaUseCaseImpl) RemoveItem(ctx context.Context, bookingID, itemID uuid.UUID) error {
	var locationID uuid.UUID

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := mutableBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		locationID = snap.LocationID

		item, derr := findItem(ctx, tx, bookingID, itemID)
		if derr != nil {
			return derr
		}

		if derr = tx.Items().Delete(ctx, itemID); derr != nil {
			return derr
		}

		if item.IsProduct() {
			if derr = tx.Stock().Adjust(ctx, snap.LocationID, shared.StockAdjustment{
				ProductID: item.ProductID(),
				Direction: shared.StockIn,
				Quantity:  item.Quantity(),
				Reason:    "booking_item_removed",
				RefID:     &itemID,
			}); derr != nil {
				return derr
			}
		}

		return reconcileBooking(ctx, tx, bookingID, snap.LocationID, snap.ClientID, uc.clock.Now())
	})
	if err != nil {
		return err
	}

	uc.audit.Record(ctx, shared.AuditEvent{
		LocationID: locationID,
		Action:     "commanda.item_removed",
		EntityID:   bookingID,
		Detail:     map[string]any{"item_id": itemID},
	})
	return nil
}

func mutableBooking(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (*shared.BookingSnapshot, error) {
	snap, err := tx.Reads().BookingByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if snap.Status.IsTerminal() {
		return nil, ErrBookingFrozen
	}
	return snap, nil
}

func findItem(ctx context.Context, tx shared.Tx, bookingID, itemID uuid.UUID) (*booking.Item, error) {
	items, err := tx.Items().ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID() == itemID {
			return it, nil
		}
	}
	return nil, ErrItemNotFound
}
