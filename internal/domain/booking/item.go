package booking

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidItemKind   = errors.New("item kind must be service or product")
	ErrInvalidQuantity   = errors.New("item quantity must be at least 1")
	ErrInvalidCommission = errors.New("commission percent must be between 0 and 100")
)

// Pricing carries the optional price adjustments of a line item.
type Pricing struct {
	Discount          *Money
	Fee               *Money
	Justification     *string
	CommissionPercent *float64
}

// Item is a commanda line. The catalog reference is a tagged union: exactly
// one of serviceID/productID is set, decided by the constructor, so a line
// can never point at both or neither.
type Item struct {
	id        uuid.UUID
	kind      ItemKind
	serviceID *uuid.UUID
	productID *uuid.UUID
	quantity  int32
	unitPrice Money
	pricing   Pricing
}

func NewServiceItem(id, serviceID uuid.UUID, quantity int32, unitPrice Money, pricing Pricing) (*Item, error) {
	return newItem(id, ItemKindService, serviceID, quantity, unitPrice, pricing)
}

func NewProductItem(id, productID uuid.UUID, quantity int32, unitPrice Money, pricing Pricing) (*Item, error) {
	return newItem(id, ItemKindProduct, productID, quantity, unitPrice, pricing)
}

func newItem(id uuid.UUID, kind ItemKind, catalogID uuid.UUID, quantity int32, unitPrice Money, pricing Pricing) (*Item, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if pricing.CommissionPercent != nil && (*pricing.CommissionPercent < 0 || *pricing.CommissionPercent > 100) {
		return nil, ErrInvalidCommission
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	it := &Item{
		id:        id,
		kind:      kind,
		quantity:  quantity,
		unitPrice: unitPrice,
		pricing:   pricing,
	}
	switch kind {
	case ItemKindService:
		it.serviceID = &catalogID
	case ItemKindProduct:
		it.productID = &catalogID
	default:
		return nil, ErrInvalidItemKind
	}
	return it, nil
}

// ReconstructItem rebuilds a persisted line without re-running creation
// validation; the row was validated when written.
func ReconstructItem(id uuid.UUID, kind ItemKind, catalogID uuid.UUID, quantity int32, unitPrice Money, pricing Pricing) *Item {
	it := &Item{
		id:        id,
		kind:      kind,
		quantity:  quantity,
		unitPrice: unitPrice,
		pricing:   pricing,
	}
	if kind == ItemKindService {
		it.serviceID = &catalogID
	} else {
		it.productID = &catalogID
	}
	return it
}

func (i *Item) ID() uuid.UUID       { return i.id }
func (i *Item) Kind() ItemKind      { return i.kind }
func (i *Item) Quantity() int32     { return i.quantity }
func (i *Item) UnitPrice() Money    { return i.unitPrice }
func (i *Item) Pricing() Pricing    { return i.pricing }
func (i *Item) IsProduct() bool     { return i.kind == ItemKindProduct }

// ServiceID panics unless the item is a service line; callers switch on
// Kind first.
func (i *Item) ServiceID() uuid.UUID {
	if i.serviceID == nil {
		panic("booking: ServiceID on a product item")
	}
	return *i.serviceID
}

func (i *Item) ProductID() uuid.UUID {
	if i.productID == nil {
		panic("booking: ProductID on a service item")
	}
	return *i.productID
}

// CatalogID returns whichever catalog reference the tag selects.
func (i *Item) CatalogID() uuid.UUID {
	if i.kind == ItemKindService {
		return *i.serviceID
	}
	return *i.productID
}

// Subtotal is (unitPrice − discount + fee) × quantity, with absent discount
// and fee counting as zero. Discounts larger than the unit price clamp the
// per-unit value at zero rather than going negative.
func (i *Item) Subtotal() Money {
	unit := i.unitPrice
	if i.pricing.Discount != nil {
		unit = unit.SubFloor(*i.pricing.Discount)
	}
	if i.pricing.Fee != nil {
		unit = unit.Add(*i.pricing.Fee)
	}
	return Money{cents: unit.cents * int64(i.quantity)}
}

// ItemsTotal is the authoritative commanda total used by reconciliation and
// promotion sizing.
func ItemsTotal(items []*Item) Money {
	var total Money
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
