//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"barberbook/internal/domain/booking"
	"barberbook/internal/pkg/clock"
	"barberbook/internal/usecase/commands"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commandaFixture struct {
	store          *fakeStore
	audit          *fakeAudit
	clk            *clock.MockClock
	uc             commands.CommandaCommands
	locationID     uuid.UUID
	professionalID uuid.UUID
	clientID       uuid.UUID
	serviceID      uuid.UUID
	productID      uuid.UUID
}

func newCommandaFixture() *commandaFixture {
	f := &commandaFixture{
		store:          newFakeStore(),
		audit:          &fakeAudit{},
		clk:            clock.NewMockClock(time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)),
		locationID:     uuid.New(),
		professionalID: uuid.New(),
		clientID:       uuid.New(),
		serviceID:      uuid.New(),
		productID:      uuid.New(),
	}
	f.store.locations[f.locationID] = shared.LocationSnapshot{
		ID:       f.locationID,
		Name:     "Downtown",
		Timezone: "UTC",
	}
	f.store.services[f.serviceID] = shared.ServiceSnapshot{
		ID:          f.serviceID,
		LocationID:  f.locationID,
		Name:        "Haircut",
		PriceCents:  5000,
		DurationMin: 60,
		Active:      true,
	}
	f.store.products[f.productID] = shared.ProductSnapshot{
		ID:         f.productID,
		LocationID: f.locationID,
		Name:       "Pomade",
		PriceCents: 1750,
		Active:     true,
	}
	f.store.stock[f.productID] = 10
	f.uc = commands.NewCommandaUseCase(&fakeUow{s: f.store}, f.clk, f.audit)
	return f
}

func (f *commandaFixture) seedBooking(t *testing.T, status booking.Status) uuid.UUID {
	t.Helper()
	start := f.clk.Now().Add(24 * time.Hour)
	slot, err := booking.NewTimeSlot(start, start.Add(time.Hour))
	require.NoError(t, err)

	id := uuid.New()
	f.store.bookings[id] = booking.ReconstructBooking(
		id, f.professionalID, f.locationID, &f.clientID, slot, status, f.clk.Now(), f.clk.Now(),
	)
	f.store.statuses[id] = status
	return id
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("service item takes the catalog price and defaults quantity", func(t *testing.T) {
		f := newCommandaFixture()
		id := f.seedBooking(t, booking.StatusPending)

		itemID, err := f.uc.AddItem(ctx, id, commands.AddItemRequest{
			Kind:      booking.ItemKindService,
			CatalogID: f.serviceID,
		})

		require.NoError(t, err)
		items := f.store.items[id]
		require.Len(t, items, 1)
		assert.Equal(t, itemID, items[0].ID())
		assert.Equal(t, int32(1), items[0].Quantity())
		assert.Equal(t, int64(5000), items[0].Subtotal().Cents())
		assert.Equal(t, booking.ReceivableStatusPending, f.store.receivables[id].status)
		assert.Equal(t, int64(5000), f.store.receivables[id].amount.Cents())

		require.Len(t, f.audit.events, 1)
		assert.Equal(t, "commanda.item_added", f.audit.events[0].Action)
	})

	t.Run("product item debits stock", func(t *testing.T) {
		f := newCommandaFixture()
		id := f.seedBooking(t, booking.StatusPending)

		_, err := f.uc.AddItem(ctx, id, commands.AddItemRequest{
			Kind:      booking.ItemKindProduct,
			CatalogID: f.productID,
			Quantity:  2,
		})

		require.NoError(t, err)
		assert.Equal(t, int32(8), f.store.stock[f.productID])
		require.Len(t, f.store.adjustments, 1)
		assert.Equal(t, shared.StockOut, f.store.adjustments[0].Direction)
		assert.Equal(t, "booking_item_added", f.store.adjustments[0].Reason)
	})

	t.Run("selling past on-hand stock is rejected", func(t *testing.T) {
		f := newCommandaFixture()
		f.store.stock[f.productID] = 1
		id := f.seedBooking(t, booking.StatusPending)

		_, err := f.uc.AddItem(ctx, id, commands.AddItemRequest{
			Kind:      booking.ItemKindProduct,
			CatalogID: f.productID,
			Quantity:  2,
		})

		require.ErrorIs(t, err, commands.ErrInsufficientStock)
		assert.Equal(t, int32(1), f.store.stock[f.productID])
		assert.Empty(t, f.audit.events)
	})

	t.Run("catalog entry from another location is rejected", func(t *testing.T) {
		f := newCommandaFixture()
		prod := f.store.products[f.productID]
		prod.LocationID = uuid.New()
		f.store.products[f.productID] = prod
		id := f.seedBooking(t, booking.StatusPending)

		_, err := f.uc.AddItem(ctx, id, commands.AddItemRequest{
			Kind:      booking.ItemKindProduct,
			CatalogID: f.productID,
			Quantity:  1,
		})

		require.ErrorIs(t, err, commands.ErrCatalogWrongLocation)
	})

	t.Run("terminal booking is frozen", func(t *testing.T) {
		f := newCommandaFixture()
		id := f.seedBooking(t, booking.StatusCompleted)

		_, err := f.uc.AddItem(ctx, id, commands.AddItemRequest{
			Kind:      booking.ItemKindService,
			CatalogID: f.serviceID,
		})

		require.ErrorIs(t, err, commands.ErrBookingFrozen)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("removing a product line nets a zero stock delta", func(t *testing.T) {
		f := newCommandaFixture()
		id := f.seedBooking(t, booking.StatusPending)

		itemID, err := f.uc.AddItem(ctx, id, commands.AddItemRequest{
			Kind:      booking.ItemKindProduct,
			CatalogID: f.productID,
			Quantity:  3,
		})
		require.NoError(t, err)
		require.Equal(t, int32(7), f.store.stock[f.productID])

		require.NoError(t, f.uc.RemoveItem(ctx, id, itemID))

		assert.Equal(t, int32(10), f.store.stock[f.productID])
		assert.Empty(t, f.store.items[id])
		assert.Zero(t, f.store.receivables[id].amount.Cents())
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newCommandaFixture()
		id := f.seedBooking(t, booking.StatusPending)

		err := f.uc.RemoveItem(ctx, id, uuid.New())

		require.ErrorIs(t, err, commands.ErrItemNotFound)
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("raising the quantity debits only the difference", func(t *testing.T) {
		f := newCommandaFixture()
		id := f.seedBooking(t, booking.StatusPending)

		itemID, err := f.uc.AddItem(ctx, id, commands.AddItemRequest{
			Kind:      booking.ItemKindProduct,
			CatalogID: f.productID,
			Quantity:  2,
		})
		require.NoError(t, err)

		qty := int32(5)
		require.NoError(t, f.uc.UpdateItem(ctx, id, itemID, commands.UpdateItemRequest{Quantity: &qty}))

		assert.Equal(t, int32(5), f.store.stock[f.productID])
		items := f.store.items[id]
		require.Len(t, items, 1)
		assert.Equal(t, int32(5), items[0].Quantity())
	})

	t.Run("raising the quantity past on-hand stock is rejected", func(t *testing.T) {
		f := newCommandaFixture()
		f.store.stock[f.productID] = 3
		id := f.seedBooking(t, booking.StatusPending)

		itemID, err := f.uc.AddItem(ctx, id, commands.AddItemRequest{
			Kind:      booking.ItemKindProduct,
			CatalogID: f.productID,
			Quantity:  2,
		})
		require.NoError(t, err)

		qty := int32(6)
		err = f.uc.UpdateItem(ctx, id, itemID, commands.UpdateItemRequest{Quantity: &qty})

		require.ErrorIs(t, err, commands.ErrInsufficientStock)
	})
}
