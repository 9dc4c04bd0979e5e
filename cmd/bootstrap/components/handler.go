package components

import (
	"barberbook/internal/handler"
	"barberbook/internal/handler/api"
	"barberbook/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewCommandaHandler,
		api.NewPaymentHandler,
		api.NewAvailabilityHandler,
		api.NewWaitListHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	booking *api.BookingHandler,
	commanda *api.CommandaHandler,
	payment *api.PaymentHandler,
	availability *api.AvailabilityHandler,
	waitList *api.WaitListHandler,
) handler.Handlers {
	return handler.Handlers{
		Booking:      booking,
		Commanda:     commanda,
		Payment:      payment,
		Availability: availability,
		WaitList:     waitList,
	}
}
