package components

import (
	"barberbook/internal/pkg/clock"
	"barberbook/internal/pkg/config"
	"barberbook/internal/usecase/commands"
	"barberbook/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) commands.PolicyDefaults {
		return commands.NewPolicyDefaults(cfg.Booking)
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
		commands.NewCommandaUseCase,
		commands.NewPaymentUseCase,
		commands.NewLifecycleUseCase,
		commands.NewWaitListUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewPaymentQueries,
		queries.NewWaitListQueries,
		func(repo queries.AvailabilityViewRepo, cfg config.Config) queries.AvailabilityQueries {
			return queries.NewAvailabilityQueries(repo, cfg.Booking.DefaultSlotGranularityMin)
		},
	),
)
