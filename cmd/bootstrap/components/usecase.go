package components

import (
	"lunchrun/internal/pkg/clock"
	"lunchrun/internal/pkg/config"
	"lunchrun/internal/usecase/commands"
	"lunchrun/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.AppConfig {
		return cfg.App
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewSessionCommands,
		commands.NewProposalCommands,
		commands.NewOrderCommands,
		commands.NewQuickRunCommands,
		commands.NewSweepCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewDashboardQueries,
		queries.NewQuickRunQueries,
	),
)
