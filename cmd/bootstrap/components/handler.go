package components

import (
	"lunchrun/internal/handler"
	"lunchrun/internal/handler/api"
	"lunchrun/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewDashboardHandler,
		api.NewSessionHandler,
		api.NewProposalHandler,
		api.NewOrderHandler,
		api.NewQuickRunHandler,
		api.NewSweepHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
