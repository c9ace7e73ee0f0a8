package components

import (
	infranotify "lunchrun/internal/infra/notify"
	"lunchrun/internal/infra/readstore"
	"lunchrun/internal/infra/uow"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		uow.NewPostgresUoW,
		infranotify.NewOutboxPublisher,
		readstore.NewSessionReadStore,
		readstore.NewQuickRunReadStore,
	),
)
