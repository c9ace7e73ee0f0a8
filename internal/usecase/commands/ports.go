package commands

import (
	"context"
	"log/slog"

	"lunchrun/internal/infra"
	"lunchrun/internal/notify"
	"lunchrun/internal/pkg/errs"
)

// notFound maps a repository miss to the user-facing taxonomy; anything
// else propagates as an infrastructure failure for that request.
func notFound(err error, msg string) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(errs.New(msg), errs.ErrNotFound)
	}
	return err
}

// publish delivers one post-commit event. Notification side effects are
// fire-and-forget from the state machine's perspective: failure is logged,
// never returned.
func publish(ctx context.Context, pub notify.Publisher, ev notify.Event) {
	if err := pub.Publish(ctx, ev); err != nil {
		slog.Warn("failed to enqueue notification",
			"kind", ev.Kind,
			"entity_id", ev.EntityID.String(),
			"error", err.Error())
	}
}
