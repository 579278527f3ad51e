package autoroll

import (
	"context"

	"github.com/osse101/FumoBot_Go/internal/logger"
)

// Notification is handed to the presentation layer on every FSM output.
type Notification struct {
	Output  Output
	Summary Summary
}

// Presenter delivers session notifications to the user. Rendering lives outside the engine.
type Presenter interface {
	Present(ctx context.Context, n Notification) error
}

// LogPresenter writes notifications to the structured log.
type LogPresenter struct{}

func (LogPresenter) Present(ctx context.Context, n Notification) error {
	logger.FromContext(ctx).Info(LogMsgNotificationPresent,
		"user_id", n.Summary.UserID,
		"session_id", n.Summary.SessionID,
		"kind", string(n.Output.Kind),
		"reason", string(n.Output.Reason),
		"batches", n.Summary.Batches,
		"rolls", n.Summary.Rolls)
	return nil
}
