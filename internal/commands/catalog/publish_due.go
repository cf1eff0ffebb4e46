package catalogcmd

import (
	"context"

	"github.com/MelodiApp/melodia-backoffice-sub000/internal/commands"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/jobs"
	"github.com/MelodiApp/melodia-backoffice-sub000/pkg/interfaces"
)

const publishDueMessageType = "melodia.catalog.publish_due"

// PublishDueCommand triggers one drain of due publish jobs.
type PublishDueCommand struct{}

// Type implements command.Message.
func (PublishDueCommand) Type() string { return publishDueMessageType }

// Validate implements command.Message; the command carries no payload.
func (PublishDueCommand) Validate() error { return nil }

// PublishDueHandler runs the publish worker over due scheduler jobs.
type PublishDueHandler struct {
	inner *commands.Handler[PublishDueCommand]
}

// NewPublishDueHandler constructs a handler wired to the provided worker.
func NewPublishDueHandler(worker *jobs.Worker, logger interfaces.Logger, opts ...commands.HandlerOption[PublishDueCommand]) *PublishDueHandler {
	exec := func(ctx context.Context, _ PublishDueCommand) error {
		return worker.Process(ctx)
	}

	handlerOpts := []commands.HandlerOption[PublishDueCommand]{
		commands.WithLogger[PublishDueCommand](logger),
		commands.WithOperation[PublishDueCommand]("catalog.publish_due"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishDueHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishDueCommand].
func (h *PublishDueHandler) Execute(ctx context.Context, msg PublishDueCommand) error {
	return h.inner.Execute(ctx, msg)
}
