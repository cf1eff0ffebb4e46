package catalogcmd

import (
	"context"

	melodiacatalog "github.com/MelodiApp/melodia-backoffice-sub000/catalog"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/commands"
	"github.com/MelodiApp/melodia-backoffice-sub000/pkg/interfaces"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const changeStateMessageType = "melodia.catalog.change_state"

// ChangeStateCommand requests a lifecycle transition for a catalog item.
type ChangeStateCommand struct {
	ItemID        uuid.UUID               `json:"item_id"`
	ItemType      melodiacatalog.ItemType `json:"item_type"`
	NewState      string                  `json:"new_state"`
	Reason        string                  `json:"reason,omitempty"`
	ScheduledDate string                  `json:"scheduled_date,omitempty"`
	Actor         string                  `json:"actor"`
}

// Type implements command.Message.
func (ChangeStateCommand) Type() string { return changeStateMessageType }

// Validate ensures required fields and basic payload consistency.
func (m ChangeStateCommand) Validate() error {
	errs := validation.Errors{}
	if m.ItemID == uuid.Nil {
		errs["item_id"] = validation.NewError("melodia.catalog.change_state.item_id_required", "item_id is required")
	}
	if !m.ItemType.IsValid() {
		errs["item_type"] = validation.NewError("melodia.catalog.change_state.item_type_invalid", "item_type must be song or collection")
	}
	if err := validation.Validate(m.NewState, validation.Required); err != nil {
		errs["new_state"] = validation.NewError("melodia.catalog.change_state.new_state_required", "new_state is required")
	}
	if err := validation.Validate(m.Actor, validation.Required); err != nil {
		errs["actor"] = validation.NewError("melodia.catalog.change_state.actor_required", "actor is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ChangeStateHandler coordinates lifecycle transitions via the catalog service.
type ChangeStateHandler struct {
	inner *commands.Handler[ChangeStateCommand]
}

// NewChangeStateHandler constructs a handler wired to the provided catalog service.
func NewChangeStateHandler(service melodiacatalog.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ChangeStateCommand]) *ChangeStateHandler {
	exec := func(ctx context.Context, msg ChangeStateCommand) error {
		if msg.ScheduledDate != "" && !gates.schedulingEnabled() {
			return melodiacatalog.ErrSchedulingDisabled
		}
		req := melodiacatalog.ChangeStateRequest{
			ItemID:        msg.ItemID,
			ItemType:      msg.ItemType,
			NewState:      msg.NewState,
			Reason:        msg.Reason,
			ScheduledDate: msg.ScheduledDate,
			Actor:         msg.Actor,
		}
		_, err := service.ChangeState(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[ChangeStateCommand]{
		commands.WithLogger[ChangeStateCommand](logger),
		commands.WithOperation[ChangeStateCommand]("catalog.change_state"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ChangeStateHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ChangeStateCommand].
func (h *ChangeStateHandler) Execute(ctx context.Context, msg ChangeStateCommand) error {
	return h.inner.Execute(ctx, msg)
}
