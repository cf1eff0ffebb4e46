package catalogcmd

import (
	"context"

	melodiacatalog "github.com/MelodiApp/melodia-backoffice-sub000/catalog"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/commands"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/domain"
	"github.com/MelodiApp/melodia-backoffice-sub000/pkg/interfaces"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const scheduleItemMessageType = "melodia.catalog.schedule_item"

// ScheduleItemCommand queues a catalog item for publication at a future
// instant. It is shorthand for a transition into the scheduled state.
type ScheduleItemCommand struct {
	ItemID        uuid.UUID               `json:"item_id"`
	ItemType      melodiacatalog.ItemType `json:"item_type"`
	ScheduledDate string                  `json:"scheduled_date"`
	Actor         string                  `json:"actor"`
}

// Type implements command.Message.
func (ScheduleItemCommand) Type() string { return scheduleItemMessageType }

// Validate ensures required fields and basic payload consistency.
func (m ScheduleItemCommand) Validate() error {
	errs := validation.Errors{}
	if m.ItemID == uuid.Nil {
		errs["item_id"] = validation.NewError("melodia.catalog.schedule_item.item_id_required", "item_id is required")
	}
	if !m.ItemType.IsValid() {
		errs["item_type"] = validation.NewError("melodia.catalog.schedule_item.item_type_invalid", "item_type must be song or collection")
	}
	if err := validation.Validate(m.ScheduledDate, validation.Required); err != nil {
		errs["scheduled_date"] = validation.NewError("melodia.catalog.schedule_item.scheduled_date_required", "scheduled_date is required")
	}
	if err := validation.Validate(m.Actor, validation.Required); err != nil {
		errs["actor"] = validation.NewError("melodia.catalog.schedule_item.actor_required", "actor is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ScheduleItemHandler queues publication via the catalog service.
type ScheduleItemHandler struct {
	inner *commands.Handler[ScheduleItemCommand]
}

// NewScheduleItemHandler constructs a handler wired to the provided catalog service.
func NewScheduleItemHandler(service melodiacatalog.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ScheduleItemCommand]) *ScheduleItemHandler {
	exec := func(ctx context.Context, msg ScheduleItemCommand) error {
		if !gates.schedulingEnabled() {
			return melodiacatalog.ErrSchedulingDisabled
		}
		req := melodiacatalog.ChangeStateRequest{
			ItemID:        msg.ItemID,
			ItemType:      msg.ItemType,
			NewState:      domain.ToWire(domain.StateScheduled),
			ScheduledDate: msg.ScheduledDate,
			Actor:         msg.Actor,
		}
		_, err := service.ChangeState(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[ScheduleItemCommand]{
		commands.WithLogger[ScheduleItemCommand](logger),
		commands.WithOperation[ScheduleItemCommand]("catalog.schedule_item"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ScheduleItemHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ScheduleItemCommand].
func (h *ScheduleItemHandler) Execute(ctx context.Context, msg ScheduleItemCommand) error {
	return h.inner.Execute(ctx, msg)
}
