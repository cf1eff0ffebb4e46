package lifecycle

import (
	"errors"
	"strings"
	"time"

	"github.com/MelodiApp/melodia-backoffice-sub000/internal/datetime"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/domain"
)

var (
	// ErrSelfTransition indicates the proposed state equals the current state.
	ErrSelfTransition = errors.New("transition not permitted")
	// ErrTransitionNotAllowed indicates no rule covers the requested edge.
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	// ErrReasonRequired indicates the governing rule demands a reason.
	ErrReasonRequired = errors.New("a reason is required for this transition")
	// ErrScheduleDateRequired indicates the governing rule demands a schedule date.
	ErrScheduleDateRequired = errors.New("a scheduled date is required")
	// ErrScheduleDateNotFuture indicates the supplied schedule date is not strictly after now.
	ErrScheduleDateNotFuture = errors.New("the scheduled date must be in the future")
)

// Validation is the structured verdict for a proposed transition. Err is nil
// when Valid is true; its message is ready for a confirmation dialog.
type Validation struct {
	Valid bool
	Err   error
}

// Error returns the display message for a rejected transition, or "".
func (v Validation) Error() string {
	if v.Valid || v.Err == nil {
		return ""
	}
	return v.Err.Error()
}

// TransitionData carries the auxiliary fields submitted with a transition.
// ScheduledDate accepts RFC 3339 instants and the datetime-local form format.
type TransitionData struct {
	Reason        string
	ScheduledDate string
}

// Validator decides whether a lifecycle transition is legal and whether the
// submitted data satisfies the governing rule. It is pure and safe for
// concurrent use.
type Validator struct {
	now func() time.Time
}

// Option configures the validator.
type Option func(*Validator)

// WithClock overrides the clock used for schedule-date checks (tests mostly).
func WithClock(clock func() time.Time) Option {
	return func(v *Validator) {
		if clock != nil {
			v.now = clock
		}
	}
}

// New constructs a transition validator.
func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateTransition applies the full decision procedure for moving an item
// from one state to another. It never panics; every rejection carries a
// human-readable error.
func (v *Validator) ValidateTransition(from, to domain.State, data TransitionData) Validation {
	// Same-state requests are rejected before the table is consulted: the
	// wildcard rules would otherwise admit a published->published no-op.
	if from == to {
		return Validation{Err: ErrSelfTransition}
	}

	rule, ok := ruleFor(from, to)
	if !ok {
		return Validation{Err: ErrTransitionNotAllowed}
	}

	if rule.RequiresReason && strings.TrimSpace(data.Reason) == "" {
		return Validation{Err: ErrReasonRequired}
	}

	scheduled := strings.TrimSpace(data.ScheduledDate)
	if rule.RequiresScheduleDate && scheduled == "" {
		return Validation{Err: ErrScheduleDateRequired}
	}

	// Any supplied date is time-checked even when the rule does not require
	// one. Malformed input yields the zero instant and fails the check.
	if scheduled != "" {
		at, err := datetime.ParseInstant(scheduled)
		if err != nil || !at.After(v.now()) {
			return Validation{Err: ErrScheduleDateNotFuture}
		}
	}

	return Validation{Valid: true}
}

// IsTransitionAllowed reports whether an edge exists for the pair, ignoring
// reason and schedule-date requirements. Used to pre-filter UI options.
func (v *Validator) IsTransitionAllowed(from, to domain.State) bool {
	if from == to {
		return false
	}
	_, ok := ruleFor(from, to)
	return ok
}

// Destinations lists the states reachable from the supplied state per the
// rule table, preserving table order and excluding the state itself.
func (v *Validator) Destinations(from domain.State) []domain.State {
	seen := make(map[domain.State]struct{}, len(transitionRules))
	var out []domain.State
	for _, rule := range transitionRules {
		if rule.To == from || !rule.From.Matches(from) {
			continue
		}
		if _, dup := seen[rule.To]; dup {
			continue
		}
		seen[rule.To] = struct{}{}
		out = append(out, rule.To)
	}
	return out
}
