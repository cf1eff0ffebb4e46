package lifecycle

import "github.com/MelodiApp/melodia-backoffice-sub000/internal/domain"

// StateRef identifies the origin of a transition rule: either one specific
// lifecycle state or any state. Modelling the wildcard as its own variant
// keeps rule matching exhaustive instead of leaning on empty strings.
type StateRef struct {
	any   bool
	state domain.State
}

// From builds a reference matching exactly one state.
func From(state domain.State) StateRef {
	return StateRef{state: state}
}

// FromAny builds a reference matching every state.
func FromAny() StateRef {
	return StateRef{any: true}
}

// Matches reports whether the reference covers the supplied state.
func (r StateRef) Matches(state domain.State) bool {
	return r.any || r.state == state
}

// IsAny reports whether the reference is the wildcard variant.
func (r StateRef) IsAny() bool {
	return r.any
}

// State returns the specific state the reference names. The boolean is false
// for the wildcard variant.
func (r StateRef) State() (domain.State, bool) {
	if r.any {
		return "", false
	}
	return r.state, true
}

// Rule declares one allowed edge in the catalog lifecycle together with the
// data each transition must carry.
type Rule struct {
	From                 StateRef
	To                   domain.State
	Automatic            bool
	RequiresReason       bool
	RequiresScheduleDate bool
}

// transitionRules is the authoritative edge table. Order matters: the first
// matching entry governs requirement flags, so specific-from rules precede
// the wildcard fallbacks for the same destination.
var transitionRules = []Rule{
	{From: From(domain.StateScheduled), To: domain.StatePublished, Automatic: true},
	{From: From(domain.StatePublished), To: domain.StateBlocked, RequiresReason: true},
	{From: From(domain.StateBlocked), To: domain.StatePublished},
	{From: From(domain.StateScheduled), To: domain.StateBlocked, RequiresReason: true},
	{From: From(domain.StateBlocked), To: domain.StateScheduled, RequiresScheduleDate: true},
	{From: FromAny(), To: domain.StatePublished},
	{From: FromAny(), To: domain.StateScheduled, RequiresScheduleDate: true},
}

// Rules returns a copy of the transition table so host layers (UI option
// filters, documentation endpoints) can inspect it without mutating it.
func Rules() []Rule {
	out := make([]Rule, len(transitionRules))
	copy(out, transitionRules)
	return out
}

func ruleFor(from, to domain.State) (Rule, bool) {
	for _, rule := range transitionRules {
		if rule.To == to && rule.From.Matches(from) {
			return rule, true
		}
	}
	return Rule{}, false
}
