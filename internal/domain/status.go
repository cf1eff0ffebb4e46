package domain

import "strings"

// State represents the lifecycle phase of a catalog item. Exactly one state
// holds at any time for a given item.
type State string

const (
	// StateScheduled marks an item that has a future publish time configured.
	StateScheduled State = "scheduled"
	// StatePublished identifies an item available to consumers.
	StatePublished State = "published"
	// StateBlocked marks an item withheld from consumers for a recorded reason.
	StateBlocked State = "blocked"
)

// Gateway wire representations for each lifecycle state. The gateway calls
// "scheduled" PROGRAMMED; keeping the mapping in one table prevents per-call
// string juggling from drifting.
const (
	wireScheduled = "PROGRAMMED"
	wirePublished = "PUBLISHED"
	wireBlocked   = "BLOCKED"
)

// States returns every lifecycle state in ascending display authority.
func States() []State {
	return []State{StatePublished, StateScheduled, StateBlocked}
}

// IsValid reports whether the state is a known lifecycle value.
func (s State) IsValid() bool {
	switch s {
	case StateScheduled, StatePublished, StateBlocked:
		return true
	}
	return false
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// Normalize coerces arbitrary state strings into the internal representation.
// Both internal names and gateway wire names are accepted; anything else is
// lowercased and returned as-is so callers can surface the offending value.
func Normalize(input string) State {
	trimmed := strings.TrimSpace(input)
	switch trimmed {
	case wireScheduled:
		return StateScheduled
	case wirePublished:
		return StatePublished
	case wireBlocked:
		return StateBlocked
	}
	return State(strings.ToLower(trimmed))
}

// FromWire resolves a gateway state value. The boolean is false when the
// value maps to no known lifecycle state.
func FromWire(value string) (State, bool) {
	state := Normalize(value)
	return state, state.IsValid()
}

// ToWire renders a lifecycle state in the gateway representation.
func ToWire(state State) string {
	switch state {
	case StateScheduled:
		return wireScheduled
	case StatePublished:
		return wirePublished
	case StateBlocked:
		return wireBlocked
	}
	return strings.ToUpper(strings.TrimSpace(string(state)))
}
