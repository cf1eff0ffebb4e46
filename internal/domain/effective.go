package domain

import "time"

// Priority returns the display authority rank of a state. When an item could
// be presented under several states, the highest rank wins: blocked items must
// never render as available, and a pending schedule outranks plain published.
func Priority(state State) int {
	switch state {
	case StateBlocked:
		return 2
	case StateScheduled:
		return 1
	case StatePublished:
		return 0
	}
	return -1
}

// Compare orders two states by display authority. It returns a negative value
// when a ranks below b, zero when equal, and a positive value otherwise.
func Compare(a, b State) int {
	return Priority(a) - Priority(b)
}

// MostAuthoritative picks the state that should represent an item when several
// apply. The zero State is returned for an empty argument list.
func MostAuthoritative(states ...State) State {
	var top State
	rank := -1
	for _, state := range states {
		if p := Priority(state); p > rank {
			top = state
			rank = p
		}
	}
	return top
}

// EffectiveState returns the state consumers should treat as current. It is a
// pass-through today; derivation rules (e.g. collapsing elapsed schedules)
// belong here when they move server-side.
func EffectiveState(state State) State {
	return state
}

// ShouldAutoPublishAt reports whether a scheduled item has crossed its publish
// instant as of now. It never fires for other states or when no instant is
// recorded; driving the actual transition is the scheduler worker's job.
func ShouldAutoPublishAt(state State, scheduledAt *time.Time, now time.Time) bool {
	if state != StateScheduled || scheduledAt == nil {
		return false
	}
	return !now.Before(*scheduledAt)
}

// ShouldAutoPublish evaluates ShouldAutoPublishAt against the wall clock.
func ShouldAutoPublish(state State, scheduledAt *time.Time) bool {
	return ShouldAutoPublishAt(state, scheduledAt, time.Now())
}
