package datetime

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// localInputLayout is the wall-clock format produced by HTML datetime-local
// form controls: zero-padded, minute precision, no offset.
const localInputLayout = "2006-01-02T15:04"

// ErrRangeInverted reports a date range whose start falls after its end.
var ErrRangeInverted = errors.New("the start date must not be after the end date")

// Validation is the structured verdict shared by the date helpers. Err is nil
// when Valid is true; its message is suitable for direct display.
type Validation struct {
	Valid bool
	Err   error
}

// Error returns the display message for an invalid verdict, or "".
func (v Validation) Error() string {
	if v.Valid || v.Err == nil {
		return ""
	}
	return v.Err.Error()
}

// InstantToLocalInput renders an RFC 3339 instant in the process's local zone
// using the datetime-local form format. Empty or malformed input yields ""
// so form fields simply stay unset.
func InstantToLocalInput(instant string) string {
	trimmed := strings.TrimSpace(instant)
	if trimmed == "" {
		return ""
	}
	at, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return ""
	}
	return at.In(time.Local).Format(localInputLayout)
}

// LocalInputToInstant parses a datetime-local string as wall-clock time in the
// process's local zone and returns the matching UTC instant in RFC 3339 form.
// Empty or malformed input yields "". Seconds are dropped by construction, so
// InstantToLocalInput followed by LocalInputToInstant round-trips any instant
// truncated to minute precision.
func LocalInputToInstant(local string) string {
	trimmed := strings.TrimSpace(local)
	if trimmed == "" {
		return ""
	}
	at, err := time.ParseInLocation(localInputLayout, trimmed, time.Local)
	if err != nil {
		return ""
	}
	return at.UTC().Format(time.RFC3339)
}

// ParseInstant resolves the instant encoded by value, accepting both RFC 3339
// instants and the datetime-local form format (interpreted in the process's
// local zone). Unlike the form helpers above it reports malformed input.
func ParseInstant(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("datetime: empty instant")
	}
	if at, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return at, nil
	}
	at, err := time.ParseInLocation(localInputLayout, trimmed, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("datetime: unrecognized instant %q", value)
	}
	return at, nil
}

// ValidateDateRange checks an inclusive YYYY-MM-DD range. A missing bound is
// always valid; when both bounds are present the range is valid iff from <= to.
// The layout makes lexicographic comparison equivalent to chronological order.
func ValidateDateRange(from, to string) Validation {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return Validation{Valid: true}
	}
	if from <= to {
		return Validation{Valid: true}
	}
	return Validation{Err: ErrRangeInverted}
}
